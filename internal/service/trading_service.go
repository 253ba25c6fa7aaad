package service

// TradingSummary - сводка шапки дашборда агентов
type TradingSummary struct {
	TotalPnL        float64 `json:"total_pnl"`
	ActiveAgents    int     `json:"active_agents"`
	TotalAgents     int     `json:"total_agents"`
	Connected       bool    `json:"connected"`
	SelectedAgentID string  `json:"selected_agent_id,omitempty"`
}

// TradingService - модели чтения дашборда агентов
type TradingService struct {
	trading TradingState
}

// NewTradingService создает новый экземпляр TradingService
func NewTradingService(trading TradingState) *TradingService {
	return &TradingService{trading: trading}
}

// Summary возвращает суммарный PNL, число активных агентов и статус подключения
func (s *TradingService) Summary() TradingSummary {
	summary := TradingSummary{
		TotalPnL:     s.trading.TotalPnL(),
		ActiveAgents: s.trading.ActiveAgentCount(),
		TotalAgents:  len(s.trading.Agents()),
		Connected:    s.trading.IsConnected(),
	}
	if agent, ok := s.trading.SelectedAgent(); ok {
		summary.SelectedAgentID = agent.ID
	}
	return summary
}
