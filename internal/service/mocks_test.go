package service

import (
	"arena/internal/models"
)

// ============ Mock ArenaState ============

type MockArenaState struct {
	models      []models.AIModel
	leaderboard []models.LeaderboardModel
	trades      []models.Trade
	positions   []models.Position
	wallet      bool
	change24h   float64
}

func NewMockArenaState(list ...models.AIModel) *MockArenaState {
	m := &MockArenaState{models: list, change24h: 4.23}
	for i, model := range list {
		m.leaderboard = append(m.leaderboard, models.LeaderboardModel{AIModel: model, Rank: i + 1})
	}
	return m
}

func (m *MockArenaState) Models() []models.AIModel {
	return append([]models.AIModel{}, m.models...)
}

func (m *MockArenaState) Model(id string) (models.AIModel, bool) {
	for _, model := range m.models {
		if model.ID == id {
			return model, true
		}
	}
	return models.AIModel{}, false
}

func (m *MockArenaState) Leaderboard() []models.LeaderboardModel {
	return append([]models.LeaderboardModel{}, m.leaderboard...)
}

func (m *MockArenaState) Trades() []models.Trade {
	return append([]models.Trade{}, m.trades...)
}

func (m *MockArenaState) ModelTrades(modelID string) []models.Trade {
	out := []models.Trade{}
	for _, t := range m.trades {
		if t.ModelID == modelID {
			out = append(out, t)
		}
	}
	return out
}

func (m *MockArenaState) ModelPositions(modelID string) []models.Position {
	out := []models.Position{}
	for _, p := range m.positions {
		if p.ModelID == modelID {
			out = append(out, p)
		}
	}
	return out
}

func (m *MockArenaState) ModelDisplay(id string) models.DisplayInfo {
	if model, ok := m.Model(id); ok {
		return models.DisplayInfo{Name: model.Name, Color: model.Color, Found: true}
	}
	return models.DisplayInfo{Name: id, Color: "#6B7280"}
}

func (m *MockArenaState) WalletConnected() bool { return m.wallet }

func (m *MockArenaState) TotalAccountValue() float64 {
	total := 0.0
	for _, model := range m.models {
		total += model.AccountValue
	}
	return total
}

func (m *MockArenaState) Total24hChange() float64 { return m.change24h }

// ============ Mock TradingState ============

type MockTradingState struct {
	agents    []models.Agent
	selected  *models.Agent
	connected bool
}

func (m *MockTradingState) Agents() []models.Agent { return append([]models.Agent{}, m.agents...) }

func (m *MockTradingState) SelectedAgent() (models.Agent, bool) {
	if m.selected == nil {
		return models.Agent{}, false
	}
	return *m.selected, true
}

func (m *MockTradingState) IsConnected() bool { return m.connected }

func (m *MockTradingState) TotalPnL() float64 {
	total := 0.0
	for _, a := range m.agents {
		total += a.Pnl
	}
	return total
}

func (m *MockTradingState) ActiveAgentCount() int {
	n := 0
	for _, a := range m.agents {
		if a.IsActive {
			n++
		}
	}
	return n
}
