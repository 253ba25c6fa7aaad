package models

import "time"

// Agent представляет торгового агента на дашборде трейдинга
type Agent struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Role        string      `json:"role" yaml:"role"`
	Color       string      `json:"color" yaml:"color"`
	Icon        string      `json:"icon" yaml:"icon"`
	IsActive    bool        `json:"is_active" yaml:"is_active"`
	WinRate     float64     `json:"win_rate" yaml:"win_rate"`
	Pnl         float64     `json:"pnl" yaml:"pnl"` // PNL в процентах
	TotalPnl    float64     `json:"total_pnl" yaml:"total_pnl"`
	TradeCount  int         `json:"trade_count" yaml:"trade_count"`
	Confidence  float64     `json:"confidence" yaml:"confidence"`
	LastAction  string      `json:"last_action" yaml:"last_action"`
	Personality Personality `json:"personality" yaml:"personality"`
}

// Personality - параметры поведения агента
type Personality struct {
	Aggressiveness     float64 `json:"aggressiveness" yaml:"aggressiveness"`
	Confidence         float64 `json:"confidence" yaml:"confidence"`
	RiskTolerance      float64 `json:"risk_tolerance" yaml:"risk_tolerance"`
	CommunicationStyle string  `json:"communication_style" yaml:"communication_style"`
}

// AgentUpdate - частичное обновление агента.
// nil поля не изменяются.
type AgentUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Role        *string      `json:"role,omitempty"`
	Color       *string      `json:"color,omitempty"`
	Icon        *string      `json:"icon,omitempty"`
	IsActive    *bool        `json:"is_active,omitempty"`
	WinRate     *float64     `json:"win_rate,omitempty"`
	Pnl         *float64     `json:"pnl,omitempty"`
	TotalPnl    *float64     `json:"total_pnl,omitempty"`
	TradeCount  *int         `json:"trade_count,omitempty"`
	Confidence  *float64     `json:"confidence,omitempty"`
	LastAction  *string      `json:"last_action,omitempty"`
	Personality *Personality `json:"personality,omitempty"`
}

// Apply возвращает копию агента с применёнными непустыми полями
func (u AgentUpdate) Apply(a Agent) Agent {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Role != nil {
		a.Role = *u.Role
	}
	if u.Color != nil {
		a.Color = *u.Color
	}
	if u.Icon != nil {
		a.Icon = *u.Icon
	}
	if u.IsActive != nil {
		a.IsActive = *u.IsActive
	}
	if u.WinRate != nil {
		a.WinRate = *u.WinRate
	}
	if u.Pnl != nil {
		a.Pnl = *u.Pnl
	}
	if u.TotalPnl != nil {
		a.TotalPnl = *u.TotalPnl
	}
	if u.TradeCount != nil {
		a.TradeCount = *u.TradeCount
	}
	if u.Confidence != nil {
		a.Confidence = *u.Confidence
	}
	if u.LastAction != nil {
		a.LastAction = *u.LastAction
	}
	if u.Personality != nil {
		a.Personality = *u.Personality
	}
	return a
}

// IsEmpty возвращает true, если обновление не содержит ни одного поля
func (u AgentUpdate) IsEmpty() bool {
	return u.Name == nil && u.Role == nil && u.Color == nil && u.Icon == nil &&
		u.IsActive == nil && u.WinRate == nil && u.Pnl == nil && u.TotalPnl == nil &&
		u.TradeCount == nil && u.Confidence == nil && u.LastAction == nil && u.Personality == nil
}

// ActivityType - тип записи в ленте активности
type ActivityType string

// Типы активности
const (
	ActivityBuy     ActivityType = "buy"
	ActivitySell    ActivityType = "sell"
	ActivityAnalyze ActivityType = "analyze"
	ActivityInfo    ActivityType = "info"
)

// ActivityTypes - все допустимые типы активности
var ActivityTypes = []ActivityType{ActivityBuy, ActivitySell, ActivityAnalyze, ActivityInfo}

// IsValid проверяет, что тип активности известен
func (t ActivityType) IsValid() bool {
	for _, known := range ActivityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Activity - запись ленты активности агентов
type Activity struct {
	ID      string       `json:"id"`
	Time    time.Time    `json:"time"`
	Type    ActivityType `json:"type"`
	Action  string       `json:"action"` // BUY, SELL, ANALYZE, INFO
	Details string       `json:"details"`
	AgentID string       `json:"agent_id"`
}
