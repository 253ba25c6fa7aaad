package websocket

import (
	"time"

	"arena/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypeMarket - рыночный тик: цены, высота блока, задержка.
	// Отправляется на каждый тик (по умолчанию раз в 3 секунды)
	MessageTypeMarket MessageType = "market"

	// MessageTypeLeaderboard - пересчитанный лидерборд
	MessageTypeLeaderboard MessageType = "leaderboard"

	// MessageTypeActivity - новая запись ленты активности агентов
	MessageTypeActivity MessageType = "activity"

	// MessageTypeConnection - изменение статуса подключения дашборда
	MessageTypeConnection MessageType = "connection"

	// MessageTypeWallet - изменение статуса кошелька
	MessageTypeWallet MessageType = "wallet"

	// MessageTypeSelection - выбор агента или модели
	MessageTypeSelection MessageType = "selection"

	// MessageTypeTimeRange - смена периода отображения
	MessageTypeTimeRange MessageType = "timeRange"

	// MessageTypeAgent - обновление записи агента
	MessageTypeAgent MessageType = "agent"
)

// Области выбора для SelectionMessage
const (
	SelectionScopeAgent = "agent"
	SelectionScopeModel = "model"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

func newBase(t MessageType) BaseMessage {
	return BaseMessage{Type: t, Timestamp: time.Now()}
}

// MarketMessage - рыночный тик
type MarketMessage struct {
	BaseMessage
	Data models.MarketStatus `json:"data"`
}

// LeaderboardMessage - лидерборд целиком (места 1..N)
type LeaderboardMessage struct {
	BaseMessage
	Data []models.LeaderboardModel `json:"data"`
}

// ActivityMessage - новая запись ленты
type ActivityMessage struct {
	BaseMessage
	Data models.Activity `json:"data"`
}

// StatusMessage - флаг подключения (connection или wallet)
type StatusMessage struct {
	BaseMessage
	Connected bool `json:"connected"`
}

// SelectionMessage - выбор агента или модели.
// Пустой ID означает, что выбор снят.
type SelectionMessage struct {
	BaseMessage
	Scope string `json:"scope"`
	ID    string `json:"id"`
}

// TimeRangeMessage - выбранный период
type TimeRangeMessage struct {
	BaseMessage
	TimeRange models.TimeRange `json:"time_range"`
}

// AgentMessage - обновлённая запись агента
type AgentMessage struct {
	BaseMessage
	Data models.Agent `json:"data"`
}

// NewMarketMessage создает сообщение рыночного тика
func NewMarketMessage(status models.MarketStatus) *MarketMessage {
	return &MarketMessage{BaseMessage: newBase(MessageTypeMarket), Data: status}
}

// NewLeaderboardMessage создает сообщение лидерборда
func NewLeaderboardMessage(board []models.LeaderboardModel) *LeaderboardMessage {
	if board == nil {
		board = []models.LeaderboardModel{}
	}
	return &LeaderboardMessage{BaseMessage: newBase(MessageTypeLeaderboard), Data: board}
}

// NewActivityMessage создает сообщение активности
func NewActivityMessage(activity models.Activity) *ActivityMessage {
	return &ActivityMessage{BaseMessage: newBase(MessageTypeActivity), Data: activity}
}

// NewConnectionMessage создает сообщение статуса подключения
func NewConnectionMessage(connected bool) *StatusMessage {
	return &StatusMessage{BaseMessage: newBase(MessageTypeConnection), Connected: connected}
}

// NewWalletMessage создает сообщение статуса кошелька
func NewWalletMessage(connected bool) *StatusMessage {
	return &StatusMessage{BaseMessage: newBase(MessageTypeWallet), Connected: connected}
}

// NewSelectionMessage создает сообщение выбора
func NewSelectionMessage(scope, id string) *SelectionMessage {
	return &SelectionMessage{BaseMessage: newBase(MessageTypeSelection), Scope: scope, ID: id}
}

// NewTimeRangeMessage создает сообщение периода
func NewTimeRangeMessage(tr models.TimeRange) *TimeRangeMessage {
	return &TimeRangeMessage{BaseMessage: newBase(MessageTypeTimeRange), TimeRange: tr}
}

// NewAgentMessage создает сообщение обновления агента
func NewAgentMessage(agent models.Agent) *AgentMessage {
	return &AgentMessage{BaseMessage: newBase(MessageTypeAgent), Data: agent}
}
