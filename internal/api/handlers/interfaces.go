package handlers

import (
	"context"

	"arena/internal/models"
	"arena/internal/service"
)

// TradingStore - операции торгового хранилища, доступные через API.
// Реализуется *store.TradingStore.
type TradingStore interface {
	Agents() []models.Agent
	Agent(id string) (models.Agent, bool)
	UpdateAgent(id string, update models.AgentUpdate) (models.Agent, bool)
	SetSelectedAgent(id string) bool
	ClearSelectedAgent()
	SelectedAgent() (models.Agent, bool)
	Activities() []models.Activity
	AddActivity(activity models.Activity)
	IsConnected() bool
	SetConnected(connected bool)
}

// ArenaStore - операции хранилища арены, доступные через API.
// Реализуется *store.ArenaStore.
type ArenaStore interface {
	Models() []models.AIModel
	ModelTrades(modelID string) []models.Trade
	ModelPositions(modelID string) []models.Position
	CalculateLeaderboard() []models.LeaderboardModel
	Positions() []models.Position
	EquityCurve() []models.EquityPoint
	MarketStatus() models.MarketStatus
	SelectedModelID() (string, bool)
	SetSelectedModel(id string)
	ClearSelectedModel()
	TimeRange() models.TimeRange
	SetTimeRange(tr models.TimeRange)
	WalletConnected() bool
	SetWalletConnected(connected bool)
}

// ArenaServiceInterface - модели чтения страниц арены
type ArenaServiceInterface interface {
	TradesFeed(limit int) []service.FeedTrade
	ModelDetail(id string) (*service.ModelDetail, bool)
	SortedLeaderboard(key service.SortKey, order service.SortOrder) ([]models.LeaderboardModel, error)
	Summary() service.AccountSummary
}

// TradingServiceInterface - сводка дашборда агентов
type TradingServiceInterface interface {
	Summary() service.TradingSummary
}

// DepositServiceInterface - операции страницы депозита
type DepositServiceInterface interface {
	Deposit(req service.DepositRequest) (*service.DepositReceipt, error)
	Projection(amount, duration string) (*service.Projection, error)
	PoolStats() *service.PoolStats
}

// MarketTicker - ручной запуск рыночного тика.
// Реализуется *simulator.Simulator.
type MarketTicker interface {
	MarketTick(ctx context.Context) models.MarketStatus
}

// SimulationController - управление таймерной симуляцией.
// Реализуется *simulator.Simulator.
type SimulationController interface {
	Start()
	Stop()
	Running() bool
	GenerateActivity(ctx context.Context) models.Activity
}
