package service

import "arena/internal/models"

// ArenaState определяет чтение состояния арены, нужное сервисам.
// Реализуется *store.ArenaStore.
type ArenaState interface {
	Models() []models.AIModel
	Model(id string) (models.AIModel, bool)
	Leaderboard() []models.LeaderboardModel
	Trades() []models.Trade
	ModelTrades(modelID string) []models.Trade
	ModelPositions(modelID string) []models.Position
	ModelDisplay(id string) models.DisplayInfo
	WalletConnected() bool
	TotalAccountValue() float64
	Total24hChange() float64
}

// TradingState определяет чтение состояния дашборда агентов.
// Реализуется *store.TradingStore.
type TradingState interface {
	Agents() []models.Agent
	SelectedAgent() (models.Agent, bool)
	IsConnected() bool
	TotalPnL() float64
	ActiveAgentCount() int
}
