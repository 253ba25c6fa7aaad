package handlers

import (
	"context"
	"sync"
	"time"

	"arena/internal/models"
	"arena/internal/service"
	"arena/internal/store"
)

// ============ Тестовые данные ============

func testAgents() []models.Agent {
	return []models.Agent{
		{ID: "agent-1", Name: "Alpha", Role: "Momentum", IsActive: true, TotalPnl: 1000},
		{ID: "agent-2", Name: "Beta", Role: "Mean Reversion", IsActive: false, TotalPnl: -250},
		{ID: "agent-3", Name: "Gamma", Role: "Arbitrage", IsActive: true, TotalPnl: 500},
	}
}

func testModels() []models.AIModel {
	return []models.AIModel{
		{ID: "gpt5", Name: "GPT-5", Color: "#10A37F", AccountValue: 11000, ReturnPercentage: 10, WinRate: 55, TotalTrades: 40, IsActivelyTrading: true},
		{ID: "sonnet", Name: "Claude Sonnet", Color: "#D97706", AccountValue: 13000, ReturnPercentage: 30, WinRate: 62, TotalTrades: 25, IsActivelyTrading: true},
		{ID: "gemini", Name: "Gemini", Color: "#4285F4", AccountValue: 9000, ReturnPercentage: -10, WinRate: 41, TotalTrades: 60},
	}
}

func testTrades() []models.Trade {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return []models.Trade{
		{ID: "t1", ModelID: "sonnet", Side: models.SideLong, Coin: "BTC", EntryPrice: 95000, EntryTime: base},
		{ID: "t2", ModelID: "ghost", Side: models.SideShort, Coin: "ETH", EntryPrice: 3500, EntryTime: base.Add(-time.Hour)},
		{ID: "t3", ModelID: "gpt5", Side: models.SideLong, Coin: "SOL", EntryPrice: 180, EntryTime: base.Add(-2 * time.Hour)},
	}
}

func newTestTradingStore() *store.TradingStore {
	return store.NewTradingStore(testAgents())
}

func newTestArenaStore() *store.ArenaStore {
	return store.NewArenaStore(store.ArenaSeed{
		Models: testModels(),
		Trades: testTrades(),
		Positions: []models.Position{
			{ID: "p1", ModelID: "sonnet", Side: models.SideLong, Coin: "BTC", EntryPrice: 94000, CurrentPrice: 95000},
		},
		EquityCurve: []models.EquityPoint{
			{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Values: map[string]float64{"gpt5": 10000}, Bitcoin: 10000},
		},
		MarketPrices: []models.MarketPrice{
			{Symbol: "BTC", Price: 95000, Change24h: 2.3},
		},
	})
}

// ============ Mock Deposit Service ============

// MockDepositService мок для DepositServiceInterface
type MockDepositService struct {
	receipt    *service.DepositReceipt
	projection *service.Projection
	pool       *service.PoolStats
	err        error

	lastRequest service.DepositRequest
	lastAmount  string
	lastDur     string
	calls       int
	mu          sync.Mutex
}

// NewMockDepositService создает мок с успешными ответами по умолчанию
func NewMockDepositService() *MockDepositService {
	return &MockDepositService{
		receipt: &service.DepositReceipt{
			ID:       "dep-1",
			Amount:   1000,
			Duration: service.Duration30D,
			Message:  "Deposit of $1,000.00 initiated for 30d!",
		},
		projection: &service.Projection{Amount: 1000, Duration: service.Duration30D, Multiplier: 1.2, AvgReturn: 10, ProjectedReturn: 100, APY: 120},
		pool:       &service.PoolStats{TotalPoolValue: 33000, ActiveModels: 2, TotalModels: 3},
	}
}

func (m *MockDepositService) Deposit(req service.DepositRequest) (*service.DepositReceipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func (m *MockDepositService) Projection(amount, duration string) (*service.Projection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastAmount = amount
	m.lastDur = duration
	if m.err != nil {
		return nil, m.err
	}
	return m.projection, nil
}

func (m *MockDepositService) PoolStats() *service.PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pool
}

// SetError устанавливает ошибку для всех операций
func (m *MockDepositService) SetError(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// LastRequest возвращает последний запрос Deposit
func (m *MockDepositService) LastRequest() service.DepositRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// ============ Mock Market Ticker ============

// MockMarketTicker мок для MarketTicker
type MockMarketTicker struct {
	status models.MarketStatus
	ticks  int
	mu     sync.Mutex
}

func (m *MockMarketTicker) MarketTick(ctx context.Context) models.MarketStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticks++
	m.status.BlockHeight++
	return m.status
}

// Ticks возвращает число вызовов MarketTick
func (m *MockMarketTicker) Ticks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// ============ Mock Simulation Controller ============

// MockSimulation мок для SimulationController
type MockSimulation struct {
	running   bool
	generated int
	mu        sync.Mutex
}

func (m *MockSimulation) Start() {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
}

func (m *MockSimulation) Stop() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

func (m *MockSimulation) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *MockSimulation) GenerateActivity(ctx context.Context) models.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generated++
	return models.Activity{
		ID:     "generated",
		Type:   models.ActivityAnalyze,
		Action: "ANALYZE",
	}
}
