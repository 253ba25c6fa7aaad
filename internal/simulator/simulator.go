package simulator

import (
	"context"
	"sync"
	"time"

	"arena/internal/metrics"
	"arena/internal/mockdata"
	"arena/internal/models"
	"arena/internal/store"
	"arena/pkg/clock"
	"arena/pkg/tracing"
	"arena/pkg/utils"
)

// Config - интервалы симуляции
type Config struct {
	ConnectDelay time.Duration // задержка "рукопожатия" дашборда и кошелька
	PriceTick    time.Duration // период рыночного тика
	ActivityTick time.Duration // период синтетической активности (после подключения)
}

// DefaultConfig возвращает интервалы по умолчанию: 1s, 3s, 5s
func DefaultConfig() Config {
	return Config{
		ConnectDelay: time.Second,
		PriceTick:    3 * time.Second,
		ActivityTick: 5 * time.Second,
	}
}

// Simulator - таймерная симуляция живого дашборда
//
// После Start:
//   - через ConnectDelay дашборд и кошелёк помечаются подключёнными,
//     и запускается таймер активности
//   - каждые PriceTick обновляются рыночные цены
//   - каждые ActivityTick в ленту добавляется синтетическая запись,
//     если дашборд подключён
//
// Все колбэки выполняются под одним мьютексом, поэтому изменения
// состояния из таймеров не пересекаются друг с другом.
// После Stop ни один колбэк не меняет состояние. Каждый Start открывает
// новое поколение, и колбэк, запланированный в прошлом поколении,
// ничего не делает, даже если успел сработать до Stop.
type Simulator struct {
	cfg     Config
	sched   clock.Scheduler
	trading *store.TradingStore
	arena   *store.ArenaStore
	rng     mockdata.Rand
	logger  *utils.Logger

	mu       sync.Mutex
	running  bool
	gen      uint64
	timers   []clock.Timer
	activity clock.Timer
}

// New создает симулятор. rng используется только под мьютексом симулятора.
func New(cfg Config, sched clock.Scheduler, trading *store.TradingStore, arena *store.ArenaStore, rng mockdata.Rand, logger *utils.Logger) *Simulator {
	return &Simulator{
		cfg:     cfg,
		sched:   sched,
		trading: trading,
		arena:   arena,
		rng:     rng,
		logger:  utils.OrGlobal(logger).WithComponent("simulator"),
	}
}

// Start запускает таймеры. Повторный вызов ничего не делает.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.gen++
	gen := s.gen

	s.timers = append(s.timers,
		s.sched.AfterFunc(s.cfg.ConnectDelay, func() { s.onConnect(gen) }),
		s.sched.Every(s.cfg.PriceTick, func() { s.onPriceTick(gen) }),
	)

	s.logger.Info("simulation started",
		utils.String("connect_delay", s.cfg.ConnectDelay.String()),
		utils.String("price_tick", s.cfg.PriceTick.String()),
		utils.String("activity_tick", s.cfg.ActivityTick.String()),
	)
}

// Stop останавливает все таймеры
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.gen++

	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	if s.activity != nil {
		s.activity.Stop()
		s.activity = nil
	}

	s.logger.Info("simulation stopped")
}

// Running возвращает true между Start и Stop
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// MarketTick выполняет рыночный тик вне расписания (ручной запуск через API)
func (s *Simulator) MarketTick(ctx context.Context) models.MarketStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marketTick(ctx)
}

// GenerateActivity добавляет синтетическую запись в ленту вне расписания
func (s *Simulator) GenerateActivity(ctx context.Context) models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateActivity(ctx)
}

// ============ Колбэки таймеров ============

// current сообщает, что колбэк поколения gen ещё актуален (вызывать под s.mu)
func (s *Simulator) current(gen uint64) bool {
	return s.running && s.gen == gen
}

func (s *Simulator) onConnect(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}

	start := time.Now()
	_, span := tracing.StartSpan(context.Background(), "simulator.connect")
	span.SetAttributes(tracing.TickKind("connect"))
	defer span.End()

	s.trading.SetConnected(true)
	s.arena.SetWalletConnected(true)

	if s.activity != nil {
		s.activity.Stop()
	}
	s.activity = s.sched.Every(s.cfg.ActivityTick, func() { s.onActivityTick(gen) })

	metrics.RecordTickDuration("connect", msSince(start))
	s.logger.Info("dashboard connected", utils.Connected(true))
}

func (s *Simulator) onPriceTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	s.marketTick(context.Background())
}

func (s *Simulator) onActivityTick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) || !s.trading.IsConnected() {
		return
	}
	s.generateActivity(context.Background())
}

// ============ Шаги симуляции (вызывать под s.mu) ============

func (s *Simulator) marketTick(ctx context.Context) models.MarketStatus {
	start := time.Now()
	_, span := tracing.StartSpan(ctx, "simulator.market_tick")
	defer span.End()

	status := s.arena.UpdateMarketPrices(s.rng)

	prices := make(map[string]float64, len(status.Prices))
	for _, p := range status.Prices {
		prices[p.Symbol] = p.Price
	}
	metrics.RecordMarketTick(status.BlockHeight, status.LatencyMs, prices)
	metrics.RecordTickDuration("market", msSince(start))
	span.SetAttributes(tracing.TickKind("market"), tracing.BlockHeight(status.BlockHeight))

	s.logger.Debug("market tick",
		utils.BlockHeight(status.BlockHeight),
		utils.Latency(float64(status.LatencyMs)),
	)
	return status
}

func (s *Simulator) generateActivity(ctx context.Context) models.Activity {
	start := time.Now()
	_, span := tracing.StartSpan(ctx, "simulator.activity")
	defer span.End()

	activity := mockdata.RandomActivity(s.rng, s.sched.Now(), s.trading.AgentIDs())
	s.trading.AddActivity(activity)

	metrics.RecordActivity(string(activity.Type))
	metrics.RecordTickDuration("activity", msSince(start))
	span.SetAttributes(tracing.TickKind("activity"), tracing.AgentID(activity.AgentID))

	s.logger.Debug("activity generated",
		utils.AgentID(activity.AgentID),
		utils.ActivityType(string(activity.Type)),
	)
	return activity
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
