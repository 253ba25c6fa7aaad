package store

import (
	"math"
	"sort"
	"sync"

	"arena/internal/metrics"
	"arena/internal/models"
)

const (
	// InitialBlockHeight - высота блока при старте
	InitialBlockHeight int64 = 245678901
	// InitialLatencyMs - задержка при старте
	InitialLatencyMs = 45
	// DefaultTotal24hChange - изменение стоимости счёта за 24ч, %
	DefaultTotal24hChange = 4.23
	// DefaultModelColor - цвет для неизвестной модели
	DefaultModelColor = "#6B7280"

	// priceJitter - максимальное относительное изменение цены за тик (±0.05%)
	priceJitter = 0.001
	// latencyBaseMs и latencySpreadMs: задержка = floor(u*spread) + base
	latencyBaseMs   = 35
	latencySpreadMs = 30
)

// Rand - источник случайности для рыночного тика (удовлетворяет *rand.Rand)
type Rand interface {
	Float64() float64
}

// ArenaSeed - начальное состояние хранилища арены.
// Нулевые BlockHeight и LatencyMs заменяются значениями по умолчанию.
type ArenaSeed struct {
	Models         []models.AIModel
	Trades         []models.Trade
	Positions      []models.Position
	EquityCurve    []models.EquityPoint
	MarketPrices   []models.MarketPrice
	BlockHeight    int64
	LatencyMs      int
	Total24hChange *float64
}

// ArenaStore - состояние арены AI моделей
//
// Хранит:
// - модели и рассчитанный по ним лидерборд
// - сделки, открытые позиции, кривую капитала
// - рыночные цены, высоту блока, задержку
// - UI состояние: выбранная модель, период, подключение кошелька
//
// Все операции тотальные. Поиск по неизвестному ID возвращает пустой результат.
type ArenaStore struct {
	mu sync.RWMutex

	models      []models.AIModel
	leaderboard []models.LeaderboardModel
	trades      []models.Trade
	positions   []models.Position
	equity      []models.EquityPoint

	prices      []models.MarketPrice
	blockHeight int64
	latencyMs   int

	selectedModelID string
	timeRange       models.TimeRange
	walletConnected bool
	total24hChange  float64

	subs subscribers
}

// NewArenaStore создает хранилище и сразу рассчитывает лидерборд
func NewArenaStore(seed ArenaSeed) *ArenaStore {
	s := &ArenaStore{
		models:         append([]models.AIModel(nil), seed.Models...),
		trades:         append([]models.Trade(nil), seed.Trades...),
		positions:      append([]models.Position(nil), seed.Positions...),
		equity:         append([]models.EquityPoint(nil), seed.EquityCurve...),
		prices:         append([]models.MarketPrice(nil), seed.MarketPrices...),
		blockHeight:    seed.BlockHeight,
		latencyMs:      seed.LatencyMs,
		timeRange:      models.TimeRangeAll,
		total24hChange: DefaultTotal24hChange,
	}
	if s.blockHeight == 0 {
		s.blockHeight = InitialBlockHeight
	}
	if s.latencyMs == 0 {
		s.latencyMs = InitialLatencyMs
	}
	if seed.Total24hChange != nil {
		s.total24hChange = *seed.Total24hChange
	}
	s.leaderboard = rankModels(s.models)
	return s
}

// Subscribe регистрирует обработчик изменений. Возвращает функцию отписки.
func (s *ArenaStore) Subscribe(l Listener) func() {
	return s.subs.subscribe(l)
}

// ============ UI состояние ============

// SetSelectedModel выбирает модель по ID.
// Существование модели не проверяется: детальная страница сама покажет "не найдено".
func (s *ArenaStore) SetSelectedModel(id string) {
	s.mu.Lock()
	s.selectedModelID = id
	s.subs.enqueue(Event{Type: EventModelSelected, Payload: id})
	s.mu.Unlock()

	s.subs.flush()
}

// ClearSelectedModel снимает выбор модели
func (s *ArenaStore) ClearSelectedModel() {
	s.mu.Lock()
	s.selectedModelID = ""
	s.subs.enqueue(Event{Type: EventModelSelected, Payload: ""})
	s.mu.Unlock()

	s.subs.flush()
}

// SetTimeRange сохраняет выбранный период.
// Период только запоминается и не фильтрует данные.
func (s *ArenaStore) SetTimeRange(tr models.TimeRange) {
	s.mu.Lock()
	s.timeRange = tr
	s.subs.enqueue(Event{Type: EventTimeRange, Payload: tr})
	s.mu.Unlock()

	s.subs.flush()
}

// SetWalletConnected устанавливает флаг подключения кошелька
func (s *ArenaStore) SetWalletConnected(connected bool) {
	s.mu.Lock()
	s.walletConnected = connected
	metrics.SetWallet(connected)
	s.subs.enqueue(Event{Type: EventWallet, Payload: connected})
	s.mu.Unlock()

	s.subs.flush()
}

// ============ Рынок ============

// UpdateMarketPrices выполняет один рыночный тик:
// каждая цена умножается на 1 + (u-0.5)*0.001, задержка = floor(u*30)+35,
// высота блока увеличивается на 1. Возвращает новое состояние.
func (s *ArenaStore) UpdateMarketPrices(rng Rand) models.MarketStatus {
	s.mu.Lock()
	prices := make([]models.MarketPrice, len(s.prices))
	for i, p := range s.prices {
		p.Price *= 1 + (rng.Float64()-0.5)*priceJitter
		prices[i] = p
	}
	s.prices = prices
	s.latencyMs = int(math.Floor(rng.Float64()*latencySpreadMs)) + latencyBaseMs
	s.blockHeight++
	status := s.marketStatusLocked()
	s.subs.enqueue(Event{Type: EventMarket, Payload: status})
	s.mu.Unlock()

	s.subs.flush()
	return status
}

// MarketStatus возвращает цены, высоту блока и задержку
func (s *ArenaStore) MarketStatus() models.MarketStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marketStatusLocked()
}

func (s *ArenaStore) marketStatusLocked() models.MarketStatus {
	return models.MarketStatus{
		Prices:      append([]models.MarketPrice{}, s.prices...),
		BlockHeight: s.blockHeight,
		LatencyMs:   s.latencyMs,
	}
}

// ============ Лидерборд ============

// CalculateLeaderboard пересчитывает лидерборд по текущим моделям
// и заменяет предыдущий. Возвращает копию нового лидерборда.
func (s *ArenaStore) CalculateLeaderboard() []models.LeaderboardModel {
	s.mu.Lock()
	s.leaderboard = rankModels(s.models)
	board := append([]models.LeaderboardModel{}, s.leaderboard...)
	metrics.RecordLeaderboard()
	s.subs.enqueue(Event{Type: EventLeaderboard, Payload: board})
	s.mu.Unlock()

	s.subs.flush()
	return append([]models.LeaderboardModel{}, board...)
}

// ReplaceModels заменяет список моделей целиком и пересчитывает лидерборд
func (s *ArenaStore) ReplaceModels(list []models.AIModel) {
	s.mu.Lock()
	s.models = append([]models.AIModel(nil), list...)
	s.leaderboard = rankModels(s.models)
	snapshot := append([]models.AIModel{}, s.models...)
	board := append([]models.LeaderboardModel{}, s.leaderboard...)
	metrics.RecordLeaderboard()
	s.subs.enqueue(Event{Type: EventModels, Payload: snapshot})
	s.subs.enqueue(Event{Type: EventLeaderboard, Payload: board})
	s.mu.Unlock()

	s.subs.flush()
}

// rankModels сортирует модели по доходности (по убыванию) и проставляет места 1..N.
// Сортировка стабильная: при равной доходности сохраняется исходный порядок.
func rankModels(list []models.AIModel) []models.LeaderboardModel {
	sorted := append([]models.AIModel(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReturnPercentage > sorted[j].ReturnPercentage
	})

	board := make([]models.LeaderboardModel, len(sorted))
	for i, m := range sorted {
		board[i] = models.LeaderboardModel{
			AIModel:    m,
			Rank:       i + 1,
			RankChange: 0,
		}
	}
	return board
}

// ============ Поиск ============

// ModelTrades возвращает сделки модели в порядке хранения.
// Для неизвестной модели - пустой срез.
func (s *ArenaStore) ModelTrades(modelID string) []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Trade{}
	for _, t := range s.trades {
		if t.ModelID == modelID {
			out = append(out, t)
		}
	}
	return out
}

// ModelPositions возвращает открытые позиции модели
func (s *ArenaStore) ModelPositions(modelID string) []models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Position{}
	for _, p := range s.positions {
		if p.ModelID == modelID {
			out = append(out, p)
		}
	}
	return out
}

// Model возвращает модель по ID
func (s *ArenaStore) Model(id string) (models.AIModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.models {
		if m.ID == id {
			return m, true
		}
	}
	return models.AIModel{}, false
}

// ModelDisplay возвращает имя и цвет модели.
// Для неизвестной модели имя равно ID, цвет - DefaultModelColor.
func (s *ArenaStore) ModelDisplay(id string) models.DisplayInfo {
	if m, ok := s.Model(id); ok {
		return models.DisplayInfo{Name: m.Name, Color: m.Color, Glyph: m.Glyph, Found: true}
	}
	return models.DisplayInfo{Name: id, Color: DefaultModelColor}
}

// ============ Чтение ============

func (s *ArenaStore) Models() []models.AIModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AIModel{}, s.models...)
}

func (s *ArenaStore) Leaderboard() []models.LeaderboardModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LeaderboardModel{}, s.leaderboard...)
}

func (s *ArenaStore) Trades() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Trade{}, s.trades...)
}

func (s *ArenaStore) Positions() []models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Position{}, s.positions...)
}

func (s *ArenaStore) EquityCurve() []models.EquityPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EquityPoint{}, s.equity...)
}

// SelectedModelID возвращает ID выбранной модели и false, если выбора нет
func (s *ArenaStore) SelectedModelID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedModelID, s.selectedModelID != ""
}

func (s *ArenaStore) TimeRange() models.TimeRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRange
}

func (s *ArenaStore) WalletConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.walletConnected
}

// TotalAccountValue возвращает сумму стоимости счетов всех моделей
func (s *ArenaStore) TotalAccountValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, m := range s.models {
		total += m.AccountValue
	}
	return total
}

// Total24hChange возвращает изменение стоимости за 24ч в процентах
func (s *ArenaStore) Total24hChange() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total24hChange
}
