package store

import (
	"sync"

	"arena/internal/metrics"
	"arena/internal/models"
)

// DefaultActivityLogCap - сколько последних записей активности хранится
const DefaultActivityLogCap = 100

// TradingStore - состояние дашборда агентов
//
// Хранит:
// - список агентов
// - выбранного агента (копия записи на момент выбора)
// - ленту активности, ограниченную activityCap записями (новые первыми)
// - флаг подключения
//
// Все операции тотальные: неизвестный ID - это no-op, а не ошибка.
// Каждое изменение рассылается подписчикам (Subscribe).
type TradingStore struct {
	mu          sync.RWMutex
	agents      []models.Agent
	selected    *models.Agent
	activities  []models.Activity
	connected   bool
	activityCap int

	subs subscribers
}

// TradingOption настраивает TradingStore
type TradingOption func(*TradingStore)

// WithActivityCap задает максимальную длину ленты активности (минимум 1)
func WithActivityCap(n int) TradingOption {
	return func(s *TradingStore) {
		if n > 0 {
			s.activityCap = n
		}
	}
}

// WithActivities задает стартовую ленту (новые первыми)
func WithActivities(activities []models.Activity) TradingOption {
	return func(s *TradingStore) {
		s.activities = append([]models.Activity(nil), activities...)
	}
}

// NewTradingStore создает хранилище с копией переданных агентов
func NewTradingStore(agents []models.Agent, opts ...TradingOption) *TradingStore {
	s := &TradingStore{
		agents:      append([]models.Agent(nil), agents...),
		activityCap: DefaultActivityLogCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.activities) > s.activityCap {
		s.activities = s.activities[:s.activityCap]
	}
	return s
}

// Subscribe регистрирует обработчик изменений. Возвращает функцию отписки.
func (s *TradingStore) Subscribe(l Listener) func() {
	return s.subs.subscribe(l)
}

// SetSelectedAgent выбирает агента по ID.
// Возвращает false, если агента нет; выбор при этом не меняется.
func (s *TradingStore) SetSelectedAgent(id string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	agent := s.agents[idx]
	s.selected = &agent
	s.subs.enqueue(Event{Type: EventAgentSelected, Payload: &agent})
	s.mu.Unlock()

	s.subs.flush()
	return true
}

// ClearSelectedAgent снимает выбор агента
func (s *TradingStore) ClearSelectedAgent() {
	s.mu.Lock()
	s.selected = nil
	s.subs.enqueue(Event{Type: EventAgentSelected, Payload: (*models.Agent)(nil)})
	s.mu.Unlock()

	s.subs.flush()
}

// UpdateAgent применяет частичное обновление к агенту с указанным ID.
// Возвращает обновлённую запись и false, если агент не найден.
func (s *TradingStore) UpdateAgent(id string, update models.AgentUpdate) (models.Agent, bool) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Agent{}, false
	}
	updated := update.Apply(s.agents[idx])
	s.agents[idx] = updated
	s.subs.enqueue(Event{Type: EventAgentUpdated, Payload: updated})
	s.mu.Unlock()

	s.subs.flush()
	return updated, true
}

// SetConnected устанавливает флаг подключения
func (s *TradingStore) SetConnected(connected bool) {
	s.mu.Lock()
	s.connected = connected
	metrics.SetConnection(connected)
	s.subs.enqueue(Event{Type: EventConnection, Payload: connected})
	s.mu.Unlock()

	s.subs.flush()
}

// AddActivity добавляет запись в начало ленты.
// Лента обрезается до activityCap, старые записи вытесняются первыми.
func (s *TradingStore) AddActivity(activity models.Activity) {
	s.mu.Lock()
	next := make([]models.Activity, 0, minInt(len(s.activities)+1, s.activityCap))
	next = append(next, activity)
	for _, a := range s.activities {
		if len(next) == s.activityCap {
			break
		}
		next = append(next, a)
	}
	s.activities = next
	s.subs.enqueue(Event{Type: EventActivity, Payload: activity})
	s.mu.Unlock()

	s.subs.flush()
}

// ============ Чтение ============

// Agents возвращает копию списка агентов
func (s *TradingStore) Agents() []models.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Agent(nil), s.agents...)
}

// Agent возвращает агента по ID
func (s *TradingStore) Agent(id string) (models.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.agents[idx], true
	}
	return models.Agent{}, false
}

// SelectedAgent возвращает выбранного агента (копию на момент выбора)
func (s *TradingStore) SelectedAgent() (models.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.Agent{}, false
	}
	return *s.selected, true
}

// Activities возвращает копию ленты, новые первыми
func (s *TradingStore) Activities() []models.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Activity{}, s.activities...)
}

// ActivityCap возвращает максимальную длину ленты
func (s *TradingStore) ActivityCap() int {
	return s.activityCap
}

// IsConnected возвращает флаг подключения
func (s *TradingStore) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// TotalPnL возвращает сумму PNL (в процентах) всех агентов
func (s *TradingStore) TotalPnL() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, a := range s.agents {
		total += a.Pnl
	}
	return total
}

// ActiveAgentCount возвращает количество активных агентов
func (s *TradingStore) ActiveAgentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.agents {
		if a.IsActive {
			n++
		}
	}
	return n
}

// AgentIDs возвращает ID агентов в порядке списка
func (s *TradingStore) AgentIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.agents))
	for i, a := range s.agents {
		ids[i] = a.ID
	}
	return ids
}

// indexOf ищет агента по ID. Вызывать под блокировкой.
func (s *TradingStore) indexOf(id string) int {
	for i := range s.agents {
		if s.agents[i].ID == id {
			return i
		}
	}
	return -1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
