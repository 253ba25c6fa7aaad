package store

import "sync"

// EventType - тип изменения состояния хранилища
type EventType string

// События торгового хранилища
const (
	EventAgentSelected EventType = "agentSelected"
	EventAgentUpdated  EventType = "agentUpdated"
	EventConnection    EventType = "connection"
	EventActivity      EventType = "activity"
)

// События хранилища арены
const (
	EventModelSelected EventType = "modelSelected"
	EventTimeRange     EventType = "timeRange"
	EventWallet        EventType = "wallet"
	EventMarket        EventType = "market"
	EventLeaderboard   EventType = "leaderboard"
	EventModels        EventType = "models"
)

// Event - уведомление подписчику об изменении.
// Payload содержит копию изменённых данных (тип зависит от Type).
type Event struct {
	Type    EventType
	Payload interface{}
}

// Listener - обработчик событий хранилища
type Listener func(Event)

// subscribers хранит подписчиков одного хранилища.
//
// Мутация кладёт событие в очередь под блокировкой состояния (enqueue),
// затем после снятия блокировки вызывает flush. Очередь разбирает одна
// горутина, поэтому подписчики видят события в порядке мутаций.
// Доставка идёт вне блокировки состояния: обработчик может читать и
// изменять хранилище, его событие уйдёт после текущего.
type subscribers struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
	order     []int

	queueMu  sync.Mutex
	queue    []Event
	draining bool
}

func (s *subscribers) subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[int]Listener)
	}
	s.nextID++
	id := s.nextID
	s.listeners[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// enqueue ставит событие в очередь. Вызывается под блокировкой состояния
func (s *subscribers) enqueue(events ...Event) {
	s.queueMu.Lock()
	s.queue = append(s.queue, events...)
	s.queueMu.Unlock()
}

// flush доставляет накопленные события. Если доставка уже идёт в другой
// горутине (или выше по стеку), возвращается сразу: события заберёт она.
func (s *subscribers) flush() {
	s.queueMu.Lock()
	if s.draining {
		s.queueMu.Unlock()
		return
	}
	s.draining = true

	defer func() {
		if r := recover(); r != nil {
			s.queueMu.Lock()
			s.draining = false
			s.queueMu.Unlock()
			panic(r)
		}
	}()

	for len(s.queue) > 0 {
		e := s.queue[0]
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		s.dispatch(e)

		s.queueMu.Lock()
	}
	s.queue = nil
	s.draining = false
	s.queueMu.Unlock()
}

func (s *subscribers) dispatch(e Event) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}
