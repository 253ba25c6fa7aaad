package clock

import (
	"sort"
	"sync"
	"time"
)

// clock.go - источник времени и планировщик таймеров
//
// Назначение:
// Симуляция арены работает на таймерах (подключение через секунду,
// тик цен каждые 3 секунды, активность каждые 5 секунд). Чтобы тесты
// не зависели от реального времени, таймеры создаются через Scheduler:
// - Real: обёртка над time.AfterFunc / time.Ticker
// - Manual: виртуальное время, продвигается вручную через Advance

// Timer - отменяемый таймер
type Timer interface {
	// Stop отменяет таймер. Возвращает false, если таймер уже остановлен
	// (или одноразовый таймер уже сработал).
	Stop() bool
}

// Scheduler создает таймеры и отдаёт текущее время
type Scheduler interface {
	Now() time.Time
	// AfterFunc вызывает f один раз через d
	AfterFunc(d time.Duration, f func()) Timer
	// Every вызывает f каждые d, пока таймер не остановлен
	Every(d time.Duration, f func()) Timer
}

// ============ Real ============

// Real - планировщик на реальном времени
type Real struct{}

// NewReal создает планировщик на реальном времени
func NewReal() *Real {
	return &Real{}
}

func (Real) Now() time.Time {
	return time.Now()
}

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (Real) Every(d time.Duration, f func()) Timer {
	t := &realTicker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.loop(f)
	return t
}

type realTicker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *realTicker) loop(f func()) {
	for {
		select {
		case <-t.ticker.C:
			// Повторная проверка: Stop мог случиться, пока тик ждал в канале
			select {
			case <-t.done:
				return
			default:
			}
			f()
		case <-t.done:
			return
		}
	}
}

func (t *realTicker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}

// ============ Manual ============

// Manual - планировщик с виртуальным временем для тестов.
//
// Колбэки вызываются синхронно внутри Advance в порядке времени срабатывания;
// таймеры с одинаковым временем срабатывают в порядке создания.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	m        *Manual
	id       int
	due      time.Time
	interval time.Duration // 0 = одноразовый
	f        func()
	stopped  bool
}

// NewManual создает виртуальные часы, начинающиеся с start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	return m.add(d, 0, f)
}

func (m *Manual) Every(d time.Duration, f func()) Timer {
	if d <= 0 {
		panic("clock: non-positive interval for Every")
	}
	return m.add(d, d, f)
}

func (m *Manual) add(d, interval time.Duration, f func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{
		m:        m,
		id:       m.seq,
		due:      m.now.Add(d),
		interval: interval,
		f:        f,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance продвигает виртуальное время на d, вызывая все наступившие колбэки
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.f()
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
}

// nextDue выбирает ближайший таймер со временем <= target и сдвигает часы к нему.
// Одноразовые таймеры удаляются, периодические переносятся на следующий интервал.
func (m *Manual) nextDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			active = append(active, t)
		}
	}
	m.timers = active

	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].due.Equal(m.timers[j].due) {
			return m.timers[i].id < m.timers[j].id
		}
		return m.timers[i].due.Before(m.timers[j].due)
	})

	if len(m.timers) == 0 || m.timers[0].due.After(target) {
		return nil
	}

	t := m.timers[0]
	m.now = t.due
	if t.interval > 0 {
		t.due = t.due.Add(t.interval)
	} else {
		t.stopped = true
		m.timers = m.timers[1:]
	}

	// Возвращаем копию колбэка: сам таймер может быть остановлен внутри f
	return &manualTimer{f: t.f}
}

// Pending возвращает количество активных таймеров
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()

	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
