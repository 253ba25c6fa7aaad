package ratelimit

import (
	"sync"
	"time"
)

// Limiter - Token Bucket для ограничения частоты запросов к API арены
//
// Алгоритм Token Bucket:
// - Ведро наполняется токенами с постоянной скоростью (rate токенов/сек)
// - Максимальная ёмкость ведра = burst (позволяет короткие всплески)
// - Каждый запрос потребляет 1 токен
// - Если токенов нет, запрос отклоняется, RetryAfter подсказывает паузу
//
// Использование:
//
//	limiter := New(10, 20) // 10 req/sec, burst 20
//	if !limiter.Allow() { wait := limiter.RetryAfter() ... }
type Limiter struct {
	rate       float64 // токенов в секунду
	burst      float64
	tokens     float64
	lastRefill time.Time
	now        func() time.Time
	mu         sync.Mutex
}

// New создает limiter на реальном времени.
// rate <= 0 дает 10 req/sec, burst <= 0 дает 2x rate.
func New(rate, burst float64) *Limiter {
	return NewWithClock(rate, burst, time.Now)
}

// NewWithClock создает limiter с заданным источником времени (для тестов)
func NewWithClock(rate, burst float64, now func() time.Time) *Limiter {
	if rate <= 0 {
		rate = 10
	}
	if burst <= 0 {
		burst = rate * 2
	}
	if burst < 1 {
		burst = 1
	}
	if now == nil {
		now = time.Now
	}

	return &Limiter{
		rate:       rate,
		burst:      burst,
		tokens:     burst, // начинаем с полным ведром
		lastRefill: now(),
		now:        now,
	}
}

// refill пополняет токены по прошедшему времени. Вызывается под lock'ом
func (l *Limiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}

	l.tokens += elapsed * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.lastRefill = now
}

// Allow забирает токен без блокировки
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// RetryAfter - сколько ждать до появления следующего токена
func (l *Limiter) RetryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
}

// full сообщает, что ведро наполнено до burst
func (l *Limiter) full() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	return l.tokens >= l.burst
}

// ============================================================
// KeyedLimiter - отдельное ведро на каждого клиента
// ============================================================

// KeyedLimiter держит по Limiter на ключ (адрес клиента).
// Ведра создаются лениво с одинаковыми rate/burst.
type KeyedLimiter struct {
	rate     float64
	burst    float64
	now      func() time.Time
	limiters map[string]*Limiter
	mu       sync.Mutex
}

// NewKeyed создает KeyedLimiter
func NewKeyed(rate, burst float64) *KeyedLimiter {
	return NewKeyedWithClock(rate, burst, time.Now)
}

// NewKeyedWithClock создает KeyedLimiter с заданным источником времени
func NewKeyedWithClock(rate, burst float64, now func() time.Time) *KeyedLimiter {
	return &KeyedLimiter{
		rate:     rate,
		burst:    burst,
		now:      now,
		limiters: make(map[string]*Limiter),
	}
}

// Get возвращает ведро для ключа, создавая его при первом обращении
func (kl *KeyedLimiter) Get(key string) *Limiter {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	l, ok := kl.limiters[key]
	if !ok {
		l = NewWithClock(kl.rate, kl.burst, kl.now)
		kl.limiters[key] = l
	}
	return l
}

// Allow забирает токен из ведра ключа
func (kl *KeyedLimiter) Allow(key string) bool {
	return kl.Get(key).Allow()
}

// Len - количество ведер
func (kl *KeyedLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.limiters)
}

// Prune удаляет полные ведра: клиент давно не приходил, и новое ведро
// будет эквивалентно старому
func (kl *KeyedLimiter) Prune() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	removed := 0
	for key, l := range kl.limiters {
		if l.full() {
			delete(kl.limiters, key)
			removed++
		}
	}
	return removed
}
