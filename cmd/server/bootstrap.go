package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"arena/internal/config"
	"arena/internal/mockdata"
	"arena/internal/store"
	"arena/pkg/ratelimit"
	"arena/pkg/tracing"
	"arena/pkg/utils"
)

// version проставляется при сборке: -ldflags "-X main.version=..."
var version = "dev"

// initLogger создает глобальный логгер по конфигурации
func initLogger(cfg config.LoggingConfig) *utils.Logger {
	return utils.InitGlobalLogger(utils.LogConfig{
		Level:       cfg.Level,
		Format:      cfg.Format,
		Output:      cfg.Output,
		Development: cfg.Development,
	})
}

// initTracing настраивает OpenTelemetry; при выключенной трассировке ничего не делает
func initTracing(cfg config.TracingConfig) error {
	return tracing.Init(tracing.Config{
		Enabled:     cfg.Enabled,
		ServiceName: cfg.ServiceName,
		Version:     version,
		PrettyPrint: cfg.PrettyPrint,
	})
}

// loadRoster возвращает состав из файла или встроенный
func loadRoster(path string) (*mockdata.Roster, error) {
	if path == "" {
		return mockdata.DefaultRoster(), nil
	}
	roster, err := mockdata.LoadRoster(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}
	return roster, nil
}

// newRand создает источник случайности; seed 0 = от текущего времени
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// buildStores заполняет оба хранилища стартовыми данными
func buildStores(roster *mockdata.Roster, rng mockdata.Rand, now time.Time, activityCap int) (*store.TradingStore, *store.ArenaStore) {
	trading := store.NewTradingStore(
		roster.Agents,
		store.WithActivityCap(activityCap),
		store.WithActivities(mockdata.SeedActivities(now)),
	)

	modelIDs := roster.ModelIDs()
	arena := store.NewArenaStore(store.ArenaSeed{
		Models:       roster.AIModels(),
		Trades:       mockdata.GenerateTrades(rng, now, modelIDs),
		Positions:    mockdata.GeneratePositions(now),
		EquityCurve:  mockdata.GenerateEquityCurve(rng, now, roster.Curves(), modelIDs),
		MarketPrices: roster.Market,
	})

	return trading, arena
}

// rateLimitPruneInterval - как часто выбрасывать ведра неактивных клиентов
const rateLimitPruneInterval = 5 * time.Minute

// newRateLimiter создает лимитер для /api/v1; RateLimitRPS = 0 отключает лимит.
// Ведра неактивных клиентов чистятся в фоне до отмены ctx.
func newRateLimiter(ctx context.Context, cfg config.ServerConfig) *ratelimit.KeyedLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}

	limiter := ratelimit.NewKeyed(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(rateLimitPruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Prune()
			case <-ctx.Done():
				return
			}
		}
	}()
	return limiter
}
