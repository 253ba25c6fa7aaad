package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena/internal/api"
	"arena/internal/config"
	"arena/internal/service"
	"arena/internal/simulator"
	"arena/internal/websocket"
	"arena/pkg/clock"
	"arena/pkg/tracing"
	"arena/pkg/utils"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logging)
	defer logger.Sync()

	if err := initTracing(cfg.Tracing); err != nil {
		logger.Warn("tracing disabled", utils.Err(err))
	}

	// Стартовые данные
	roster, err := loadRoster(cfg.Fixtures.RosterPath)
	if err != nil {
		logger.Fatal("failed to load roster", utils.Err(err))
	}

	rng := newRand(cfg.Simulation.Seed)
	trading, arena := buildStores(roster, rng, time.Now(), cfg.Simulation.ActivityCap)

	logger.Info("stores initialized",
		utils.Int("agents", len(roster.Agents)),
		utils.Int("models", len(roster.Models)),
		utils.Int("trades", len(arena.Trades())),
	)

	// Сервисы
	arenaService := service.NewArenaService(arena)
	tradingService := service.NewTradingService(trading)
	depositService := service.NewDepositService(arena, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WebSocket hub: изменения хранилищ уходят подписчикам
	hub := websocket.NewHub(logger, websocket.WithAllowedOrigins(cfg.Server.AllowedOrigins))
	go hub.Run(ctx)
	detach := hub.AttachStores(trading, arena)

	// Симуляция
	sim := simulator.New(simulator.Config{
		ConnectDelay: cfg.Simulation.ConnectDelay,
		PriceTick:    cfg.Simulation.PriceTick,
		ActivityTick: cfg.Simulation.ActivityTick,
	}, clock.NewReal(), trading, arena, rng, logger)
	if !cfg.Simulation.Disabled {
		sim.Start()
	}

	// Настройка зависимостей для API
	deps := &api.Dependencies{
		Trading:        trading,
		Arena:          arena,
		ArenaService:   arenaService,
		TradingService: tradingService,
		DepositService: depositService,
		Simulator:      sim,
		Hub:            hub,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Server.MetricsEnabled,
		RateLimiter:    newRateLimiter(ctx, cfg.Server),
		TrustedProxies: cfg.Server.TrustedProxies,
	}

	router := api.SetupRoutes(deps)

	// HTTP сервер
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("starting server", utils.String("addr", server.Addr), utils.String("version", version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", utils.Err(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Сначала останавливаем таймеры, чтобы состояние больше не менялось
	sim.Stop()
	detach()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", utils.Err(err))
	}

	// Закрываем websocket клиентов
	cancel()
	hub.Stop()

	if err := tracing.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to flush traces", utils.Err(err))
	}

	logger.Info("server exited")
}
