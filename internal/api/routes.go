package api

import (
	"net/http"

	"arena/internal/api/handlers"
	"arena/internal/api/middleware"
	"arena/internal/service"
	"arena/internal/simulator"
	"arena/internal/store"
	"arena/internal/websocket"
	"arena/pkg/ratelimit"
	"arena/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies содержит все зависимости для API handlers.
// Нулевые поля допустимы: соответствующие группы маршрутов не регистрируются.
type Dependencies struct {
	Trading        *store.TradingStore
	Arena          *store.ArenaStore
	ArenaService   *service.ArenaService
	TradingService *service.TradingService
	DepositService *service.DepositService
	Simulator      *simulator.Simulator
	Hub            *websocket.Hub
	Logger         *utils.Logger

	// AllowedOrigins - origins для CORS; пусто = DefaultAllowedOrigins
	AllowedOrigins []string
	// MetricsEnabled включает /metrics
	MetricsEnabled bool
	// RateLimiter ограничивает /api/v1 по адресу клиента; nil = без лимита
	RateLimiter *ratelimit.KeyedLimiter
	// TrustedProxies - IP/CIDR прокси, чей X-Forwarded-For определяет клиента
	TrustedProxies []string
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /agents/
//	│   ├── GET / - список агентов
//	│   ├── GET /selection - выбранный агент
//	│   ├── PUT /selection - выбрать агента
//	│   ├── DELETE /selection - снять выбор
//	│   ├── GET /{id} - получить агента
//	│   └── PATCH /{id} - обновить агента
//	├── /activities/
//	│   ├── GET / - лента активности (?limit=)
//	│   ├── POST / - добавить запись
//	│   └── POST /random - синтетическая запись
//	├── /simulation/
//	│   ├── GET / - состояние симуляции
//	│   ├── POST /start - запустить таймеры
//	│   └── POST /stop - остановить таймеры
//	├── /connection/
//	│   ├── GET / - состояние подключения
//	│   └── PUT / - изменить состояние
//	├── GET /trading/summary - сводка дашборда агентов
//	├── /models/
//	│   ├── GET / - список моделей
//	│   ├── GET /{id} - страница модели
//	│   ├── GET /{id}/trades - сделки модели
//	│   └── GET /{id}/positions - позиции модели
//	├── /leaderboard/
//	│   ├── GET / - рейтинг (?sort=&order=)
//	│   └── POST /recalculate - пересчитать рейтинг
//	├── GET /trades - лента сделок (?limit=)
//	├── GET /positions - все позиции
//	├── GET /equity - кривая капитала
//	├── /market/
//	│   ├── GET / - цены, блок, задержка
//	│   └── POST /tick - внеочередной тик
//	├── /arena/
//	│   ├── GET /state - UI состояние
//	│   ├── PUT /selection - выбрать модель
//	│   ├── DELETE /selection - снять выбор
//	│   ├── PUT /time-range - период графика
//	│   └── PUT /wallet - подключение кошелька
//	├── GET /summary - стоимость счетов и изменение за 24ч
//	└── /deposit/
//	    ├── POST / - депозит
//	    ├── GET /projection - прогноз (?amount=&duration=)
//	    └── GET /pool - статистика пула
//
// /ws/
//
//	└── /stream - WebSocket для real-time обновлений
//
// /metrics - Prometheus, /health - проверка живости
//
// Middleware применяется в следующем порядке:
// 1. Recovery
// 2. Tracing
// 3. Logging
// 4. CORS
// 5. RateLimit (только /api/v1)
func SetupRoutes(deps *Dependencies) *mux.Router {
	if deps == nil {
		deps = &Dependencies{}
	}

	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.Tracing)
	router.Use(middleware.Logging(deps.Logger))
	router.Use(middleware.CORS(deps.AllowedOrigins))

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(deps.RateLimiter, deps.TrustedProxies))

	// Trading routes
	if deps.Trading != nil {
		var summary handlers.TradingServiceInterface
		if deps.TradingService != nil {
			summary = deps.TradingService
		}
		agentHandler := handlers.NewAgentHandler(deps.Trading, summary)

		// /agents/selection регистрируется раньше /agents/{id}
		api.HandleFunc("/agents", agentHandler.GetAgents).Methods("GET")
		api.HandleFunc("/agents/selection", agentHandler.GetSelection).Methods("GET")
		api.HandleFunc("/agents/selection", agentHandler.SelectAgent).Methods("PUT")
		api.HandleFunc("/agents/selection", agentHandler.ClearSelection).Methods("DELETE")
		api.HandleFunc("/agents/{id}", agentHandler.GetAgent).Methods("GET")
		api.HandleFunc("/agents/{id}", agentHandler.UpdateAgent).Methods("PATCH")

		api.HandleFunc("/activities", agentHandler.GetActivities).Methods("GET")
		api.HandleFunc("/activities", agentHandler.AddActivity).Methods("POST")

		api.HandleFunc("/connection", agentHandler.GetConnection).Methods("GET")
		api.HandleFunc("/connection", agentHandler.SetConnection).Methods("PUT")

		api.HandleFunc("/trading/summary", agentHandler.GetSummary).Methods("GET")
	}

	// Arena routes
	if deps.Arena != nil {
		var arenaSvc handlers.ArenaServiceInterface
		if deps.ArenaService != nil {
			arenaSvc = deps.ArenaService
		}
		var ticker handlers.MarketTicker
		if deps.Simulator != nil {
			ticker = deps.Simulator
		}

		modelHandler := handlers.NewModelHandler(deps.Arena, arenaSvc)
		api.HandleFunc("/models", modelHandler.GetModels).Methods("GET")
		api.HandleFunc("/models/{id}", modelHandler.GetModel).Methods("GET")
		api.HandleFunc("/models/{id}/trades", modelHandler.GetModelTrades).Methods("GET")
		api.HandleFunc("/models/{id}/positions", modelHandler.GetModelPositions).Methods("GET")
		api.HandleFunc("/leaderboard", modelHandler.GetLeaderboard).Methods("GET")
		api.HandleFunc("/leaderboard/recalculate", modelHandler.RecalculateLeaderboard).Methods("POST")
		api.HandleFunc("/trades", modelHandler.GetTrades).Methods("GET")
		api.HandleFunc("/positions", modelHandler.GetPositions).Methods("GET")
		api.HandleFunc("/equity", modelHandler.GetEquity).Methods("GET")

		marketHandler := handlers.NewMarketHandler(deps.Arena, ticker)
		api.HandleFunc("/market", marketHandler.GetMarket).Methods("GET")
		api.HandleFunc("/market/tick", marketHandler.TickMarket).Methods("POST")

		arenaHandler := handlers.NewArenaHandler(deps.Arena, arenaSvc)
		api.HandleFunc("/arena/state", arenaHandler.GetState).Methods("GET")
		api.HandleFunc("/arena/selection", arenaHandler.SelectModel).Methods("PUT")
		api.HandleFunc("/arena/selection", arenaHandler.ClearModelSelection).Methods("DELETE")
		api.HandleFunc("/arena/time-range", arenaHandler.SetTimeRange).Methods("PUT")
		api.HandleFunc("/arena/wallet", arenaHandler.SetWallet).Methods("PUT")
		api.HandleFunc("/summary", arenaHandler.GetSummary).Methods("GET")
	}

	// Simulation routes
	if deps.Simulator != nil {
		simulationHandler := handlers.NewSimulationHandler(deps.Simulator)
		api.HandleFunc("/simulation", simulationHandler.GetStatus).Methods("GET")
		api.HandleFunc("/simulation/start", simulationHandler.Start).Methods("POST")
		api.HandleFunc("/simulation/stop", simulationHandler.Stop).Methods("POST")
		api.HandleFunc("/activities/random", simulationHandler.GenerateActivity).Methods("POST")
	}

	// Deposit routes
	if deps.DepositService != nil {
		depositHandler := handlers.NewDepositHandler(deps.DepositService)
		api.HandleFunc("/deposit", depositHandler.CreateDeposit).Methods("POST")
		api.HandleFunc("/deposit/projection", depositHandler.GetProjection).Methods("GET")
		api.HandleFunc("/deposit/pool", depositHandler.GetPool).Methods("GET")
	}

	// WebSocket route
	if deps.Hub != nil {
		router.HandleFunc("/ws/stream", deps.Hub.ServeWS).Methods("GET")
	}

	if deps.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// Preflight: mux вызывает middleware только для совпавшего маршрута,
	// поэтому OPTIONS нужен свой маршрут, ответ формирует CORS.
	// MatcherFunc вместо Methods: неизвестные пути остаются 404, а не 405.
	router.MatcherFunc(func(r *http.Request, _ *mux.RouteMatch) bool {
		return r.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
