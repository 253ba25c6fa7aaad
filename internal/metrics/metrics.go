package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики симуляции арены
// ============================================================
//
// - тики рынка и высота блока
// - синтетическая активность агентов
// - пересчёты лидерборда
// - статусы подключения и кошелька
// - websocket клиенты и депозиты

const namespace = "arena"

// ============ Рынок ============

// MarketTicks - количество рыночных тиков
var MarketTicks = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "ticks_total",
		Help:      "Total number of market price ticks",
	},
)

// BlockHeight - текущая высота блока
var BlockHeight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "block_height",
		Help:      "Current simulated block height",
	},
)

// LatencyMs - текущая симулированная задержка
var LatencyMs = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "latency_ms",
		Help:      "Current simulated network latency in milliseconds",
	},
)

// MarketPrice - последняя цена по инструменту
var MarketPrice = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "market",
		Name:      "price_usd",
		Help:      "Latest simulated market price in USD",
	},
	[]string{"symbol"},
)

// TickDuration - время обработки тика симуляции
var TickDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "simulation",
		Name:      "tick_duration_ms",
		Help:      "Time to process a simulation tick in milliseconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"kind"}, // market, activity, connect
)

// ============ Агенты и лидерборд ============

// ActivitiesGenerated - сгенерированные записи активности по типам
var ActivitiesGenerated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "trading",
		Name:      "activities_generated_total",
		Help:      "Total number of synthetic agent activities",
	},
	[]string{"type"}, // buy, sell, analyze, info
)

// LeaderboardRecalculations - пересчёты лидерборда
var LeaderboardRecalculations = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "arena",
		Name:      "leaderboard_recalculations_total",
		Help:      "Total number of leaderboard recalculations",
	},
)

// ============ Статусы ============

// ConnectionStatus - статус подключения дашборда (1=connected, 0=disconnected)
var ConnectionStatus = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "trading",
		Name:      "connection_status",
		Help:      "Trading dashboard connection status (1=connected, 0=disconnected)",
	},
)

// WalletStatus - статус кошелька (1=connected, 0=disconnected)
var WalletStatus = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "arena",
		Name:      "wallet_status",
		Help:      "Wallet connection status (1=connected, 0=disconnected)",
	},
)

// WebsocketClients - количество подключённых websocket клиентов
var WebsocketClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "clients",
		Help:      "Current number of connected websocket clients",
	},
)

// WebsocketDropped - клиенты, отключённые из-за переполнения буфера
var WebsocketDropped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "slow_clients_dropped_total",
		Help:      "Number of websocket clients dropped because their buffer was full",
	},
)

// ============ Депозиты ============

// Deposits - попытки депозита по результату
var Deposits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "deposit",
		Name:      "requests_total",
		Help:      "Deposit requests by result",
	},
	[]string{"result"}, // accepted, wallet_disconnected, invalid_amount, unknown_duration
)

// ============ Вспомогательные функции ============

// RecordMarketTick записывает результат рыночного тика
func RecordMarketTick(blockHeight int64, latencyMs int, prices map[string]float64) {
	MarketTicks.Inc()
	BlockHeight.Set(float64(blockHeight))
	LatencyMs.Set(float64(latencyMs))
	for symbol, price := range prices {
		MarketPrice.WithLabelValues(symbol).Set(price)
	}
}

// RecordTickDuration записывает длительность тика
func RecordTickDuration(kind string, ms float64) {
	TickDuration.WithLabelValues(kind).Observe(ms)
}

// RecordActivity записывает сгенерированную активность
func RecordActivity(activityType string) {
	ActivitiesGenerated.WithLabelValues(activityType).Inc()
}

// RecordLeaderboard записывает пересчёт лидерборда
func RecordLeaderboard() {
	LeaderboardRecalculations.Inc()
}

// SetConnection обновляет статус подключения
func SetConnection(connected bool) {
	ConnectionStatus.Set(boolToFloat(connected))
}

// SetWallet обновляет статус кошелька
func SetWallet(connected bool) {
	WalletStatus.Set(boolToFloat(connected))
}

// RecordDeposit записывает результат попытки депозита
func RecordDeposit(result string) {
	Deposits.WithLabelValues(result).Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
