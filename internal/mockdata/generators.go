package mockdata

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"arena/internal/models"
	"arena/pkg/utils"
)

// generators.go - генераторы синтетических данных арены
//
// Все генераторы получают источник случайности и текущее время явно,
// поэтому тесты могут воспроизводить результат с фиксированным seed.
// Реалистичность и воспроизводимость между запусками не гарантируются.

// Rand - источник случайных чисел (удовлетворяет *rand.Rand)
type Rand interface {
	Float64() float64
	Intn(n int) int
}

const (
	// TradesPerModel - количество закрытых сделок на модель
	TradesPerModel = 25
	// TradeWindow - сделки закрываются в пределах этого окна от now
	TradeWindow = 72 * time.Hour
	// TradeFeeRate - комиссия от номинала входа (0.1%)
	TradeFeeRate = 0.001
	// EquityHours - длина кривой капитала в часах
	EquityHours = 72
	// EquityStart - стартовая стоимость счёта каждой модели
	EquityStart = 100000.0
)

// TradeCoins - инструменты для синтетических сделок
var TradeCoins = []string{"BTC", "ETH", "SOL", "DOGE", "WIF", "BONK", "JUP", "AVAX"}

var coinEmojis = map[string]string{
	"BTC":   "₿",
	"ETH":   "Ξ",
	"SOL":   "◎",
	"DOGE":  "🐕",
	"WIF":   "🎩",
	"BONK":  "🔨",
	"JUP":   "🪐",
	"AVAX":  "🏔️",
	"MATIC": "💜",
	"ARB":   "🔵",
}

// DefaultCoinEmoji - значок для неизвестного инструмента
const DefaultCoinEmoji = "💰"

// CoinEmoji возвращает значок инструмента
func CoinEmoji(coin string) string {
	if e, ok := coinEmojis[coin]; ok {
		return e
	}
	return DefaultCoinEmoji
}

// GenerateTrades создает TradesPerModel закрытых сделок для каждой модели.
// Результат отсортирован по времени выхода, новые первыми.
func GenerateTrades(rng Rand, now time.Time, modelIDs []string) []models.Trade {
	trades := make([]models.Trade, 0, len(modelIDs)*TradesPerModel)
	tradeID := 1

	for _, modelID := range modelIDs {
		for i := 0; i < TradesPerModel; i++ {
			coin := TradeCoins[rng.Intn(len(TradeCoins))]
			side := models.SideShort
			if rng.Float64() > 0.5 {
				side = models.SideLong
			}

			entryPrice := rng.Float64()*100 + 10
			priceChange := (rng.Float64() - 0.5) * 0.1 // от -5% до +5%
			exitPrice := entryPrice * (1 + priceChange)
			quantity := rng.Float64()*10 + 1
			leverage := rng.Intn(5) + 1
			lev := float64(leverage)

			notionalEntry := entryPrice * quantity * lev
			notionalExit := exitPrice * quantity * lev
			grossPnl := utils.CalculatePNL(string(side), entryPrice, exitPrice, quantity*lev)
			fees := notionalEntry * TradeFeeRate
			netPnl := grossPnl - fees

			hoursAgo := rng.Float64() * TradeWindow.Hours()
			exitTime := now.Add(-time.Duration(hoursAgo * float64(time.Hour)))
			holding := time.Duration((rng.Float64()*6 + 0.5) * float64(time.Hour)) // 0.5-6.5 часа
			entryTime := exitTime.Add(-holding)
			holdingMs := holding.Milliseconds()

			trades = append(trades, models.Trade{
				ID:            "trade-" + strconv.Itoa(tradeID),
				ModelID:       modelID,
				Side:          side,
				Coin:          coin,
				CoinEmoji:     CoinEmoji(coin),
				EntryPrice:    entryPrice,
				ExitPrice:     &exitPrice,
				Quantity:      quantity,
				Leverage:      leverage,
				EntryTime:     entryTime,
				ExitTime:      &exitTime,
				HoldingTimeMs: &holdingMs,
				NotionalEntry: notionalEntry,
				NotionalExit:  &notionalExit,
				TotalFees:     fees,
				NetPnl:        &netPnl,
				IsActive:      false,
			})
			tradeID++
		}
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return exitTimeOf(trades[i]).After(exitTimeOf(trades[j]))
	})
	return trades
}

func exitTimeOf(t models.Trade) time.Time {
	if t.ExitTime == nil {
		return time.Time{}
	}
	return *t.ExitTime
}

// GeneratePositions возвращает фиксированный набор открытых позиций
func GeneratePositions(now time.Time) []models.Position {
	hoursAgo := func(h float64) time.Time {
		return now.Add(-time.Duration(h * float64(time.Hour)))
	}

	return []models.Position{
		{
			ID:               "pos-1",
			ModelID:          "gpt5",
			Side:             models.SideLong,
			Coin:             "SOL",
			CoinEmoji:        CoinEmoji("SOL"),
			EntryPrice:       98.45,
			CurrentPrice:     101.20,
			Quantity:         50,
			Leverage:         3,
			EntryTime:        hoursAgo(2.5),
			LiquidationPrice: 82.15,
			Margin:           1640.83,
			UnrealizedPnl:    412.50,
			ExitPlan: &models.ExitPlan{
				TakeProfit:       105.00,
				StopLoss:         95.00,
				InvalidationNote: "Break below 4h support @ $94.50",
			},
		},
		{
			ID:               "pos-2",
			ModelID:          "sonnet",
			Side:             models.SideShort,
			Coin:             "BTC",
			CoinEmoji:        CoinEmoji("BTC"),
			EntryPrice:       43890.00,
			CurrentPrice:     43720.00,
			Quantity:         0.5,
			Leverage:         2,
			EntryTime:        hoursAgo(1.8),
			LiquidationPrice: 48279.00,
			Margin:           21945.00,
			UnrealizedPnl:    170.00,
			ExitPlan: &models.ExitPlan{
				TakeProfit:       42500.00,
				StopLoss:         44500.00,
				InvalidationNote: "Reclaim $44.2K with volume",
			},
		},
		{
			ID:               "pos-3",
			ModelID:          "gemini",
			Side:             models.SideLong,
			Coin:             "DOGE",
			CoinEmoji:        CoinEmoji("DOGE"),
			EntryPrice:       0.0845,
			CurrentPrice:     0.0832,
			Quantity:         100000,
			Leverage:         5,
			EntryTime:        hoursAgo(0.5),
			LiquidationPrice: 0.0677,
			Margin:           1690.00,
			UnrealizedPnl:    -650.00,
			ExitPlan: &models.ExitPlan{
				TakeProfit:       0.0920,
				StopLoss:         0.0820,
				InvalidationNote: "Lost 1h trend support",
			},
		},
	}
}

// GenerateEquityCurve строит почасовую кривую капитала за последние EquityHours часов
// (EquityHours+1 точек, от старых к новым).
func GenerateEquityCurve(rng Rand, now time.Time, curves map[string]CurveParams, modelIDs []string) []models.EquityPoint {
	values := make(map[string]float64, len(modelIDs))
	for _, id := range modelIDs {
		values[id] = EquityStart
	}
	bitcoin := EquityStart

	points := make([]models.EquityPoint, 0, EquityHours+1)
	for i := EquityHours; i >= 0; i-- {
		for _, id := range modelIDs {
			params, ok := curves[id]
			if !ok {
				params = DefaultCurve
			}
			values[id] += (rng.Float64() - params.Bias) * params.Volatility
		}
		bitcoin += (rng.Float64() - BitcoinCurve.Bias) * BitcoinCurve.Volatility

		snapshot := make(map[string]float64, len(values))
		for id, v := range values {
			snapshot[id] = v
		}
		points = append(points, models.EquityPoint{
			Timestamp: now.Add(-time.Duration(i) * time.Hour),
			Values:    snapshot,
			Bitcoin:   bitcoin,
		})
	}
	return points
}

var activityActions = []string{"BUY", "SELL", "ANALYZE", "INFO"}

// RandomActivity создает синтетическую запись активности.
// Тип и действие выбираются независимо, как и в исходной ленте.
func RandomActivity(rng Rand, now time.Time, agentIDs []string) models.Activity {
	activityType := models.ActivityTypes[rng.Intn(len(models.ActivityTypes))]
	action := activityActions[rng.Intn(len(activityActions))]

	agentID := ""
	if len(agentIDs) > 0 {
		agentID = agentIDs[rng.Intn(len(agentIDs))]
	}

	return models.Activity{
		ID:      uuid.NewString(),
		Time:    now,
		Type:    activityType,
		Action:  action,
		Details: fmt.Sprintf("Random activity at %s", now.Format("15:04:05")),
		AgentID: agentID,
	}
}

// SeedActivities возвращает стартовые записи ленты, новые первыми
func SeedActivities(now time.Time) []models.Activity {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	return []models.Activity{
		{ID: "1", Time: ago(5 * time.Second), Type: models.ActivityBuy, Action: "BUY", Details: "BTC @ $43,890 (0.5 units) - Alpha", AgentID: "agent-1"},
		{ID: "2", Time: ago(12 * time.Second), Type: models.ActivityAnalyze, Action: "ANALYZE", Details: "ETH trend analysis complete - Beta", AgentID: "agent-2"},
		{ID: "3", Time: ago(25 * time.Second), Type: models.ActivitySell, Action: "SELL", Details: "SOL @ $98.50 (2.3 units) - Gamma", AgentID: "agent-3"},
		{ID: "4", Time: ago(38 * time.Second), Type: models.ActivityInfo, Action: "INFO", Details: "Arbitrage opportunity detected - Delta", AgentID: "agent-4"},
		{ID: "5", Time: ago(52 * time.Second), Type: models.ActivityBuy, Action: "BUY", Details: "AVAX @ $35.20 (5 units) - Zeta", AgentID: "agent-6"},
	}
}
