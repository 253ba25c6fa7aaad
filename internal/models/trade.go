package models

import "time"

// TradeSide - направление сделки
type TradeSide string

const (
	SideLong  TradeSide = "LONG"
	SideShort TradeSide = "SHORT"
)

// Trade - сделка модели.
// Для открытых сделок поля выхода равны nil.
type Trade struct {
	ID            string     `json:"id"`
	ModelID       string     `json:"model_id"`
	Side          TradeSide  `json:"side"`
	Coin          string     `json:"coin"`
	CoinEmoji     string     `json:"coin_emoji"`
	EntryPrice    float64    `json:"entry_price"`
	ExitPrice     *float64   `json:"exit_price"`
	Quantity      float64    `json:"quantity"`
	Leverage      int        `json:"leverage"`
	EntryTime     time.Time  `json:"entry_time"`
	ExitTime      *time.Time `json:"exit_time"`
	HoldingTimeMs *int64     `json:"holding_time_ms"`
	NotionalEntry float64    `json:"notional_entry"`
	NotionalExit  *float64   `json:"notional_exit"`
	TotalFees     float64    `json:"total_fees"`
	NetPnl        *float64   `json:"net_pnl"`
	IsActive      bool       `json:"is_active"`
}

// ExitPlan - план выхода из позиции
type ExitPlan struct {
	TakeProfit       float64 `json:"take_profit"`
	StopLoss         float64 `json:"stop_loss"`
	InvalidationNote string  `json:"invalidation_note"`
}

// Position - открытая позиция модели
type Position struct {
	ID               string    `json:"id"`
	ModelID          string    `json:"model_id"`
	Side             TradeSide `json:"side"`
	Coin             string    `json:"coin"`
	CoinEmoji        string    `json:"coin_emoji"`
	EntryPrice       float64   `json:"entry_price"`
	CurrentPrice     float64   `json:"current_price"`
	Quantity         float64   `json:"quantity"`
	Leverage         int       `json:"leverage"`
	EntryTime        time.Time `json:"entry_time"`
	LiquidationPrice float64   `json:"liquidation_price"`
	Margin           float64   `json:"margin"`
	UnrealizedPnl    float64   `json:"unrealized_pnl"`
	ExitPlan         *ExitPlan `json:"exit_plan,omitempty"`
}
