package models

import (
	"fmt"
	"strings"
)

// AIModel представляет AI модель, участвующую в арене
type AIModel struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	Color             string  `json:"color" yaml:"color"`
	Glyph             string  `json:"glyph" yaml:"glyph"`
	AccountValue      float64 `json:"account_value" yaml:"account_value"`
	AvailableCash     float64 `json:"available_cash" yaml:"available_cash"`
	TotalPnl          float64 `json:"total_pnl" yaml:"total_pnl"`
	TotalFees         float64 `json:"total_fees" yaml:"total_fees"`
	NetRealized       float64 `json:"net_realized" yaml:"net_realized"`
	ReturnPercentage  float64 `json:"return_percentage" yaml:"return_percentage"`
	WinRate           float64 `json:"win_rate" yaml:"win_rate"`
	BiggestWin        float64 `json:"biggest_win" yaml:"biggest_win"`
	BiggestLoss       float64 `json:"biggest_loss" yaml:"biggest_loss"`
	SharpeRatio       float64 `json:"sharpe_ratio" yaml:"sharpe_ratio"`
	MaxDrawdown       float64 `json:"max_drawdown" yaml:"max_drawdown"`
	TotalTrades       int     `json:"total_trades" yaml:"total_trades"`
	AvgLeverage       float64 `json:"avg_leverage" yaml:"avg_leverage"`
	AvgConfidence     float64 `json:"avg_confidence" yaml:"avg_confidence"`
	IsActivelyTrading bool    `json:"is_actively_trading" yaml:"is_actively_trading"`
}

// LeaderboardModel - модель с рассчитанным местом в рейтинге
type LeaderboardModel struct {
	AIModel
	Rank       int `json:"rank"`
	RankChange int `json:"rank_change"` // всегда 0: история мест не хранится
}

// TimeRange - выбранный период отображения
type TimeRange string

// Допустимые периоды
const (
	TimeRangeAll TimeRange = "ALL"
	TimeRange72H TimeRange = "72H"
	TimeRange7D  TimeRange = "7D"
	TimeRange24H TimeRange = "24H"
)

// TimeRanges - все допустимые периоды в порядке отображения
var TimeRanges = []TimeRange{TimeRangeAll, TimeRange72H, TimeRange7D, TimeRange24H}

// ParseTimeRange разбирает строку периода без учёта регистра
func ParseTimeRange(s string) (TimeRange, error) {
	candidate := TimeRange(strings.ToUpper(strings.TrimSpace(s)))
	for _, tr := range TimeRanges {
		if candidate == tr {
			return tr, nil
		}
	}
	return "", fmt.Errorf("unknown time range %q", s)
}

// DisplayInfo - имя и цвет модели для отображения в лентах
type DisplayInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Glyph string `json:"glyph,omitempty"`
	Found bool   `json:"found"`
}
