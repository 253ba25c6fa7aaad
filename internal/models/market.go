package models

import "time"

// MarketPrice - последняя цена инструмента
type MarketPrice struct {
	Symbol    string  `json:"symbol" yaml:"symbol"`
	Price     float64 `json:"price" yaml:"price"`
	Change24h float64 `json:"change_24h" yaml:"change_24h"`
}

// MarketStatus - состояние строки статуса: цены, высота блока, задержка
type MarketStatus struct {
	Prices      []MarketPrice `json:"prices"`
	BlockHeight int64         `json:"block_height"`
	LatencyMs   int           `json:"latency_ms"`
}

// EquityPoint - точка кривой капитала.
// Values содержит стоимость счёта по ID модели, Bitcoin - базовый актив.
type EquityPoint struct {
	Timestamp time.Time          `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
	Bitcoin   float64            `json:"bitcoin"`
}
