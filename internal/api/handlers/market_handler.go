package handlers

import (
	"net/http"
)

// MarketHandler обрабатывает запросы рыночной ленты (цены, блок, задержка)
type MarketHandler struct {
	arena  ArenaStore
	ticker MarketTicker
}

// NewMarketHandler создает новый MarketHandler
func NewMarketHandler(arena ArenaStore, ticker MarketTicker) *MarketHandler {
	return &MarketHandler{
		arena:  arena,
		ticker: ticker,
	}
}

// GetMarket возвращает текущие цены, высоту блока и задержку
// GET /api/v1/market
//
// Ответ:
//
//	{
//	  "prices": [{"symbol": "BTC", "price": 95234.5, "change_24h": 2.34}, ...],
//	  "block_height": 245678901,
//	  "latency_ms": 45
//	}
func (h *MarketHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.arena.MarketStatus())
}

// TickMarket выполняет один рыночный тик вне расписания
// POST /api/v1/market/tick
func (h *MarketHandler) TickMarket(w http.ResponseWriter, r *http.Request) {
	if h.ticker == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "simulator not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.ticker.MarketTick(r.Context()))
}
