package handlers

import (
	"errors"
	"net/http"

	"arena/internal/service"

	"github.com/gorilla/mux"
)

// ModelHandler обрабатывает запросы по AI моделям арены:
// список моделей, рейтинг, ленту сделок, позиции и кривую капитала
type ModelHandler struct {
	arena ArenaStore
	svc   ArenaServiceInterface
}

// NewModelHandler создает новый ModelHandler
func NewModelHandler(arena ArenaStore, svc ArenaServiceInterface) *ModelHandler {
	return &ModelHandler{
		arena: arena,
		svc:   svc,
	}
}

// GetModels возвращает все модели в порядке ростера
// GET /api/v1/models
func (h *ModelHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.arena.Models())
}

// GetModel возвращает страницу модели: саму модель, место, сделки и позиции
// GET /api/v1/models/{id}
func (h *ModelHandler) GetModel(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena service not initialized", "")
		return
	}

	id := mux.Vars(r)["id"]
	detail, ok := h.svc.ModelDetail(id)
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Model not found", id)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetModelTrades возвращает сделки модели.
// Для неизвестной модели - пустой массив.
// GET /api/v1/models/{id}/trades
func (h *ModelHandler) GetModelTrades(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.arena.ModelTrades(mux.Vars(r)["id"]))
}

// GetModelPositions возвращает открытые позиции модели
// GET /api/v1/models/{id}/positions
func (h *ModelHandler) GetModelPositions(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.arena.ModelPositions(mux.Vars(r)["id"]))
}

// GetLeaderboard возвращает рейтинг с опциональной сортировкой таблицы
// GET /api/v1/leaderboard?sort=winRate&order=desc
//
// sort: rank (по умолчанию), returnPercentage, totalPnL, winRate, sharpeRatio, totalTrades
// order: asc (по умолчанию), desc
func (h *ModelHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena service not initialized", "")
		return
	}

	key, err := service.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid sort parameter", err.Error())
		return
	}
	order, err := service.ParseSortOrder(r.URL.Query().Get("order"))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid order parameter", err.Error())
		return
	}

	board, err := h.svc.SortedLeaderboard(key, order)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrUnknownSortKey) || errors.Is(err, service.ErrUnknownSortOrder) {
			status = http.StatusBadRequest
		}
		writeError(w, status, CodeInvalidRequest, "Failed to sort leaderboard", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// RecalculateLeaderboard пересчитывает рейтинг по текущим моделям
// POST /api/v1/leaderboard/recalculate
func (h *ModelHandler) RecalculateLeaderboard(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.arena.CalculateLeaderboard())
}

// GetTrades возвращает ленту последних сделок с именем и цветом модели
// GET /api/v1/trades?limit=20
func (h *ModelHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena service not initialized", "")
		return
	}

	limit, err := queryInt(r, "limit", service.DefaultFeedLimit)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid limit parameter", r.URL.Query().Get("limit"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.TradesFeed(limit))
}

// GetPositions возвращает все открытые позиции
// GET /api/v1/positions
func (h *ModelHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.arena.Positions())
}

// GetEquity возвращает кривую капитала
// GET /api/v1/equity
//
// Ответ: [{"timestamp": "2024-01-01T00:00:00Z", "values": {"gpt-5": 10000}, "bitcoin": 10000}, ...]
func (h *ModelHandler) GetEquity(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.arena.EquityCurve())
}
