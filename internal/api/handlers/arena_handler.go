package handlers

import (
	"net/http"
	"strings"

	"arena/internal/models"
)

// ArenaHandler обрабатывает UI состояние арены:
// выбранную модель, период графика, кошелёк и сводку счёта
type ArenaHandler struct {
	arena ArenaStore
	svc   ArenaServiceInterface
}

// NewArenaHandler создает новый ArenaHandler
func NewArenaHandler(arena ArenaStore, svc ArenaServiceInterface) *ArenaHandler {
	return &ArenaHandler{
		arena: arena,
		svc:   svc,
	}
}

// ArenaStateResponse - UI состояние арены
type ArenaStateResponse struct {
	SelectedModelID *string          `json:"selected_model_id"`
	TimeRange       models.TimeRange `json:"time_range"`
	WalletConnected bool             `json:"wallet_connected"`
}

// SelectModelRequest - тело PUT /api/v1/arena/selection
type SelectModelRequest struct {
	ModelID string `json:"model_id"`
}

// TimeRangeRequest - тело PUT /api/v1/arena/time-range
type TimeRangeRequest struct {
	TimeRange string `json:"time_range"`
}

// WalletRequest - тело PUT /api/v1/arena/wallet
type WalletRequest struct {
	Connected *bool `json:"connected"`
}

// GetState возвращает UI состояние арены
// GET /api/v1/arena/state
//
// Ответ: {"selected_model_id": null, "time_range": "ALL", "wallet_connected": false}
func (h *ArenaHandler) GetState(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.state())
}

// SelectModel выбирает модель. Существование модели не проверяется.
// PUT /api/v1/arena/selection
func (h *ArenaHandler) SelectModel(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}

	var req SelectModelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.ModelID) == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "model_id is required", "")
		return
	}

	h.arena.SetSelectedModel(req.ModelID)
	writeJSON(w, http.StatusOK, h.state())
}

// ClearModelSelection снимает выбор модели
// DELETE /api/v1/arena/selection
func (h *ArenaHandler) ClearModelSelection(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}
	h.arena.ClearSelectedModel()
	w.WriteHeader(http.StatusNoContent)
}

// SetTimeRange меняет период графика
// PUT /api/v1/arena/time-range
//
// Тело: {"time_range": "72H"}; допустимо ALL, 72H, 7D, 24H
func (h *ArenaHandler) SetTimeRange(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}

	var req TimeRangeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	tr, err := models.ParseTimeRange(req.TimeRange)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid time range", err.Error())
		return
	}

	h.arena.SetTimeRange(tr)
	writeJSON(w, http.StatusOK, h.state())
}

// SetWallet подключает или отключает кошелёк
// PUT /api/v1/arena/wallet
func (h *ArenaHandler) SetWallet(w http.ResponseWriter, r *http.Request) {
	if h.arena == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena store not initialized", "")
		return
	}

	var req WalletRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if req.Connected == nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "connected is required", "")
		return
	}

	h.arena.SetWalletConnected(*req.Connected)
	writeJSON(w, http.StatusOK, h.state())
}

// GetSummary возвращает суммарную стоимость счетов и изменение за 24ч
// GET /api/v1/summary
func (h *ArenaHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "arena service not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Summary())
}

func (h *ArenaHandler) state() ArenaStateResponse {
	resp := ArenaStateResponse{
		TimeRange:       h.arena.TimeRange(),
		WalletConnected: h.arena.WalletConnected(),
	}
	if id, ok := h.arena.SelectedModelID(); ok {
		resp.SelectedModelID = &id
	}
	return resp
}
