package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"arena/internal/service"
)

// DepositHandler обрабатывает запросы страницы депозита
type DepositHandler struct {
	svc DepositServiceInterface
}

// NewDepositHandler создает новый DepositHandler
func NewDepositHandler(svc DepositServiceInterface) *DepositHandler {
	return &DepositHandler{svc: svc}
}

// CreateDepositRequest - тело POST /api/v1/deposit.
// amount принимается и строкой, и числом.
type CreateDepositRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Duration string          `json:"duration"`
}

// amountString приводит amount к строке.
// null или отсутствующее поле дают пустую строку.
func (r CreateDepositRequest) amountString() (string, error) {
	raw := strings.TrimSpace(string(r.Amount))
	if raw == "" || raw == "null" {
		return "", nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(r.Amount, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(r.Amount, &n); err != nil {
		return "", fmt.Errorf("amount must be a string or a number")
	}
	return n.String(), nil
}

// GetProjection возвращает прогноз доходности
// GET /api/v1/deposit/projection?amount=1000&duration=30d
//
// Ответ:
//
//	{
//	  "amount": 1000,
//	  "duration": "30d",
//	  "multiplier": 1.2,
//	  "avg_return": 24.69,
//	  "projected_return": 246.9,
//	  "apy": 296.28
//	}
func (h *DepositHandler) GetProjection(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "deposit service not initialized", "")
		return
	}

	q := r.URL.Query()
	projection, err := h.svc.Projection(q.Get("amount"), q.Get("duration"))
	if err != nil {
		h.writeDepositError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

// GetPool возвращает статистику пула и превью моделей
// GET /api/v1/deposit/pool
func (h *DepositHandler) GetPool(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "deposit service not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.PoolStats())
}

// CreateDeposit проверяет и подтверждает депозит
// POST /api/v1/deposit
//
// Тело: {"amount": "1000", "duration": "30d"}
//
// Ошибки:
//   - 409 WALLET_NOT_CONNECTED - кошелёк не подключен (проверяется первым)
//   - 400 INVALID_AMOUNT - сумма не число или не больше нуля.
//     Разбор строгий: вся строка после обрезки пробелов должна быть
//     десятичным числом, поэтому "50abc" и "50 USD" отклоняются
//   - 400 INVALID_REQUEST - неизвестный срок
func (h *DepositHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "deposit service not initialized", "")
		return
	}

	var req CreateDepositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	amount, err := req.amountString()
	if err != nil {
		// Нечисловая сумма проверяется сервисом после кошелька
		amount = ""
	}

	receipt, err := h.svc.Deposit(service.DepositRequest{Amount: amount, Duration: req.Duration})
	if err != nil {
		h.writeDepositError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, SuccessResponse{Message: receipt.Message, Data: receipt})
}

func (h *DepositHandler) writeDepositError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWalletNotConnected):
		writeError(w, http.StatusConflict, CodeWalletDisconnected, err.Error(), "")
	case errors.Is(err, service.ErrInvalidDepositAmount):
		writeError(w, http.StatusBadRequest, CodeInvalidAmount, err.Error(), "")
	case errors.Is(err, service.ErrUnknownDuration):
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid duration", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, CodeInternal, "Deposit failed", err.Error())
	}
}
