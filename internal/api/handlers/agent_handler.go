package handlers

import (
	"net/http"
	"strings"
	"time"

	"arena/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// AgentHandler обрабатывает запросы дашборда торговых агентов
type AgentHandler struct {
	trading TradingStore
	summary TradingServiceInterface
	now     func() time.Time
}

// NewAgentHandler создает новый AgentHandler
func NewAgentHandler(trading TradingStore, summary TradingServiceInterface) *AgentHandler {
	return &AgentHandler{
		trading: trading,
		summary: summary,
		now:     time.Now,
	}
}

// SelectAgentRequest - тело PUT /api/v1/agents/selection
type SelectAgentRequest struct {
	AgentID string `json:"agent_id"`
}

// SelectionResponse - текущий выбор на дашборде
type SelectionResponse struct {
	Selected bool          `json:"selected"`
	Agent    *models.Agent `json:"agent"`
}

// CreateActivityRequest - тело POST /api/v1/activities
type CreateActivityRequest struct {
	Type    models.ActivityType `json:"type"`
	Action  string              `json:"action"`
	Details string              `json:"details"`
	AgentID string              `json:"agent_id"`
}

// ConnectionRequest - тело PUT /api/v1/connection
type ConnectionRequest struct {
	Connected *bool `json:"connected"`
}

// ConnectionResponse - состояние подключения к торговому потоку
type ConnectionResponse struct {
	Connected bool `json:"connected"`
}

// ============ Агенты ============

// GetAgents возвращает всех агентов в порядке ростера
// GET /api/v1/agents
func (h *AgentHandler) GetAgents(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.trading.Agents())
}

// GetAgent возвращает агента по id
// GET /api/v1/agents/{id}
func (h *AgentHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}

	id := mux.Vars(r)["id"]
	agent, ok := h.trading.Agent(id)
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Agent not found", id)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// UpdateAgent частично обновляет агента
// PATCH /api/v1/agents/{id}
//
// Тело: любые поля агента, например {"is_active": false, "last_action": "HOLD"}
func (h *AgentHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}

	var update models.AgentUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if update.IsEmpty() {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Update must contain at least one field", "")
		return
	}

	id := mux.Vars(r)["id"]
	agent, ok := h.trading.UpdateAgent(id, update)
	if !ok {
		writeError(w, http.StatusNotFound, CodeNotFound, "Agent not found", id)
		return
	}
	writeJSON(w, http.StatusOK, agent)
}

// ============ Выбор агента ============

// GetSelection возвращает выбранного агента
// GET /api/v1/agents/selection
//
// Ответ: {"selected": false, "agent": null}
func (h *AgentHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}

	resp := SelectionResponse{}
	if agent, ok := h.trading.SelectedAgent(); ok {
		resp.Selected = true
		resp.Agent = &agent
	}
	writeJSON(w, http.StatusOK, resp)
}

// SelectAgent выбирает агента
// PUT /api/v1/agents/selection
func (h *AgentHandler) SelectAgent(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}

	var req SelectAgentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.AgentID) == "" {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "agent_id is required", "")
		return
	}
	if !h.trading.SetSelectedAgent(req.AgentID) {
		writeError(w, http.StatusNotFound, CodeNotFound, "Agent not found", req.AgentID)
		return
	}

	agent, _ := h.trading.SelectedAgent()
	writeJSON(w, http.StatusOK, SelectionResponse{Selected: true, Agent: &agent})
}

// ClearSelection снимает выбор агента
// DELETE /api/v1/agents/selection
func (h *AgentHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}
	h.trading.ClearSelectedAgent()
	w.WriteHeader(http.StatusNoContent)
}

// ============ Лента активности ============

// GetActivities возвращает ленту активности, новые записи первыми
// GET /api/v1/activities?limit=20
func (h *AgentHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid limit parameter", r.URL.Query().Get("limit"))
		return
	}

	activities := h.trading.Activities()
	if limit > 0 && limit < len(activities) {
		activities = activities[:limit]
	}
	writeJSON(w, http.StatusOK, activities)
}

// AddActivity добавляет запись в начало ленты
// POST /api/v1/activities
//
// Тело: {"type": "buy", "details": "...", "agent_id": "agent-1"}
func (h *AgentHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}

	var req CreateActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if !req.Type.IsValid() {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Unknown activity type", string(req.Type))
		return
	}

	action := req.Action
	if action == "" {
		action = strings.ToUpper(string(req.Type))
	}

	activity := models.Activity{
		ID:      uuid.NewString(),
		Time:    h.now(),
		Type:    req.Type,
		Action:  action,
		Details: req.Details,
		AgentID: req.AgentID,
	}
	h.trading.AddActivity(activity)
	writeJSON(w, http.StatusCreated, activity)
}

// ============ Подключение ============

// GetConnection возвращает состояние подключения
// GET /api/v1/connection
func (h *AgentHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, ConnectionResponse{Connected: h.trading.IsConnected()})
}

// SetConnection меняет состояние подключения
// PUT /api/v1/connection
func (h *AgentHandler) SetConnection(w http.ResponseWriter, r *http.Request) {
	if h.trading == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading store not initialized", "")
		return
	}

	var req ConnectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body", err.Error())
		return
	}
	if req.Connected == nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, "connected is required", "")
		return
	}

	h.trading.SetConnected(*req.Connected)
	writeJSON(w, http.StatusOK, ConnectionResponse{Connected: *req.Connected})
}

// ============ Сводка ============

// GetSummary возвращает агрегаты дашборда
// GET /api/v1/trading/summary
//
// Ответ:
//
//	{
//	  "total_pnl": 12345.67,
//	  "active_agents": 3,
//	  "total_agents": 4,
//	  "connected": true,
//	  "selected_agent_id": "agent-1"
//	}
func (h *AgentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if h.summary == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "trading service not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, h.summary.Summary())
}
