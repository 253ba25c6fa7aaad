package handlers

import (
	"net/http"
)

// SimulationHandler управляет симуляцией живого дашборда
type SimulationHandler struct {
	sim SimulationController
}

// NewSimulationHandler создает новый SimulationHandler
func NewSimulationHandler(sim SimulationController) *SimulationHandler {
	return &SimulationHandler{sim: sim}
}

// SimulationStatus - состояние симуляции
type SimulationStatus struct {
	Running bool `json:"running"`
}

// GetStatus возвращает состояние симуляции
// GET /api/v1/simulation
func (h *SimulationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if h.sim == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "simulator not initialized", "")
		return
	}
	writeJSON(w, http.StatusOK, SimulationStatus{Running: h.sim.Running()})
}

// Start запускает таймеры. Повторный запуск ничего не меняет.
// POST /api/v1/simulation/start
func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.sim == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "simulator not initialized", "")
		return
	}
	h.sim.Start()
	writeJSON(w, http.StatusOK, SimulationStatus{Running: h.sim.Running()})
}

// Stop останавливает таймеры; состояние хранилищ сохраняется
// POST /api/v1/simulation/stop
func (h *SimulationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if h.sim == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "simulator not initialized", "")
		return
	}
	h.sim.Stop()
	writeJSON(w, http.StatusOK, SimulationStatus{Running: h.sim.Running()})
}

// GenerateActivity добавляет синтетическую запись в ленту
// POST /api/v1/activities/random
func (h *SimulationHandler) GenerateActivity(w http.ResponseWriter, r *http.Request) {
	if h.sim == nil {
		writeError(w, http.StatusInternalServerError, CodeInternal, "simulator not initialized", "")
		return
	}
	writeJSON(w, http.StatusCreated, h.sim.GenerateActivity(r.Context()))
}
