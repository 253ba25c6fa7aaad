package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"arena/internal/models"
	"arena/internal/service"
	"arena/internal/store"
)

// ============ ArenaHandler Tests ============

func newTestArenaHandler() (*ArenaHandler, *store.ArenaStore) {
	arena := newTestArenaStore()
	return NewArenaHandler(arena, service.NewArenaService(arena)), arena
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) ArenaStateResponse {
	t.Helper()
	var resp ArenaStateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestArenaHandler_GetState(t *testing.T) {
	handler, _ := newTestArenaHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/arena/state", nil)
	w := httptest.NewRecorder()
	handler.GetState(w, req)

	if !strings.Contains(w.Body.String(), `"selected_model_id":null`) {
		t.Errorf("expected null selection in %s", w.Body.String())
	}
	state := decodeState(t, w)
	if state.TimeRange != models.TimeRangeAll || state.WalletConnected {
		t.Errorf("unexpected initial state: %+v", state)
	}
}

func TestArenaHandler_SelectModel(t *testing.T) {
	handler, arena := newTestArenaHandler()

	t.Run("select does not validate existence", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/arena/selection", strings.NewReader(`{"model_id": "unreleased"}`))
		w := httptest.NewRecorder()
		handler.SelectModel(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}
		state := decodeState(t, w)
		if state.SelectedModelID == nil || *state.SelectedModelID != "unreleased" {
			t.Errorf("expected selection 'unreleased', got %v", state.SelectedModelID)
		}
	})

	t.Run("missing model_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/arena/selection", strings.NewReader(`{"model_id": " "}`))
		w := httptest.NewRecorder()
		handler.SelectModel(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("clear", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/arena/selection", nil)
		w := httptest.NewRecorder()
		handler.ClearModelSelection(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
		}
		if _, ok := arena.SelectedModelID(); ok {
			t.Error("expected selection to be cleared")
		}
	})
}

func TestArenaHandler_SetTimeRange(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       models.TimeRange
	}{
		{"72 hours", `{"time_range": "72H"}`, http.StatusOK, models.TimeRange72H},
		{"lower case", `{"time_range": "7d"}`, http.StatusOK, models.TimeRange7D},
		{"unknown range", `{"time_range": "1Y"}`, http.StatusBadRequest, models.TimeRangeAll},
		{"invalid json", `time_range`, http.StatusBadRequest, models.TimeRangeAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, arena := newTestArenaHandler()

			req := httptest.NewRequest(http.MethodPut, "/api/v1/arena/time-range", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.SetTimeRange(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := arena.TimeRange(); got != tt.want {
				t.Errorf("expected time range %s, got %s", tt.want, got)
			}
		})
	}
}

func TestArenaHandler_SetWallet(t *testing.T) {
	handler, arena := newTestArenaHandler()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/arena/wallet", strings.NewReader(`{"connected": true}`))
	w := httptest.NewRecorder()
	handler.SetWallet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !arena.WalletConnected() {
		t.Error("expected wallet connected")
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/arena/wallet", strings.NewReader(`{"connected": null}`))
	w = httptest.NewRecorder()
	handler.SetWallet(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if !arena.WalletConnected() {
		t.Error("rejected request must not change wallet state")
	}
}

func TestArenaHandler_GetSummary(t *testing.T) {
	handler, _ := newTestArenaHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	w := httptest.NewRecorder()
	handler.GetSummary(w, req)

	var summary service.AccountSummary
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.TotalAccountValue != 33000 {
		t.Errorf("expected total 33000, got %f", summary.TotalAccountValue)
	}
	if summary.Total24hChange != store.DefaultTotal24hChange {
		t.Errorf("expected default 24h change, got %f", summary.Total24hChange)
	}
	if summary.FormattedValue != "$33,000.00" {
		t.Errorf("unexpected formatted value %q", summary.FormattedValue)
	}
}
