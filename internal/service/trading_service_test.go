package service

import (
	"testing"

	"arena/internal/models"
	"arena/internal/store"
)

func TestTradingService_Summary(t *testing.T) {
	state := &MockTradingState{
		agents: []models.Agent{
			{ID: "agent-1", Pnl: 10, IsActive: true},
			{ID: "agent-2", Pnl: -4, IsActive: false},
		},
		connected: true,
	}

	summary := NewTradingService(state).Summary()
	if summary.TotalPnL != 6 || summary.ActiveAgents != 1 || summary.TotalAgents != 2 || !summary.Connected {
		t.Errorf("summary = %+v", summary)
	}
	if summary.SelectedAgentID != "" {
		t.Errorf("selected = %q, want empty", summary.SelectedAgentID)
	}

	state.selected = &state.agents[1]
	if got := NewTradingService(state).Summary().SelectedAgentID; got != "agent-2" {
		t.Errorf("selected = %q, want agent-2", got)
	}
}

func TestTradingService_WithStore(t *testing.T) {
	s := store.NewTradingStore([]models.Agent{{ID: "x", IsActive: true, Pnl: 1.5}})
	s.SetConnected(true)

	summary := NewTradingService(s).Summary()
	if summary.TotalPnL != 1.5 || summary.ActiveAgents != 1 || !summary.Connected {
		t.Errorf("summary = %+v", summary)
	}
}
