package store

import (
	"testing"

	"arena/internal/metrics"
	"arena/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fixedRand возвращает значения по кругу
type fixedRand struct {
	values []float64
	i      int
}

func (r *fixedRand) Float64() float64 {
	v := r.values[r.i%len(r.values)]
	r.i++
	return v
}

func newTestArena() *ArenaStore {
	return NewArenaStore(ArenaSeed{
		Models: []models.AIModel{
			{ID: "gpt5", Name: "GPT-5", Color: "#10A37F", AccountValue: 100, ReturnPercentage: 10},
			{ID: "sonnet", Name: "Claude Sonnet", Color: "#D97706", AccountValue: 200, ReturnPercentage: 30},
		},
		Trades: []models.Trade{
			{ID: "trade-1", ModelID: "gpt5"},
			{ID: "trade-2", ModelID: "sonnet"},
			{ID: "trade-3", ModelID: "gpt5"},
		},
		Positions: []models.Position{
			{ID: "pos-1", ModelID: "gpt5"},
		},
		MarketPrices: []models.MarketPrice{
			{Symbol: "BTC", Price: 43720},
			{Symbol: "ETH", Price: 2315.5},
		},
	})
}

func TestArenaStore_Defaults(t *testing.T) {
	s := newTestArena()

	status := s.MarketStatus()
	if status.BlockHeight != InitialBlockHeight {
		t.Errorf("BlockHeight = %d, want %d", status.BlockHeight, InitialBlockHeight)
	}
	if status.LatencyMs != InitialLatencyMs {
		t.Errorf("LatencyMs = %d, want %d", status.LatencyMs, InitialLatencyMs)
	}
	if s.TimeRange() != models.TimeRangeAll {
		t.Errorf("TimeRange() = %s, want ALL", s.TimeRange())
	}
	if s.WalletConnected() {
		t.Error("wallet should start disconnected")
	}
	if _, ok := s.SelectedModelID(); ok {
		t.Error("no model should be selected initially")
	}
	if s.Total24hChange() != DefaultTotal24hChange {
		t.Errorf("Total24hChange() = %v", s.Total24hChange())
	}
	if s.TotalAccountValue() != 300 {
		t.Errorf("TotalAccountValue() = %v, want 300", s.TotalAccountValue())
	}

	// Лидерборд рассчитан при создании
	board := s.Leaderboard()
	if len(board) != 2 || board[0].ID != "sonnet" {
		t.Errorf("initial leaderboard = %+v", board)
	}
}

func TestRankModels(t *testing.T) {
	tests := []struct {
		name      string
		models    []models.AIModel
		wantOrder []string
	}{
		{
			name: "descending by return",
			models: []models.AIModel{
				{ID: "A", ReturnPercentage: 5},
				{ID: "B", ReturnPercentage: 10},
				{ID: "C", ReturnPercentage: -2},
			},
			wantOrder: []string{"B", "A", "C"},
		},
		{
			name: "ties keep input order",
			models: []models.AIModel{
				{ID: "X", ReturnPercentage: 7},
				{ID: "Y", ReturnPercentage: 7},
				{ID: "Z", ReturnPercentage: 9},
			},
			wantOrder: []string{"Z", "X", "Y"},
		},
		{
			name:      "empty",
			models:    nil,
			wantOrder: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := rankModels(tt.models)
			if len(board) != len(tt.wantOrder) {
				t.Fatalf("len = %d, want %d", len(board), len(tt.wantOrder))
			}
			for i, id := range tt.wantOrder {
				if board[i].ID != id {
					t.Errorf("position %d = %s, want %s", i, board[i].ID, id)
				}
				if board[i].Rank != i+1 {
					t.Errorf("rank of %s = %d, want %d", id, board[i].Rank, i+1)
				}
				if board[i].RankChange != 0 {
					t.Errorf("rankChange of %s = %d, want 0", id, board[i].RankChange)
				}
			}
		})
	}
}

func TestArenaStore_CalculateLeaderboardIdempotent(t *testing.T) {
	s := newTestArena()

	first := s.CalculateLeaderboard()
	second := s.CalculateLeaderboard()
	if len(first) != len(second) {
		t.Fatal("leaderboard length changed")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestArenaStore_ReplaceModels(t *testing.T) {
	s := newTestArena()

	var got []EventType
	s.Subscribe(func(e Event) { got = append(got, e.Type) })

	s.ReplaceModels([]models.AIModel{
		{ID: "gpt5", ReturnPercentage: 50},
		{ID: "sonnet", ReturnPercentage: 30},
	})

	board := s.Leaderboard()
	if board[0].ID != "gpt5" || board[0].Rank != 1 {
		t.Errorf("leaderboard not recomputed: %+v", board)
	}
	if len(got) != 2 || got[0] != EventModels || got[1] != EventLeaderboard {
		t.Errorf("events = %v", got)
	}
}

func TestArenaStore_UpdateMarketPrices(t *testing.T) {
	s := newTestArena()

	// u=1 дает максимальный рост, u=0 - максимальное падение
	status := s.UpdateMarketPrices(&fixedRand{values: []float64{0.999999, 0, 0}})

	if status.BlockHeight != InitialBlockHeight+1 {
		t.Errorf("BlockHeight = %d, want %d", status.BlockHeight, InitialBlockHeight+1)
	}
	if status.LatencyMs != 35 {
		t.Errorf("LatencyMs = %d, want 35", status.LatencyMs)
	}

	btc := status.Prices[0].Price
	if btc <= 43720 || btc > 43720*1.0005 {
		t.Errorf("BTC price = %v, want within (43720, 43720*1.0005]", btc)
	}
	eth := status.Prices[1].Price
	if eth >= 2315.5 || eth < 2315.5*0.9994 {
		t.Errorf("ETH price = %v, want slightly below 2315.5", eth)
	}

	if s.MarketStatus().BlockHeight != status.BlockHeight {
		t.Error("MarketStatus() does not reflect the tick")
	}
}

func TestArenaStore_MarketTickBounds(t *testing.T) {
	s := newTestArena()
	rng := &fixedRand{values: []float64{0.1, 0.93, 0.5, 0.27, 0.71, 0.02}}

	prev := s.MarketStatus()
	for i := 0; i < 500; i++ {
		next := s.UpdateMarketPrices(rng)

		if next.BlockHeight != prev.BlockHeight+1 {
			t.Fatalf("tick %d: block height %d -> %d", i, prev.BlockHeight, next.BlockHeight)
		}
		if next.LatencyMs < 35 || next.LatencyMs > 64 {
			t.Fatalf("tick %d: latency %d out of [35, 64]", i, next.LatencyMs)
		}
		for j, p := range next.Prices {
			if p.Price <= 0 {
				t.Fatalf("tick %d: %s price %v not positive", i, p.Symbol, p.Price)
			}
			ratio := p.Price / prev.Prices[j].Price
			if ratio < 0.9995 || ratio > 1.0005 {
				t.Fatalf("tick %d: %s ratio %v out of bounds", i, p.Symbol, ratio)
			}
		}
		prev = next
	}
}

func TestArenaStore_Lookups(t *testing.T) {
	s := newTestArena()

	trades := s.ModelTrades("gpt5")
	if len(trades) != 2 || trades[0].ID != "trade-1" || trades[1].ID != "trade-3" {
		t.Errorf("ModelTrades(gpt5) = %+v", trades)
	}
	if got := s.ModelPositions("gpt5"); len(got) != 1 {
		t.Errorf("ModelPositions(gpt5) = %+v", got)
	}

	// Неизвестная модель: пустой, но не nil результат
	if got := s.ModelTrades("nonexistent"); got == nil || len(got) != 0 {
		t.Errorf("ModelTrades(nonexistent) = %#v, want empty slice", got)
	}
	if got := s.ModelPositions("nonexistent"); got == nil || len(got) != 0 {
		t.Errorf("ModelPositions(nonexistent) = %#v, want empty slice", got)
	}
	if _, ok := s.Model("nonexistent"); ok {
		t.Error("Model(nonexistent) should not be found")
	}
}

func TestArenaStore_ModelDisplay(t *testing.T) {
	s := newTestArena()

	tests := []struct {
		id        string
		wantName  string
		wantColor string
		wantFound bool
	}{
		{"gpt5", "GPT-5", "#10A37F", true},
		{"unknown-model", "unknown-model", DefaultModelColor, false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			info := s.ModelDisplay(tt.id)
			if info.Name != tt.wantName || info.Color != tt.wantColor || info.Found != tt.wantFound {
				t.Errorf("ModelDisplay(%s) = %+v", tt.id, info)
			}
		})
	}
}

func TestArenaStore_UIState(t *testing.T) {
	s := newTestArena()

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	s.SetSelectedModel("sonnet")
	if id, ok := s.SelectedModelID(); !ok || id != "sonnet" {
		t.Errorf("SelectedModelID() = %q, %v", id, ok)
	}
	s.ClearSelectedModel()
	if _, ok := s.SelectedModelID(); ok {
		t.Error("selection not cleared")
	}

	s.SetTimeRange(models.TimeRange24H)
	if s.TimeRange() != models.TimeRange24H {
		t.Errorf("TimeRange() = %s", s.TimeRange())
	}
	// Период не влияет на данные
	if len(s.Trades()) != 3 {
		t.Error("time range must not filter trades")
	}

	s.SetWalletConnected(true)
	if !s.WalletConnected() {
		t.Error("wallet not connected")
	}

	want := []EventType{EventModelSelected, EventModelSelected, EventTimeRange, EventWallet}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i := range want {
		if events[i].Type != want[i] {
			t.Errorf("event[%d] = %s, want %s", i, events[i].Type, want[i])
		}
	}
	if events[3].Payload != true {
		t.Errorf("wallet payload = %v", events[3].Payload)
	}
}

func TestArenaStore_Total24hOverride(t *testing.T) {
	change := -1.5
	s := NewArenaStore(ArenaSeed{Total24hChange: &change, BlockHeight: 10, LatencyMs: 50})

	if s.Total24hChange() != -1.5 {
		t.Errorf("Total24hChange() = %v", s.Total24hChange())
	}
	if st := s.MarketStatus(); st.BlockHeight != 10 || st.LatencyMs != 50 {
		t.Errorf("MarketStatus() = %+v", st)
	}
	if got := s.Leaderboard(); got == nil || len(got) != 0 {
		t.Errorf("Leaderboard() = %#v, want empty", got)
	}
}

func TestArenaStore_Metrics(t *testing.T) {
	s := NewArenaStore(ArenaSeed{Models: []models.AIModel{{ID: "gpt5", ReturnPercentage: 1}}})

	before := testutil.ToFloat64(metrics.LeaderboardRecalculations)
	s.CalculateLeaderboard()
	s.ReplaceModels([]models.AIModel{{ID: "sonnet", ReturnPercentage: 2}})
	if got := testutil.ToFloat64(metrics.LeaderboardRecalculations); got != before+2 {
		t.Errorf("LeaderboardRecalculations = %v, want %v", got, before+2)
	}

	s.SetWalletConnected(true)
	if got := testutil.ToFloat64(metrics.WalletStatus); got != 1 {
		t.Errorf("WalletStatus = %v, want 1", got)
	}
	s.SetWalletConnected(false)
	if got := testutil.ToFloat64(metrics.WalletStatus); got != 0 {
		t.Errorf("WalletStatus = %v, want 0", got)
	}
}
