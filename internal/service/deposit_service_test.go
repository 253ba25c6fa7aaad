package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"arena/internal/models"
	"arena/internal/store"
	"arena/pkg/utils"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newDepositArena() *MockArenaState {
	return NewMockArenaState(
		models.AIModel{ID: "a", Name: "A", ReturnPercentage: 10, AccountValue: 1000, IsActivelyTrading: true},
		models.AIModel{ID: "b", Name: "B", ReturnPercentage: 20, AccountValue: 2000, IsActivelyTrading: false},
		models.AIModel{ID: "c", Name: "C", ReturnPercentage: 30, AccountValue: 3000, IsActivelyTrading: true},
		models.AIModel{ID: "d", Name: "D", ReturnPercentage: 40, AccountValue: 4000, IsActivelyTrading: true},
	)
}

func TestDepositService_Deposit(t *testing.T) {
	tests := []struct {
		name    string
		wallet  bool
		req     DepositRequest
		wantErr error
	}{
		{
			name:    "wallet disconnected wins over invalid amount",
			wallet:  false,
			req:     DepositRequest{Amount: "0"},
			wantErr: ErrWalletNotConnected,
		},
		{
			name:    "wallet disconnected with valid amount",
			wallet:  false,
			req:     DepositRequest{Amount: "1000"},
			wantErr: ErrWalletNotConnected,
		},
		{
			name:    "zero amount",
			wallet:  true,
			req:     DepositRequest{Amount: "0"},
			wantErr: ErrInvalidDepositAmount,
		},
		{
			name:    "negative amount",
			wallet:  true,
			req:     DepositRequest{Amount: "-5"},
			wantErr: ErrInvalidDepositAmount,
		},
		{
			name:    "empty amount",
			wallet:  true,
			req:     DepositRequest{Amount: ""},
			wantErr: ErrInvalidDepositAmount,
		},
		{
			name:    "not a number",
			wallet:  true,
			req:     DepositRequest{Amount: "abc"},
			wantErr: ErrInvalidDepositAmount,
		},
		{
			name:    "trailing garbage",
			wallet:  true,
			req:     DepositRequest{Amount: "50abc"},
			wantErr: ErrInvalidDepositAmount,
		},
		{
			name:    "amount with currency",
			wallet:  true,
			req:     DepositRequest{Amount: "50 USD"},
			wantErr: ErrInvalidDepositAmount,
		},
		{
			name:    "unknown duration",
			wallet:  true,
			req:     DepositRequest{Amount: "100", Duration: "2y"},
			wantErr: ErrUnknownDuration,
		},
		{
			name:   "valid with default duration",
			wallet: true,
			req:    DepositRequest{Amount: "1000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena := newDepositArena()
			arena.wallet = tt.wallet
			svc := NewDepositService(arena, utils.NewNop())

			receipt, err := svc.Deposit(tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if receipt != nil {
					t.Error("receipt should be nil on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if receipt.Duration != DefaultDepositDuration {
				t.Errorf("duration = %s, want %s", receipt.Duration, DefaultDepositDuration)
			}
		})
	}
}

func TestDepositService_DepositReceipt(t *testing.T) {
	arena := newDepositArena()
	arena.wallet = true
	svc := NewDepositService(arena, utils.NewNop())
	fixed := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	receipt, err := svc.Deposit(DepositRequest{Amount: "1234.5", Duration: "90d"})
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	if receipt.Message != "Deposit of $1,234.50 initiated for 90d!" {
		t.Errorf("message = %q", receipt.Message)
	}
	if receipt.ID == "" {
		t.Error("receipt id is empty")
	}
	if !approxEqual(receipt.ProjectedReturn, 308.625) {
		t.Errorf("projected return = %v, want 308.625", receipt.ProjectedReturn)
	}
	if !receipt.CreatedAt.Equal(fixed) {
		t.Errorf("created at = %v", receipt.CreatedAt)
	}
}

func TestDepositService_DepositDoesNotMutateStore(t *testing.T) {
	arena := store.NewArenaStore(store.ArenaSeed{
		Models: []models.AIModel{{ID: "m", ReturnPercentage: 5, AccountValue: 100}},
	})
	arena.SetWalletConnected(true)
	svc := NewDepositService(arena, utils.NewNop())

	before := arena.Models()
	if _, err := svc.Deposit(DepositRequest{Amount: "500", Duration: "7d"}); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	after := arena.Models()

	if len(before) != len(after) || before[0] != after[0] {
		t.Error("deposit changed arena models")
	}
	if !arena.WalletConnected() || arena.TotalAccountValue() != 100 {
		t.Error("deposit changed arena state")
	}
}

func TestDepositService_Projection(t *testing.T) {
	svc := NewDepositService(newDepositArena(), utils.NewNop())

	tests := []struct {
		name           string
		amount         string
		duration       string
		wantProjected  float64
		wantMultiplier float64
	}{
		{"1000 for 30d", "1000", "30d", 250, 1.2},
		{"1000 for 1y", "1000", "1y", 250, 2},
		{"invalid amount is zero", "oops", "7d", 0, 1},
		{"negative amount is zero", "-10", "90d", 0, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Projection(tt.amount, tt.duration)
			if err != nil {
				t.Fatalf("Projection: %v", err)
			}
			if !approxEqual(p.AvgReturn, 25) {
				t.Errorf("avg return = %v, want 25", p.AvgReturn)
			}
			if !approxEqual(p.APY, 300) {
				t.Errorf("APY = %v, want 300", p.APY)
			}
			if !approxEqual(p.ProjectedReturn, tt.wantProjected) {
				t.Errorf("projected = %v, want %v", p.ProjectedReturn, tt.wantProjected)
			}
			if p.Multiplier != tt.wantMultiplier {
				t.Errorf("multiplier = %v, want %v", p.Multiplier, tt.wantMultiplier)
			}
		})
	}

	if _, err := svc.Projection("100", "forever"); !errors.Is(err, ErrUnknownDuration) {
		t.Errorf("err = %v, want ErrUnknownDuration", err)
	}
}

func TestDepositService_ProjectionNoModels(t *testing.T) {
	svc := NewDepositService(NewMockArenaState(), utils.NewNop())

	p, err := svc.Projection("1000", "")
	if err != nil {
		t.Fatalf("Projection: %v", err)
	}
	if p.AvgReturn != 0 || p.ProjectedReturn != 0 || p.APY != 0 {
		t.Errorf("projection without models = %+v, want zeros", p)
	}
}

func TestDepositService_PoolStats(t *testing.T) {
	svc := NewDepositService(newDepositArena(), utils.NewNop())

	stats := svc.PoolStats()
	if stats.TotalPoolValue != 10000 {
		t.Errorf("total pool value = %v, want 10000", stats.TotalPoolValue)
	}
	if stats.ActiveModels != 3 || stats.TotalModels != 4 {
		t.Errorf("active = %d/%d, want 3/4", stats.ActiveModels, stats.TotalModels)
	}
	if len(stats.TopModels) != 3 || stats.TopModels[0].ID != "a" {
		t.Errorf("top models = %+v", stats.TopModels)
	}
	if len(stats.Durations) != len(DurationOptions) {
		t.Errorf("durations = %+v", stats.Durations)
	}
}

func TestParseDepositDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    DepositDuration
		wantErr bool
	}{
		{"", Duration30D, false},
		{"7d", Duration7D, false},
		{" 1Y ", Duration1Y, false},
		{"14d", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDepositDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDepositDuration(%q) err = %v", tt.in, err)
			continue
		}
		if got.Value != tt.want {
			t.Errorf("ParseDepositDuration(%q) = %s, want %s", tt.in, got.Value, tt.want)
		}
	}
}
