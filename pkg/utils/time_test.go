package utils

import (
	"testing"
	"time"
)

func TestFormatHoldingTime(t *testing.T) {
	ms := func(v int64) *int64 { return &v }

	tests := []struct {
		name     string
		input    *int64
		expected string
	}{
		{"nil", nil, HoldingTimePlaceholder},
		{"zero", ms(0), HoldingTimePlaceholder},
		{"two hours fifteen", ms(8_100_000), "2h 15m"},
		{"under an hour", ms(1_800_000), "0h 30m"},
		{"seconds are truncated", ms(3_659_999), "1h 0m"},
		{"long hold", ms(int64(26*time.Hour/time.Millisecond) + 60_000), "26h 1m"},
		{"negative is absolute", ms(-5_400_000), "1h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatHoldingTime(tt.input); got != tt.expected {
				t.Errorf("FormatHoldingTime() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		ago      time.Duration
		expected string
	}{
		{"just now", 10 * time.Second, "less than a minute ago"},
		{"one minute", time.Minute, "1 minute ago"},
		{"minutes", 12 * time.Minute, "12 minutes ago"},
		{"about an hour", 50 * time.Minute, "about 1 hour ago"},
		{"hours", 5 * time.Hour, "about 5 hours ago"},
		{"one day", 30 * time.Hour, "1 day ago"},
		{"days", 72 * time.Hour, "3 days ago"},
		{"about a month", 35 * 24 * time.Hour, "about 1 month ago"},
		{"months", 90 * 24 * time.Hour, "3 months ago"},
		{"future", -3 * time.Minute, "in 3 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeAgo(now.Add(-tt.ago), now); got != tt.expected {
				t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tt.ago, got, tt.expected)
			}
		})
	}
}

func TestFormatTimeAgo_Boundaries(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago      time.Duration
		expected string
	}{
		{29 * time.Second, "less than a minute ago"},
		{30 * time.Second, "1 minute ago"},
		{44 * time.Minute, "44 minutes ago"},
		{44*time.Minute + 29*time.Second, "44 minutes ago"},
		{44*time.Minute + 30*time.Second, "about 1 hour ago"},
		{45 * time.Minute, "about 1 hour ago"},
		{89 * time.Minute, "about 1 hour ago"},
		{90 * time.Minute, "about 2 hours ago"},
		{24*time.Hour - time.Minute, "about 24 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{42*time.Hour - time.Minute, "1 day ago"},
		{42 * time.Hour, "2 days ago"},
		{45 * 24 * time.Hour, "2 months ago"},
	}

	for _, tt := range tests {
		if got := FormatTimeAgo(now.Add(-tt.ago), now); got != tt.expected {
			t.Errorf("FormatTimeAgo(-%v) = %q, want %q", tt.ago, got, tt.expected)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "Jan 2, 03:04 PM" {
		t.Errorf("FormatTimestamp() = %q", got)
	}
}
