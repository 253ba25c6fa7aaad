package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observed возвращает логгер, пишущий в память, и его хранилище записей
func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

// resetGlobal восстанавливает глобальный логгер после теста
func resetGlobal(t *testing.T) {
	t.Helper()
	globalMu.RLock()
	prev := globalLogger
	globalMu.RUnlock()
	t.Cleanup(func() { SetGlobalLogger(prev) })
}

// ============ InitLogger ============

func TestInitLogger_Configs(t *testing.T) {
	tests := []struct {
		name string
		cfg  LogConfig
	}{
		{"defaults", LogConfig{}},
		{"json", LogConfig{Level: "info", Format: "json"}},
		{"text", LogConfig{Level: "debug", Format: "TEXT"}},
		{"development", LogConfig{Level: "debug", Format: "text", Development: true}},
		{"stdout", LogConfig{Output: "stdout"}},
		{"unwritable file falls back to stderr", LogConfig{Output: "/nonexistent/dir/arena.log"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := InitLogger(tt.cfg)
			if logger == nil || logger.Logger == nil || logger.Sugar() == nil {
				t.Fatalf("InitLogger(%+v) returned incomplete logger", tt.cfg)
			}
		})
	}
}

func TestInitLogger_FileOutputIsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")

	logger := InitLogger(LogConfig{Level: "info", Format: "json", Output: path})
	logger.Info("tick applied", BlockHeight(245678902), Latency(41))
	logger.Debug("below level")
	logger.Sync()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one entry, got %d: %s", len(lines), content)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if entry["msg"] != "tick applied" || entry["block_height"] != float64(245678902) {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Error("expected ts key in production encoder")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"Warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

// ============ Глобальный логгер ============

func TestGlobalLogger_LazyDefault(t *testing.T) {
	resetGlobal(t)
	SetGlobalLogger(nil)

	first := GetGlobalLogger()
	if first == nil {
		t.Fatal("GetGlobalLogger returned nil")
	}
	if GetGlobalLogger() != first || L() != first {
		t.Error("global logger should be created once and reused")
	}
}

func TestInitGlobalLogger(t *testing.T) {
	resetGlobal(t)

	logger := InitGlobalLogger(LogConfig{Level: "debug", Format: "text"})
	if L() != logger {
		t.Error("InitGlobalLogger should install the new logger")
	}
}

func TestOrGlobal(t *testing.T) {
	resetGlobal(t)

	nop := NewNop()
	if OrGlobal(nop) != nop {
		t.Error("OrGlobal should return the given logger")
	}

	SetGlobalLogger(nop)
	if OrGlobal(nil) != nop {
		t.Error("OrGlobal(nil) should return the global logger")
	}
}

func TestGlobalFunctions(t *testing.T) {
	resetGlobal(t)
	logger, logs := observed(zapcore.DebugLevel)
	SetGlobalLogger(logger)

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	Debugf("debugf %d", 1)
	Infof("infof %s", "two")
	Warnf("warnf %v", true)
	Errorf("errorf %.1f", 4.0)

	want := []struct {
		level zapcore.Level
		msg   string
	}{
		{zapcore.DebugLevel, "debug message"},
		{zapcore.InfoLevel, "info message"},
		{zapcore.WarnLevel, "warn message"},
		{zapcore.ErrorLevel, "error message"},
		{zapcore.DebugLevel, "debugf 1"},
		{zapcore.InfoLevel, "infof two"},
		{zapcore.WarnLevel, "warnf true"},
		{zapcore.ErrorLevel, "errorf 4.0"},
	}

	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Level != w.level || entries[i].Message != w.msg {
			t.Errorf("entry %d = %v %q, want %v %q", i, entries[i].Level, entries[i].Message, w.level, w.msg)
		}
	}
}

// ============ With* и конструкторы полей ============

func TestLogger_WithHelpers(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)

	logger.WithComponent("simulator").WithModel("gpt5").WithAgent("agent-1").WithSymbol("BTC").Info("scoped")

	ctx := logs.All()[0].ContextMap()
	want := map[string]string{
		"component": "simulator",
		"model_id":  "gpt5",
		"agent_id":  "agent-1",
		"symbol":    "BTC",
	}
	for key, value := range want {
		if ctx[key] != value {
			t.Errorf("%s = %v, want %q", key, ctx[key], value)
		}
	}

	child := logger.With(String("k", "v"))
	if child == logger {
		t.Error("With should return a new logger")
	}
}

func TestFieldConstructors(t *testing.T) {
	logger, logs := observed(zapcore.InfoLevel)

	logger.Info("fields",
		Price(43720.5),
		PNL(100.25),
		Side("LONG"),
		Latency(45),
		BlockHeight(245678901),
		RequestID("req-789"),
		TimeRange("72H"),
		ActivityType("buy"),
		Amount(50),
		Connected(true),
		Int("count", 3),
		Int64("height", 7),
		Float64("ratio", 0.5),
		Bool("ok", false),
		Any("tags", []string{"a"}),
		Err(os.ErrNotExist),
	)

	ctx := logs.All()[0].ContextMap()
	want := map[string]interface{}{
		"price":         43720.5,
		"pnl":           100.25,
		"side":          "LONG",
		"latency_ms":    float64(45),
		"block_height":  int64(245678901),
		"request_id":    "req-789",
		"time_range":    "72H",
		"activity_type": "buy",
		"amount":        float64(50),
		"connected":     true,
		"count":         int64(3),
		"height":        int64(7),
		"ratio":         0.5,
		"ok":            false,
		"error":         os.ErrNotExist.Error(),
	}
	for key, value := range want {
		if ctx[key] != value {
			t.Errorf("%s = %#v, want %#v", key, ctx[key], value)
		}
	}
	if _, ok := ctx["tags"]; !ok {
		t.Error("expected tags field")
	}
}

// ============ Бенчмарки ============

func BenchmarkLogger_Info(b *testing.B) {
	logger := InitLogger(LogConfig{Level: "info", Output: os.DevNull})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("price tick", Symbol("BTC"), Price(95000), BlockHeight(int64(i)))
	}
}

func BenchmarkLogger_With(b *testing.B) {
	logger := InitLogger(LogConfig{Level: "info", Output: os.DevNull})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.WithModel("gpt5").Info("trade")
	}
}
