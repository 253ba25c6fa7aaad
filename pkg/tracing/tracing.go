package tracing

// tracing.go - настройка OpenTelemetry
//
// При выключенной трассировке StartSpan возвращает span из контекста
// (no-op), поэтому вызывающему коду не нужно проверять Enabled().

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Config - параметры трассировки
type Config struct {
	Enabled     bool
	ServiceName string
	Version     string
	PrettyPrint bool
	// Writer - куда писать спаны; nil = stdout
	Writer io.Writer
}

var (
	mu             sync.RWMutex
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
	enabled        bool
)

// Init настраивает глобальный провайдер трассировки.
// При cfg.Enabled == false ничего не делает.
func Init(cfg Config) error {
	if !cfg.Enabled {
		mu.Lock()
		enabled = false
		mu.Unlock()
		return nil
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return err
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "agent-arena"
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	mu.Lock()
	tracerProvider = provider
	tracer = provider.Tracer(serviceName)
	enabled = true
	mu.Unlock()
	return nil
}

// Shutdown сбрасывает накопленные спаны и останавливает провайдер
func Shutdown(ctx context.Context) error {
	mu.Lock()
	provider := tracerProvider
	tracerProvider = nil
	tracer = nil
	enabled = false
	mu.Unlock()

	if provider != nil {
		return provider.Shutdown(ctx)
	}
	return nil
}

// StartSpan начинает span, если трассировка включена
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	mu.RLock()
	t, on := tracer, enabled
	mu.RUnlock()

	if !on || t == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.Start(ctx, name, opts...)
}

// Enabled возвращает true, если трассировка включена
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// TraceFields возвращает идентификаторы трассы и span для логов
func TraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

// Атрибуты спанов

func ModelID(id string) attribute.KeyValue      { return attribute.String("arena.model_id", id) }
func AgentID(id string) attribute.KeyValue      { return attribute.String("arena.agent_id", id) }
func BlockHeight(h int64) attribute.KeyValue    { return attribute.Int64("arena.block_height", h) }
func TickKind(kind string) attribute.KeyValue   { return attribute.String("arena.tick", kind) }
func HTTPRoute(route string) attribute.KeyValue { return attribute.String("http.route", route) }
