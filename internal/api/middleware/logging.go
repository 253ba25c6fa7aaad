package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"arena/pkg/tracing"
	"arena/pkg/utils"

	"github.com/google/uuid"
)

// RequestIDHeader - заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// responseWriter запоминает статус и размер ответа.
// Hijack пробрасывается, чтобы через middleware проходил websocket upgrade.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logging - middleware для логирования HTTP запросов
//
// Для каждого запроса пишет в zap: метод, путь, статус, длительность,
// IP клиента, размер ответа и request_id. Если запрос трассируется,
// добавляются trace_id и span_id.
//
// request_id берётся из X-Request-ID или генерируется и возвращается клиенту.
// Уровень записи зависит от статуса: 5xx - error, 4xx - warn, остальное - info.
func Logging(logger *utils.Logger) func(http.Handler) http.Handler {
	log := utils.OrGlobal(logger).WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(wrapped, r)

			fields := []utils.Field{
				utils.RequestID(requestID),
				utils.String("method", r.Method),
				utils.String("path", r.URL.Path),
				utils.Int("status", wrapped.statusCode),
				utils.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				utils.String("client_ip", r.RemoteAddr),
				utils.Int64("bytes", wrapped.written),
			}
			if traceID, spanID, ok := tracing.TraceFields(r.Context()); ok {
				fields = append(fields, utils.String("trace_id", traceID), utils.String("span_id", spanID))
			}

			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				log.Error("http request", fields...)
			case wrapped.statusCode >= http.StatusBadRequest:
				log.Warn("http request", fields...)
			default:
				log.Info("http request", fields...)
			}
		})
	}
}
