package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/chat-vibes/backend/internal/logging"
)

// RequestLogger 记录每个请求的方法、路径、状态码、字节数与耗时。
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				fields := []logging.Field{
					logging.F("method", r.Method),
					logging.F("path", r.URL.Path),
					logging.F("status", status),
					logging.F("bytes", ww.BytesWritten()),
					logging.F("duration", time.Since(start)),
					logging.F("remote", r.RemoteAddr),
				}
				l := logger.WithContext(r.Context())
				switch {
				case status >= http.StatusInternalServerError:
					l.Error("request", fields...)
				case status >= http.StatusBadRequest:
					l.Warn("request", fields...)
				default:
					l.Info("request", fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
