package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ebogdum/notes-app/metrics"
)

// AccessLogMiddleware emits exactly one access log entry per request once the
// handler chain has finished writing the response. Requests answered with a
// status of 400 or above are logged at error level, everything else at info.
// It only observes; the request and response pass through untouched.
func AccessLogMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				rec := recover()

				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				if rec != nil {
					status = http.StatusInternalServerError
				}

				duration := time.Since(start)
				route := routePattern(r)

				metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
				metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int64("duration_ms", duration.Milliseconds()),
					zap.String("duration", fmt.Sprintf("%dms", duration.Milliseconds())),
					zap.String("ip", clientIP(r)),
					zap.String("user_agent", r.UserAgent()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.String("request_id", GetRequestID(r.Context())),
				}

				if status >= http.StatusBadRequest {
					logger.Error("HTTP Request Error", fields...)
				} else {
					logger.Info("HTTP Request", fields...)
				}

				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routePattern returns the matched chi route so metric labels stay bounded
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
