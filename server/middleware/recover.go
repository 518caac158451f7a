package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ebogdum/notes-app/metrics"
)

// InternalErrorMessage is the body sent for any unexpected failure
const InternalErrorMessage = "Internal server error"

// RecoverMiddleware turns a handler panic into a logged 500 response
// instead of tearing down the connection.
func RecoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				metrics.PanicsTotal.Inc()

				err, ok := rec.(error)
				if ok {
					err = errors.WithStack(err)
				} else {
					err = errors.Errorf("panic: %v", rec)
				}

				logger.Error("Unhandled error while processing request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(w).Encode(map[string]string{"error": InternalErrorMessage}); err != nil {
					logger.Error("Failed to write error response", zap.Error(err))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
