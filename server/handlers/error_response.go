package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ebogdum/notes-app/notes"
	"github.com/ebogdum/notes-app/server/middleware"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusForError maps store errors to an HTTP status and the public message
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, notes.ErrValidation):
		return http.StatusBadRequest, notes.ErrValidation.Error()
	case errors.Is(err, notes.ErrNotFound):
		return http.StatusNotFound, notes.ErrNotFound.Error()
	default:
		return http.StatusInternalServerError, middleware.InternalErrorMessage
	}
}

// SendErrorResponse sends a standardized JSON error response.
// Unexpected errors are logged at error level with a stack trace and
// reported as 500.
func SendErrorResponse(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	statusCode, message := StatusForError(err)

	if statusCode == http.StatusInternalServerError {
		logger.Error("Unhandled error while processing request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(pkgerrors.WithStack(err)))
	}

	SendJSONResponse(w, logger, statusCode, ErrorResponse{Error: message})
}

// SendJSONResponse sends a JSON response with any data structure
func SendJSONResponse(w http.ResponseWriter, logger *zap.Logger, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"error":%q}`, middleware.InternalErrorMessage)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Debug("Failed to write response", zap.Error(err))
	}
}
