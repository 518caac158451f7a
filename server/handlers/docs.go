package handlers

import (
	"net/http"

	"github.com/swaggo/swag"
	"go.uber.org/zap"

	// Registers the OpenAPI document
	_ "github.com/ebogdum/notes-app/docs"
)

// APIDocs handles GET /api/docs/doc.json requests
func APIDocs(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			SendErrorResponse(w, r, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(doc)); err != nil {
			logger.Debug("Failed to write API docs", zap.Error(err))
		}
	}
}
