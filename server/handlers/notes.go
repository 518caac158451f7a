package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ebogdum/notes-app/core/log"
	"github.com/ebogdum/notes-app/metrics"
	"github.com/ebogdum/notes-app/notes"
	"github.com/ebogdum/notes-app/server/middleware"
)

// DeleteNoteResponse is returned after a successful delete
type DeleteNoteResponse struct {
	Message string     `json:"message"`
	Note    notes.Note `json:"note"`
}

// ListNotes handles GET /api/notes requests
// @Summary List notes
// @Description Returns every note in insertion order
// @Tags notes
// @Produce json
// @Success 200 {array} notes.Note
// @Router /api/notes [get]
func ListNotes(store notes.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.List(r.Context())
		if err != nil {
			metrics.NoteOperationsTotal.WithLabelValues("list", metrics.ResultError).Inc()
			SendErrorResponse(w, r, logger, err)
			return
		}

		metrics.NoteOperationsTotal.WithLabelValues("list", metrics.ResultSuccess).Inc()
		SendJSONResponse(w, logger, http.StatusOK, list)
	}
}

// CreateNote handles POST /api/notes requests
// @Summary Create a note
// @Description Creates a note; title and content are both required
// @Tags notes
// @Accept json
// @Produce json
// @Param note body notes.NoteInput true "Note to create"
// @Success 201 {object} notes.Note
// @Failure 400 {object} ErrorResponse "Title and content are required"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /api/notes [post]
func CreateNote(store notes.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, decodeErr := notes.DecodeInput(r.Body)
		if decodeErr != nil {
			logger.Debug("Ignoring undecodable note body", zap.Error(decodeErr))
		}

		note, err := store.Create(r.Context(), in)
		if err != nil {
			if errors.Is(err, notes.ErrValidation) {
				metrics.NoteOperationsTotal.WithLabelValues("create", metrics.ResultInvalid).Inc()
				logger.Warn("Failed to create note: Missing required fields",
					append(log.NoteFields{Title: in.Title, Content: in.Content}.Fields(),
						zap.String("request_id", middleware.GetRequestID(r.Context())))...)
			} else {
				metrics.NoteOperationsTotal.WithLabelValues("create", metrics.ResultError).Inc()
			}
			SendErrorResponse(w, r, logger, err)
			return
		}

		metrics.NoteOperationsTotal.WithLabelValues("create", metrics.ResultSuccess).Inc()
		metrics.NotesStored.Set(float64(store.Len()))
		logger.Info("New note created",
			append(log.NoteFields{NoteID: note.ID, Title: note.Title}.Fields(),
				zap.String("request_id", middleware.GetRequestID(r.Context())))...)

		SendJSONResponse(w, logger, http.StatusCreated, note)
	}
}

// UpdateNote handles PUT /api/notes/{id} requests
// @Summary Update a note
// @Description Replaces title and content of an existing note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param note body notes.NoteInput true "New title and content"
// @Success 200 {object} notes.Note
// @Failure 400 {object} ErrorResponse "Title and content are required"
// @Failure 404 {object} ErrorResponse "Note not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /api/notes/{id} [put]
func UpdateNote(store notes.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := zap.String("request_id", middleware.GetRequestID(r.Context()))

		id, ok := parseNoteID(r)
		if !ok {
			metrics.NoteOperationsTotal.WithLabelValues("update", metrics.ResultNotFound).Inc()
			logger.Warn("Failed to update note: Note not found",
				zap.String("note_id", chi.URLParam(r, "id")), requestID)
			SendErrorResponse(w, r, logger, notes.ErrNotFound)
			return
		}

		in, decodeErr := notes.DecodeInput(r.Body)
		if decodeErr != nil {
			logger.Debug("Ignoring undecodable note body", zap.Int64("note_id", id), zap.Error(decodeErr))
		}

		note, err := store.Update(r.Context(), id, in)
		if err != nil {
			switch {
			case errors.Is(err, notes.ErrNotFound):
				metrics.NoteOperationsTotal.WithLabelValues("update", metrics.ResultNotFound).Inc()
				logger.Warn("Failed to update note: Note not found", zap.Int64("note_id", id), requestID)
			case errors.Is(err, notes.ErrValidation):
				metrics.NoteOperationsTotal.WithLabelValues("update", metrics.ResultInvalid).Inc()
				logger.Warn("Failed to update note: Missing required fields", zap.Int64("note_id", id), requestID)
			default:
				metrics.NoteOperationsTotal.WithLabelValues("update", metrics.ResultError).Inc()
			}
			SendErrorResponse(w, r, logger, err)
			return
		}

		metrics.NoteOperationsTotal.WithLabelValues("update", metrics.ResultSuccess).Inc()
		logger.Info("Note updated",
			append(log.NoteFields{NoteID: note.ID, Title: note.Title}.Fields(), requestID)...)

		SendJSONResponse(w, logger, http.StatusOK, note)
	}
}

// DeleteNote handles DELETE /api/notes/{id} requests
// @Summary Delete a note
// @Description Removes a note and returns it
// @Tags notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} DeleteNoteResponse
// @Failure 404 {object} ErrorResponse "Note not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /api/notes/{id} [delete]
func DeleteNote(store notes.Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := zap.String("request_id", middleware.GetRequestID(r.Context()))

		id, ok := parseNoteID(r)
		if !ok {
			metrics.NoteOperationsTotal.WithLabelValues("delete", metrics.ResultNotFound).Inc()
			logger.Warn("Failed to delete note: Note not found",
				zap.String("note_id", chi.URLParam(r, "id")), requestID)
			SendErrorResponse(w, r, logger, notes.ErrNotFound)
			return
		}

		removed, err := store.Delete(r.Context(), id)
		if err != nil {
			if errors.Is(err, notes.ErrNotFound) {
				metrics.NoteOperationsTotal.WithLabelValues("delete", metrics.ResultNotFound).Inc()
				logger.Warn("Failed to delete note: Note not found", zap.Int64("note_id", id), requestID)
			} else {
				metrics.NoteOperationsTotal.WithLabelValues("delete", metrics.ResultError).Inc()
			}
			SendErrorResponse(w, r, logger, err)
			return
		}

		metrics.NoteOperationsTotal.WithLabelValues("delete", metrics.ResultSuccess).Inc()
		metrics.NotesStored.Set(float64(store.Len()))
		logger.Info("Note deleted",
			append(log.NoteFields{NoteID: removed.ID, Title: removed.Title}.Fields(), requestID)...)

		SendJSONResponse(w, logger, http.StatusOK, DeleteNoteResponse{
			Message: "Note deleted successfully",
			Note:    removed,
		})
	}
}

// parseNoteID reads the {id} URL parameter. Anything that is not an
// integer cannot name a note.
func parseNoteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
