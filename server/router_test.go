package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ebogdum/notes-app/config"
	"github.com/ebogdum/notes-app/notes"
	"github.com/ebogdum/notes-app/notes/memory"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
	logs    *observer.ObservedLogs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	store := memory.NewStore(notes.DefaultSeed(time.Now()))
	return &testServer{
		handler: NewRouter(store, config.DefaultAppConfig(), zap.New(core)),
		store:   store,
		logs:    logs,
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) accessEntries() []observer.LoggedEntry {
	return s.logs.Filter(func(e observer.LoggedEntry) bool {
		return e.Message == "HTTP Request" || e.Message == "HTTP Request Error"
	}).All()
}

func decodeNotes(t *testing.T, w *httptest.ResponseRecorder) []notes.Note {
	t.Helper()
	var list []notes.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	return list
}

func TestListSeededNotes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	list := decodeNotes(t, w)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)
	assert.NotContains(t, w.Body.String(), "updatedAt")
}

func TestCreateNoteScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/notes", `{"title":"A","content":"B"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created notes.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "A", created.Title)
	assert.Equal(t, "B", created.Content)
	assert.False(t, created.CreatedAt.IsZero())

	info := s.logs.FilterMessage("New note created").All()
	require.Len(t, info, 1)
	assert.Equal(t, zapcore.InfoLevel, info[0].Level)
	assert.Equal(t, int64(3), info[0].ContextMap()["note_id"])
	assert.Equal(t, "A", info[0].ContextMap()["title"])
}

func TestCreateNoteValidation(t *testing.T) {
	bodies := map[string]string{
		"empty title":   `{"title":""}`,
		"no content":    `{"title":"x"}`,
		"empty object":  `{}`,
		"malformed":     `{"title":`,
		"wrong type":    `{"title":1,"content":"x"}`,
		"missing body":  ``,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.do(t, http.MethodPost, "/api/notes", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Title and content are required"}`, w.Body.String())
			assert.Equal(t, 2, s.store.Len())

			warn := s.logs.FilterMessage("Failed to create note: Missing required fields").All()
			require.Len(t, warn, 1)
			assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
		})
	}
}

func TestUpdateNote(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/api/notes/2", `{"title":"Edited","content":"Changed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated notes.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, int64(2), updated.ID)
	assert.Equal(t, "Edited", updated.Title)
	require.NotNil(t, updated.UpdatedAt)

	assert.Len(t, s.logs.FilterMessage("Note updated").All(), 1)
}

func TestUpdateNoteErrors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
		wantBody string
		wantLog  string
	}{
		{
			name:     "unknown id",
			target:   "/api/notes/999",
			body:     `{"title":"x","content":"y"}`,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Note not found"}`,
			wantLog:  "Failed to update note: Note not found",
		},
		{
			name:     "unknown id with invalid body",
			target:   "/api/notes/999",
			body:     `{"title":""}`,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Note not found"}`,
			wantLog:  "Failed to update note: Note not found",
		},
		{
			name:     "non numeric id",
			target:   "/api/notes/abc",
			body:     `{"title":"x","content":"y"}`,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"Note not found"}`,
			wantLog:  "Failed to update note: Note not found",
		},
		{
			name:     "missing content",
			target:   "/api/notes/1",
			body:     `{"title":"x"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Title and content are required"}`,
			wantLog:  "Failed to update note: Missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			before := decodeNotes(t, s.do(t, http.MethodGet, "/api/notes", ""))

			w := s.do(t, http.MethodPut, tt.target, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())

			warn := s.logs.FilterMessage(tt.wantLog).All()
			require.Len(t, warn, 1)
			assert.Equal(t, zapcore.WarnLevel, warn[0].Level)

			after := decodeNotes(t, s.do(t, http.MethodGet, "/api/notes", ""))
			assert.Equal(t, before, after)
		})
	}
}

func TestDeleteNoteScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodDelete, "/api/notes/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string     `json:"message"`
		Note    notes.Note `json:"note"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Note deleted successfully", resp.Message)
	assert.Equal(t, int64(1), resp.Note.ID)
	assert.Equal(t, "Welcome Note", resp.Note.Title)

	list := decodeNotes(t, s.do(t, http.MethodGet, "/api/notes", ""))
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ID)

	info := s.logs.FilterMessage("Note deleted").All()
	require.Len(t, info, 1)
	assert.Equal(t, zapcore.InfoLevel, info[0].Level)
	assert.Equal(t, int64(1), info[0].ContextMap()["note_id"])
	assert.Equal(t, "Welcome Note", info[0].ContextMap()["title"])
	assert.NotEmpty(t, info[0].ContextMap()["request_id"])
}

func TestDeleteNoteErrors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantNoteID interface{}
	}{
		{name: "unknown id", target: "/api/notes/999", wantNoteID: int64(999)},
		{name: "non numeric id", target: "/api/notes/abc", wantNoteID: "abc"},
		{name: "negative id", target: "/api/notes/-1", wantNoteID: int64(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.do(t, http.MethodDelete, tt.target, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.JSONEq(t, `{"error":"Note not found"}`, w.Body.String())
			assert.Equal(t, 2, s.store.Len())

			warn := s.logs.FilterMessage("Failed to delete note: Note not found").All()
			require.Len(t, warn, 1)
			assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
			assert.Equal(t, tt.wantNoteID, warn[0].ContextMap()["note_id"])

			assert.Empty(t, s.logs.FilterMessage("Note deleted").All())
		})
	}
}

func TestDeleteNoteTwice(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/notes/1", "").Code)

	w := s.do(t, http.MethodDelete, "/api/notes/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, s.logs.FilterMessage("Note deleted").All(), 1)
	assert.Len(t, s.logs.FilterMessage("Failed to delete note: Note not found").All(), 1)
}

func TestDeletedIDNotReissued(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/notes/2", "").Code)

	w := s.do(t, http.MethodPost, "/api/notes", `{"title":"A","content":"B"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created notes.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(3), created.ID)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	before := time.Now().Add(-time.Second)

	w := s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)

	ts, err := time.Parse(time.RFC3339Nano, body.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.After(before))
	assert.True(t, ts.Before(time.Now().Add(time.Second)))
}

func TestLogsRedirect(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/logs", "")
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:3001", loc.Host)
	assert.Equal(t, "/explore", loc.Path)
	assert.Equal(t, "1", loc.Query().Get("orgId"))

	var left map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(loc.Query().Get("left")), &left))
	assert.Equal(t, "Loki", left["datasource"])
	queries := left["queries"].([]interface{})
	require.Len(t, queries, 1)
	assert.Equal(t, `{service="notes-app"}`, queries[0].(map[string]interface{})["expr"])
	assert.Equal(t, map[string]interface{}{"from": "now-1h", "to": "now"}, left["range"])

	assert.Len(t, s.logs.FilterMessage("Redirecting to Grafana logs").All(), 1)
}

func TestStaticFrontEnd(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Notes App</title>")

	w = s.do(t, http.MethodGet, "/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/missing.txt", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsAndDocs(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/notes", "")

	w := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "notes_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="/api/notes`)
	assert.Contains(t, w.Body.String(), `status="200"`)

	w = s.do(t, http.MethodGet, "/api/docs/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/api/notes/{id}")
}

func TestEveryRequestProducesOneAccessLogEntry(t *testing.T) {
	s := newTestServer(t)

	requests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/api/notes", ""},
		{http.MethodPost, "/api/notes", `{"title":"A","content":"B"}`},
		{http.MethodPost, "/api/notes", `{"title":""}`},
		{http.MethodPut, "/api/notes/999", `{"title":"x","content":"y"}`},
		{http.MethodDelete, "/api/notes/1", ""},
		{http.MethodGet, "/health", ""},
		{http.MethodGet, "/logs", ""},
		{http.MethodGet, "/", ""},
		{http.MethodGet, "/nope.css", ""},
		{http.MethodPatch, "/api/notes", ""},
	}

	for i, req := range requests {
		w := s.do(t, req.method, req.target, req.body)

		entries := s.accessEntries()
		require.Len(t, entries, i+1, "%s %s", req.method, req.target)
		entry := entries[i]

		assert.Equal(t, int64(w.Code), entry.ContextMap()["status"], "%s %s", req.method, req.target)
		if w.Code >= http.StatusBadRequest {
			assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		} else {
			assert.Equal(t, zapcore.InfoLevel, entry.Level)
		}
	}
}

func TestClientIPIgnoresForwardingHeadersByDefault(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantIP     string
	}{
		{name: "untrusted", trustProxy: false, wantIP: "10.0.0.1"},
		{name: "trusted proxy", trustProxy: true, wantIP: "6.6.6.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			cfg := config.DefaultAppConfig()
			cfg.Server.TrustProxy = tt.trustProxy
			handler := NewRouter(memory.NewStore(notes.DefaultSeed(time.Now())), cfg, zap.New(core))

			req := httptest.NewRequest(http.MethodGet, "/logs", nil)
			req.RemoteAddr = "10.0.0.1:52311"
			req.Header.Set("X-Forwarded-For", "6.6.6.6")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			access := logs.FilterMessage("HTTP Request").All()
			require.Len(t, access, 1)
			assert.Equal(t, tt.wantIP, access[0].ContextMap()["ip"])

			redirect := logs.FilterMessage("Redirecting to Grafana logs").All()
			require.Len(t, redirect, 1)
			assert.Contains(t, redirect[0].ContextMap()["request_ip"], tt.wantIP)
		})
	}
}
