// Package adapthttp is the driving adapter that exposes the sync engine to
// the UI layer as a JSON API.
package adapthttp

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"healthsync/internal/app"
)

// Server routes UI requests to the sync session.
type Server struct {
	session *app.SyncSession
	log     zerolog.Logger
}

// New creates a Server wired to the given session.
func New(session *app.SyncSession, log zerolog.Logger) *Server {
	return &Server{session: session, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/permissions", s.handlePermissions).Methods(http.MethodGet)
	api.HandleFunc("/permissions/request", s.handlePermissionsRequest).Methods(http.MethodPost)
	api.HandleFunc("/metrics/{metric}/readings", s.handleAddReading).Methods(http.MethodPost)
	api.HandleFunc("/metrics/{metric}/refresh", s.handleRefresh).Methods(http.MethodPost)
	api.HandleFunc("/metrics/{metric}/undo-last", s.handleUndoLast).Methods(http.MethodPost)
	api.HandleFunc("/metrics/{metric}/week", s.handleWeek).Methods(http.MethodGet)
	api.HandleFunc("/metrics/{metric}/days/{day}", s.handleDayDetail).Methods(http.MethodGet)

	return s.loggingMiddleware(withNoCache(r))
}
