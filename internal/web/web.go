// Package web implements the hoops JSON API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/negz/hoops/internal/cache"
	"github.com/negz/hoops/internal/db"
	"github.com/negz/hoops/internal/stats/aggregate"
	"github.com/negz/hoops/internal/stats/compare"
	"github.com/negz/hoops/internal/stats/leaders"
	"github.com/negz/hoops/internal/stats/standings"
	"github.com/negz/hoops/internal/version"
)

// An Engine aggregates finished games and box scores.
type Engine interface {
	ApplyFinishedGame(ctx context.Context, g db.Game) error
	ReverseGame(ctx context.Context, id string) (db.Game, error)
	RecordPlayerGame(ctx context.Context, gameID, season string, l db.BoxScoreLine) error
}

// Server serves the hoops API.
type Server struct {
	store  cache.Store
	engine Engine
	log    *slog.Logger
}

// NewServer returns a new Server. Reads are served from the store. Writes go
// through the engine.
func NewServer(store cache.Store, engine Engine, log *slog.Logger) *Server {
	return &Server{store: store, engine: engine, log: log}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/seasons", s.handleSeasons).Methods(http.MethodGet)
	api.HandleFunc("/teams", s.handleTeams).Methods(http.MethodGet)
	api.HandleFunc("/players", s.handlePlayers).Methods(http.MethodGet)

	api.HandleFunc("/standings/{season}", s.handleStandings).Methods(http.MethodGet)
	api.HandleFunc("/teams/{id:[0-9]+}/records/{season}", s.handleTeamRecord).Methods(http.MethodGet)
	api.HandleFunc("/players/{id:[0-9]+}/records/{season}", s.handlePlayerRecord).Methods(http.MethodGet)
	api.HandleFunc("/leaders/{season}", s.handleLeaders).Methods(http.MethodGet)
	api.HandleFunc("/leaders/{season}/teams", s.handleTeamLeaders).Methods(http.MethodGet)
	api.HandleFunc("/league/{season}", s.handleLeague).Methods(http.MethodGet)
	api.HandleFunc("/compare/teams", s.handleCompareTeams).Methods(http.MethodGet)
	api.HandleFunc("/compare/players", s.handleComparePlayers).Methods(http.MethodGet)

	api.HandleFunc("/games", s.handleApplyGame).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}", s.handleReverseGame).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/box-score", s.handleRecordBoxScore).Methods(http.MethodPost)

	return r
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithLogging wraps an http.Handler to log each request's method, path,
// status code, and duration.
func WithLogging(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request", "method", r.Method, "path", r.URL.RequestURI(), "status", rec.status, "duration", time.Since(start))
	})
}

// Sync calls syncFn immediately, then every interval until ctx is done.
func Sync(ctx context.Context, syncFn func(context.Context) error, interval time.Duration, log *slog.Logger) {
	if err := syncFn(ctx); err != nil {
		log.Error("initial sync failed", "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := syncFn(ctx); err != nil {
				log.Error("periodic sync failed", "err", err)
			}
		}
	}
}

// errBadRequest indicates a malformed request.
var errBadRequest = errors.New("bad request")

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound),
		errors.Is(err, compare.ErrNotFound),
		errors.Is(err, aggregate.ErrGameNotFound),
		errors.Is(err, aggregate.ErrUnknownTeam),
		errors.Is(err, aggregate.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, aggregate.ErrInvalidGameState),
		errors.Is(err, aggregate.ErrInvalidStatLine),
		errors.Is(err, leaders.ErrInvalidMetric),
		errors.Is(err, leaders.ErrInvalidLimit),
		errors.Is(err, standings.ErrUnknownConference):
		return http.StatusBadRequest
	case errors.Is(err, aggregate.ErrDuplicateApplication):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes an error response. Internal errors are logged, and their
// details are not sent to the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: version.Version})
}
