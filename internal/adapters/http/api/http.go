// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/stats"
	"github.com/okian/qscore/internal/domain/types"
	"github.com/okian/qscore/pkg/metrics"
)

// Default request limits.
const defaultMaxBatchSize = 1_000

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoreDependencies
	SettingsDependencies

	// Ping reports whether backing stores are reachable.
	Ping(ctx context.Context) error
}

// ScoreDependencies runs scoring passes.
type ScoreDependencies interface {
	Evaluate(ctx context.Context, items []stats.RawItem, dir model.Direction) (types.Evaluation, error)
}

// SettingsDependencies reads and writes user settings.
type SettingsDependencies interface {
	Settings(ctx context.Context) (config.Quality, []error, error)
	UpdateSetting(ctx context.Context, key, value string) error
	ToggleSetting(ctx context.Context, key string) (bool, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	scoreHandler    *ScoreHandler
	settingsHandler *SettingsHandler
}

// NewServer creates a new API server with all handlers. maxBatchSize caps
// the items accepted by one scoring request; non-positive means the default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBatchSize int) *Server {
	if maxBatchSize < 1 {
		maxBatchSize = defaultMaxBatchSize
	}
	return &Server{
		healthHandler:   NewHealthHandler(deps),
		statsHandler:    NewStatsHandler(statsProvider),
		scoreHandler:    NewScoreHandler(deps, maxBatchSize),
		settingsHandler: NewSettingsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /v1/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("GET /v1/settings", MetricsMiddleware(s.settingsHandler.HandleGetSettings, "settings"))
	mux.HandleFunc("PUT /v1/settings/{key}", MetricsMiddleware(s.settingsHandler.HandlePutSetting, "settings_put"))
	mux.HandleFunc("POST /v1/settings/toggle/{key}", MetricsMiddleware(s.settingsHandler.HandleToggleSetting, "settings_toggle"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the header so an encoding failure
// becomes a 500 instead of a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		metrics.RecordErrorByComponent("api", "encode")
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: WrapKind("api.encode", ErrInternal, err).Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
