// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/skillcards/internal/adapters/repository"
	service "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/internal/domain/csvcodec"
	"github.com/okian/skillcards/internal/domain/interchange"
	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
)

// DefaultMaxUploadBytes caps import bodies when no limit is configured.
const DefaultMaxUploadBytes = 5 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CardDependencies
	ImportDependencies
	ExportDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	cardsHandler  *CardsHandler
	importHandler *ImportHandler
	exportHandler *ExportHandler
}

type serverConfig struct {
	maxUploadBytes int64
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

// WithMaxUploadBytes caps import request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger for unexpected handler failures.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{maxUploadBytes: DefaultMaxUploadBytes, logger: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		cardsHandler:  NewCardsHandler(deps, cfg.logger),
		importHandler: NewImportHandler(deps, cfg.maxUploadBytes, cfg.logger),
		exportHandler: NewExportHandler(deps, cfg.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/cards", MetricsMiddleware(s.cardsHandler.HandleCollection, "cards"))
	mux.HandleFunc("/cards/", MetricsMiddleware(s.cardsHandler.HandleCard, "card"))
	mux.HandleFunc("/import/csv", MetricsMiddleware(s.importHandler.HandleCSV, "import_csv"))
	mux.HandleFunc("/import/json", MetricsMiddleware(s.importHandler.HandleJSON, "import_json"))
	mux.HandleFunc("/export/csv", MetricsMiddleware(s.exportHandler.HandleCSV, "export_csv"))
	mux.HandleFunc("/export/json", MetricsMiddleware(s.exportHandler.HandleJSON, "export_json"))
	mux.HandleFunc("/template.csv", MetricsMiddleware(s.exportHandler.HandleTemplate, "template"))
}

// Compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps a domain error to its status code and error code.
func writeFailure(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrDuplicateID):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	case errors.Is(err, model.ErrUnknownStat), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, csvcodec.ErrNoValidRows):
		writeError(w, http.StatusUnprocessableEntity, "no_valid_rows", WrapKind(op, ErrNoValidRows, err))
	case errors.Is(err, csvcodec.ErrEmptyOrHeaderOnly),
		errors.Is(err, interchange.ErrInvalidJSON),
		errors.Is(err, interchange.ErrNotArray),
		errors.Is(err, interchange.ErrEmptyCollection):
		writeError(w, http.StatusBadRequest, "invalid_import", WrapKind(op, ErrInvalidImport, err))
	default:
		l.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}
