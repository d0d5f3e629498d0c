package api

import (
	"context"
	"net/http"

	"github.com/okian/skillcards/pkg/logger"
)

// ExportDependencies defines the export operations the handlers need.
type ExportDependencies interface {
	ExportCSV(ctx context.Context) (string, error)
	ExportJSON(ctx context.Context) ([]byte, error)
	Template() string
}

// ExportHandler handles the download routes.
type ExportHandler struct {
	deps   ExportDependencies
	logger logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies, l logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, logger: l}
}

// HandleCSV handles GET /export/csv.
func (h *ExportHandler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	text, err := h.deps.ExportCSV(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.export_csv", err)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", "cards.csv", []byte(text))
}

// HandleJSON handles GET /export/json.
func (h *ExportHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	data, err := h.deps.ExportJSON(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.export_json", err)
		return
	}
	writeAttachment(w, "application/json; charset=utf-8", "cards.json", data)
}

// HandleTemplate handles GET /template.csv.
func (h *ExportHandler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeAttachment(w, "text/csv; charset=utf-8", "cards_template.csv", []byte(h.deps.Template()))
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
