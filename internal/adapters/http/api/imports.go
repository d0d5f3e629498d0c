package api

import (
	"context"
	"io"
	"net/http"
	"unicode/utf8"

	service "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/pkg/logger"
)

// ImportDependencies defines the import operations the handlers need.
type ImportDependencies interface {
	ImportCSV(ctx context.Context, text string) (service.ImportResult, error)
	ImportLegacyCSV(ctx context.Context, text string, delimiter rune) (service.ImportResult, error)
	ImportJSON(ctx context.Context, data []byte) (service.ImportResult, error)
}

// ImportHandler handles POST /import/csv and /import/json.
type ImportHandler struct {
	deps     ImportDependencies
	maxBytes int64
	logger   logger.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(deps ImportDependencies, maxBytes int64, l logger.Logger) *ImportHandler {
	return &ImportHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

type skippedRow struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type importResponse struct {
	Imported int          `json:"imported"`
	Skipped  []skippedRow `json:"skipped"`
}

func newImportResponse(res service.ImportResult) importResponse {
	out := importResponse{Imported: res.Imported, Skipped: make([]skippedRow, 0, len(res.Skipped))}
	for _, s := range res.Skipped {
		out.Skipped = append(out.Skipped, skippedRow{Row: s.Row, Message: s.Err.Error()})
	}
	return out
}

// HandleCSV handles POST /import/csv. The body is the raw document;
// ?format=legacy selects the header-keyed layout and ?delimiter= overrides
// its separator.
func (h *ImportHandler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_csv"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	format, err := service.ParseFormat(q.Get("format"))
	if err != nil || format == service.FormatJSON {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	var delim rune
	if d := q.Get("delimiter"); d != "" {
		if utf8.RuneCountInString(d) != 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		delim, _ = utf8.DecodeRuneInString(d)
	}

	body, err := h.readBody(w, r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}

	var res service.ImportResult
	if format == service.FormatLegacyCSV {
		res, err = h.deps.ImportLegacyCSV(r.Context(), string(body), delim)
	} else {
		res, err = h.deps.ImportCSV(r.Context(), string(body))
	}
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newImportResponse(res))
}

// HandleJSON handles POST /import/json.
func (h *ImportHandler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	const op = "api.import_json"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	body, err := h.readBody(w, r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	res, err := h.deps.ImportJSON(r.Context(), body)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newImportResponse(res))
}

func (h *ImportHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
}
