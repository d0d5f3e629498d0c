package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	service "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
)

// maxCardBodyBytes caps single-card request bodies.
const maxCardBodyBytes = 64 << 10

// CardDependencies defines the card CRUD operations the handlers need.
type CardDependencies interface {
	ListCards(ctx context.Context) ([]model.Card, error)
	GetCard(ctx context.Context, id string) (model.Card, error)
	AddCard(ctx context.Context, in service.NewCardInput) (model.Card, error)
	UpdateCard(ctx context.Context, id string, patch model.CardPatch) (model.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// CardsHandler handles /cards and /cards/{id}.
type CardsHandler struct {
	deps   CardDependencies
	logger logger.Logger
}

// NewCardsHandler creates a new cards handler.
func NewCardsHandler(deps CardDependencies, l logger.Logger) *CardsHandler {
	return &CardsHandler{deps: deps, logger: l}
}

// HandleCollection handles GET and POST /cards.
func (h *CardsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.add(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleCard handles GET, PATCH and DELETE /cards/{id}.
func (h *CardsHandler) HandleCard(w http.ResponseWriter, r *http.Request) {
	const op = "api.card"
	id := strings.TrimPrefix(r.URL.Path, "/cards/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch r.Method {
	case http.MethodGet:
		card, err := h.deps.GetCard(r.Context(), id)
		if err != nil {
			writeFailure(r.Context(), w, h.logger, "api.get_card", err)
			return
		}
		writeJSON(w, http.StatusOK, card)
	case http.MethodPatch:
		h.update(w, r, id)
	case http.MethodDelete:
		if err := h.deps.DeleteCard(r.Context(), id); err != nil {
			writeFailure(r.Context(), w, h.logger, "api.delete_card", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (h *CardsHandler) list(w http.ResponseWriter, r *http.Request) {
	cards, err := h.deps.ListCards(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.list_cards", err)
		return
	}
	if cards == nil {
		cards = []model.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardsHandler) add(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_card"
	var in service.NewCardInput
	if err := decodeOptionalJSON(w, r, &in); err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	card, err := h.deps.AddCard(r.Context(), in)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *CardsHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.update_card"
	var patch model.CardPatch
	if err := decodeOptionalJSON(w, r, &patch); err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	card, err := h.deps.UpdateCard(r.Context(), id, patch)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// decodeOptionalJSON decodes a small JSON body into v. An empty body leaves v
// untouched.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCardBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return WrapKind("api.decode", ErrBadRequest, err)
	}
	return nil
}
