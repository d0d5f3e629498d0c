// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the cardctl CLI.
package service

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/skillcards/internal/adapters/repository"
	"github.com/okian/skillcards/internal/domain/csvcodec"
	"github.com/okian/skillcards/internal/domain/interchange"
	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
	"github.com/okian/skillcards/pkg/metrics"
)

//go:embed sample-cards.json
var sampleCards []byte

// Import formats used in logs and metric labels.
const (
	FormatCSV       = "csv"
	FormatLegacyCSV = "legacy_csv"
	FormatJSON      = "json"
)

// ImportResult reports what an import stored and which rows it dropped.
type ImportResult struct {
	Imported int
	Skipped  []*csvcodec.RowError
}

// NewCardInput carries the optional fields of a manually added card.
type NewCardInput struct {
	Name  string `json:"name"`
	Group string `json:"group"`
	Role  string `json:"role"`
}

// Service implements the card catalog operations.
type Service struct {
	mu sync.RWMutex

	store       repository.Store
	storeDriver string
	seedSamples bool

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets the card store. driver is reported by GetStats.
func WithStore(store repository.Store, driver string) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.storeDriver = driver
		}
	}
}

// WithSeedSamples toggles loading the bundled sample cards into an empty store.
func WithSeedSamples(seed bool) Option {
	return func(s *Service) {
		s.seedSamples = seed
	}
}

// New constructs a Service. Without WithStore it uses an in-memory store.
func New(opts ...Option) *Service {
	s := &Service{
		seedSamples: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewBlobStore(repository.NewMemoryKV(), repository.WithLogger(s.logger))
		s.storeDriver = repository.DriverMemory
	}
	return s
}

// Start seeds the store with the sample cards when it is empty.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting card service...",
		logger.String("store", s.storeDriver),
		logger.Bool("seed_samples", s.seedSamples),
	)

	n, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count cards: %w", err)
	}

	// Only an empty store gets the bundled samples
	if n == 0 && s.seedSamples {
		cards, err := interchange.Decode(sampleCards)
		if err != nil {
			return fmt.Errorf("decode sample cards: %w", err)
		}
		if err := s.store.Replace(ctx, cards); err != nil {
			return fmt.Errorf("seed sample cards: %w", err)
		}
		n = len(cards)
		s.logger.Info(ctx, "seeded sample cards", logger.Int("count", n))
	}
	metrics.UpdateCardsTotal(n)

	s.started = true
	s.logger.Info(ctx, "card service started", logger.Int("cards", n))
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping card service...")
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "close store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "card service stopped")
}

// ListCards returns the whole collection.
func (s *Service) ListCards(ctx context.Context) ([]model.Card, error) {
	return s.store.List(ctx)
}

// GetCard returns the card with id.
func (s *Service) GetCard(ctx context.Context, id string) (model.Card, error) {
	return s.store.Get(ctx, id)
}

// AddCard stores a new card with the default stat block and a random id.
func (s *Service) AddCard(ctx context.Context, in NewCardInput) (model.Card, error) {
	card := model.NewCard(uuid.NewString(), in.Name, in.Group, in.Role)
	if err := s.store.Add(ctx, card); err != nil {
		return model.Card{}, err
	}
	s.logger.Debug(ctx, "card added", logger.String("id", card.ID))
	return card, nil
}

// UpdateCard applies patch to the card with id.
func (s *Service) UpdateCard(ctx context.Context, id string, patch model.CardPatch) (model.Card, error) {
	return s.store.Update(ctx, id, patch)
}

// DeleteCard removes the card with id.
func (s *Service) DeleteCard(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ImportCSV parses a primary-format document and replaces the collection.
func (s *Service) ImportCSV(ctx context.Context, text string) (ImportResult, error) {
	dec := csvcodec.NewDecoder(csvcodec.WithLogger(s.logger.Named("csv")))
	res, err := dec.DecodeResult(ctx, text)
	return s.replace(ctx, FormatCSV, res, err)
}

// ImportLegacyCSV parses a legacy header-keyed document and replaces the
// collection. A zero delimiter means comma.
func (s *Service) ImportLegacyCSV(ctx context.Context, text string, delimiter rune) (ImportResult, error) {
	opts := []csvcodec.Option{csvcodec.WithLogger(s.logger.Named("csv"))}
	if delimiter != 0 {
		opts = append(opts, csvcodec.WithDelimiter(delimiter))
	}
	res, err := csvcodec.NewDecoder(opts...).DecodeLegacy(ctx, text)
	return s.replace(ctx, FormatLegacyCSV, res, err)
}

// ImportJSON decodes a JSON card array and replaces the collection.
func (s *Service) ImportJSON(ctx context.Context, data []byte) (ImportResult, error) {
	cards, err := interchange.Decode(data)
	return s.replace(ctx, FormatJSON, csvcodec.Result{Cards: cards}, err)
}

// replace stores a parsed import. Nothing is written when parsing failed,
// but the skipped rows are still returned.
func (s *Service) replace(ctx context.Context, format string, res csvcodec.Result, err error) (ImportResult, error) {
	// Parse failed: keep the stored collection as it is
	if err != nil {
		metrics.RecordImportFailure(format, failureReason(err))
		s.logger.Warn(ctx, "import rejected", logger.String("format", format), logger.Error(err))
		return ImportResult{Skipped: res.Skipped}, err
	}
	if err := s.store.Replace(ctx, res.Cards); err != nil {
		metrics.RecordImportFailure(format, "store")
		return ImportResult{}, fmt.Errorf("store imported cards: %w", err)
	}

	metrics.RecordCardsImported(format, len(res.Cards))
	metrics.UpdateCardsTotal(len(res.Cards))
	metrics.RecordImportRowsSkipped(format, len(res.Skipped))
	s.logger.Info(ctx, "cards imported",
		logger.String("format", format),
		logger.Int("imported", len(res.Cards)),
		logger.Int("skipped", len(res.Skipped)),
	)
	return ImportResult{Imported: len(res.Cards), Skipped: res.Skipped}, nil
}

// ExportCSV renders the collection in the primary CSV format.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	cards, err := s.store.List(ctx)
	if err != nil {
		return "", err
	}
	metrics.RecordExport(FormatCSV)
	return csvcodec.Export(cards), nil
}

// ExportJSON renders the collection as a JSON array.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	cards, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	data, err := interchange.Encode(cards)
	if err != nil {
		return nil, err
	}
	metrics.RecordExport(FormatJSON)
	return data, nil
}

// Template returns the header plus one sample row.
func (s *Service) Template() string {
	return csvcodec.Template()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
		"store":   s.storeDriver,
	}
	if n, err := s.store.Count(ctx); err == nil {
		stats["totalCards"] = n
		metrics.UpdateCardsTotal(n)
	} else {
		stats["storeError"] = err.Error()
	}
	return stats
}

// ParseFormat maps a user-supplied import format name to a Format constant.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv", "primary":
		return FormatCSV, nil
	case "legacy", "legacy_csv":
		return FormatLegacyCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, csvcodec.ErrEmptyOrHeaderOnly):
		return "empty"
	case errors.Is(err, csvcodec.ErrNoValidRows):
		return "no_valid_rows"
	case errors.Is(err, interchange.ErrNotArray), errors.Is(err, interchange.ErrInvalidJSON):
		return "invalid_json"
	case errors.Is(err, interchange.ErrEmptyCollection):
		return "empty"
	default:
		return "other"
	}
}
