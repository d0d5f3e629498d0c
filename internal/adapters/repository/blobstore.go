package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/skillcards/internal/domain/interchange"
	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
	"github.com/okian/skillcards/pkg/metrics"
)

// BlobStore implements Store as read-modify-write cycles over one JSON blob.
// The mutex serializes cycles within this process only.
type BlobStore struct {
	mu        sync.Mutex
	kv        KV
	namespace string
	logger    logger.Logger
}

var _ Store = (*BlobStore)(nil)

// NewBlobStore wraps kv.
func NewBlobStore(kv KV, opts ...Option) *BlobStore {
	s := &BlobStore{
		kv:        kv,
		namespace: DefaultNamespace,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load reads the collection. A blob that cannot be decoded reads as empty,
// so one bad write never locks the user out.
func (s *BlobStore) load(ctx context.Context) ([]model.Card, error) {
	start := time.Now()
	defer observe("load", start)

	data, ok, err := s.kv.Get(ctx, s.namespace)
	if err != nil {
		metrics.RecordStoreError("load")
		return nil, fmt.Errorf("%w: read %s: %w", ErrBackend, s.namespace, err)
	}
	// Nothing stored yet under this namespace
	if !ok {
		return []model.Card{}, nil
	}

	// Older blobs are migrated on the way in
	cards, err := interchange.DecodeStored(data)
	if err != nil {
		s.logger.Warn(ctx, "stored cards unreadable; treating as empty",
			logger.String("namespace", s.namespace), logger.Error(err))
		return []model.Card{}, nil
	}
	return cards, nil
}

func (s *BlobStore) save(ctx context.Context, cards []model.Card) error {
	start := time.Now()
	defer observe("save", start)

	data, err := interchange.Encode(cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	if err := s.kv.Set(ctx, s.namespace, data); err != nil {
		metrics.RecordStoreError("save")
		return fmt.Errorf("%w: write %s: %w", ErrBackend, s.namespace, err)
	}
	metrics.UpdateCardsTotal(len(cards))
	s.logger.Debug(ctx, "cards saved",
		logger.String("namespace", s.namespace),
		logger.Int("count", len(cards)),
		logger.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
	)
	return nil
}

// List returns every card in insertion order.
func (s *BlobStore) List(ctx context.Context) ([]model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the card with id.
func (s *BlobStore) Get(ctx context.Context, id string) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.load(ctx)
	if err != nil {
		return model.Card{}, err
	}
	i := indexOf(cards, id)
	if i < 0 {
		return model.Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cards[i], nil
}

// Add appends card after clamping its numbers.
func (s *BlobStore) Add(ctx context.Context, card model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.load(ctx)
	if err != nil {
		return err
	}
	if indexOf(cards, card.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, card.ID)
	}
	return s.save(ctx, append(cards, card.Normalized()))
}

// Update merges patch into the card with id.
func (s *BlobStore) Update(ctx context.Context, id string, patch model.CardPatch) (model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.load(ctx)
	if err != nil {
		return model.Card{}, err
	}
	i := indexOf(cards, id)
	if i < 0 {
		return model.Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated, err := patch.Apply(cards[i])
	if err != nil {
		return model.Card{}, err
	}
	cards[i] = updated
	if err := s.save(ctx, cards); err != nil {
		return model.Card{}, err
	}
	return updated, nil
}

// Delete removes the card with id.
func (s *BlobStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(cards, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.save(ctx, append(cards[:i], cards[i+1:]...))
}

// Replace swaps the whole collection.
func (s *BlobStore) Replace(ctx context.Context, cards []model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Card, len(cards))
	for i, c := range cards {
		out[i] = c.Normalized()
	}
	return s.save(ctx, out)
}

// Count returns the number of stored cards.
func (s *BlobStore) Count(ctx context.Context) (int, error) {
	cards, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(cards), nil
}

// Close closes the backend.
func (s *BlobStore) Close() error {
	return s.kv.Close()
}

func indexOf(cards []model.Card, id string) int {
	for i := range cards {
		if cards[i].ID == id {
			return i
		}
	}
	return -1
}

func observe(op string, start time.Time) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
}
