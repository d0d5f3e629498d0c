// Package repository persists card collections.
//
// The whole collection lives as one JSON array under a namespace key in a
// KV backend, the same way the browser client keeps it in local storage.
package repository

import (
	"context"

	"github.com/okian/skillcards/internal/domain/model"
)

// Store provides CRUD over the card collection.
type Store interface {
	// List returns every card in insertion order.
	List(ctx context.Context) ([]model.Card, error)
	// Get returns ErrNotFound if id is unknown.
	Get(ctx context.Context, id string) (model.Card, error)
	// Add appends a card. Returns ErrDuplicateID if the id is taken.
	Add(ctx context.Context, card model.Card) error
	// Update merges patch into the card with id and returns the result.
	Update(ctx context.Context, id string, patch model.CardPatch) (model.Card, error)
	// Delete removes the card with id.
	Delete(ctx context.Context, id string) error
	// Replace swaps the whole collection in one write.
	Replace(ctx context.Context, cards []model.Card) error
	// Count returns the number of stored cards.
	Count(ctx context.Context) (int, error)
	// Close releases the backend.
	Close() error
}

// KV is the minimal key-value backend a BlobStore needs.
type KV interface {
	// Get returns ok=false when key has never been set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
