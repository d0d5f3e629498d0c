package repository

import "github.com/okian/skillcards/pkg/logger"

// DefaultNamespace is the key the collection is stored under.
const DefaultNamespace = "project42_cards"

// Option applies a configuration option to the BlobStore.
type Option func(*BlobStore)

// WithNamespace sets the key the collection is stored under.
func WithNamespace(ns string) Option {
	return func(s *BlobStore) {
		if ns != "" {
			s.namespace = ns
		}
	}
}

// WithLogger sets the logger for recoverable storage problems.
func WithLogger(l logger.Logger) Option {
	return func(s *BlobStore) {
		if l != nil {
			s.logger = l
		}
	}
}
