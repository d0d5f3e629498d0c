package repository

import (
	"context"
	"fmt"
	"strings"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Backend selects and configures the KV backend for Open.
type Backend struct {
	Driver     string
	SQLitePath string
	Redis      RedisOptions
}

// OpenKV builds the KV backend named by b.Driver.
func OpenKV(ctx context.Context, b Backend) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(b.Driver)) {
	case "", DriverMemory:
		return NewMemoryKV(), nil
	case DriverSQLite:
		return OpenSQLiteKV(ctx, b.SQLitePath)
	case DriverRedis:
		return OpenRedisKV(ctx, b.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, b.Driver)
	}
}

// Open builds a BlobStore over the selected backend.
func Open(ctx context.Context, b Backend, opts ...Option) (*BlobStore, error) {
	kv, err := OpenKV(ctx, b)
	if err != nil {
		return nil, err
	}
	return NewBlobStore(kv, opts...), nil
}
