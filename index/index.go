package index

import (
	"context"
	"errors"
)

var (
	ErrIndexUnavailable  = errors.New("vector index unavailable")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

type Index interface {
	// Upsert overwrites records that share an id.
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, req QueryRequest) ([]Match, error)
	Close() error
}
