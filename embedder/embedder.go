package embedder

import (
	"context"
	"errors"
)

var (
	ErrEmbeddingService = errors.New("embedding service failed")
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
