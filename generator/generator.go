package generator

import (
	"context"
	"errors"
)

var (
	ErrGeneration = errors.New("text generation failed")
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
