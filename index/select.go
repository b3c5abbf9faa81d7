package index

import (
	"context"
	"log/slog"
)

type Variant string

const (
	VariantRemote Variant = "remote"
	VariantMemory Variant = "memory"
)

// Selection is the index chosen at startup. Cause holds the remote
// failure that forced the fallback, if any.
type Selection struct {
	Index   Index
	Variant Variant
	Cause   error
}

func (s Selection) Fallback() bool {
	return s.Variant == VariantMemory
}

// Select tries the remote index once and falls back to the in-memory one.
// The decision holds for the life of the process.
func Select(ctx context.Context, remote func(context.Context) (Index, error), fallback func() Index) Selection {
	if remote == nil {
		slog.InfoContext(ctx, "no remote vector index configured, using in-memory index")
		return Selection{Index: fallback(), Variant: VariantMemory}
	}

	idx, err := remote(ctx)
	if err != nil {
		slog.WarnContext(ctx, "remote vector index unavailable, falling back to in-memory index", "error", err)
		return Selection{Index: fallback(), Variant: VariantMemory, Cause: err}
	}

	return Selection{Index: idx, Variant: VariantRemote}
}
