package index

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubIndex struct {
	name string
}

func (s *stubIndex) Upsert(ctx context.Context, records []Record) error { return nil }

func (s *stubIndex) Query(ctx context.Context, req QueryRequest) ([]Match, error) { return nil, nil }

func (s *stubIndex) Close() error { return nil }

func TestSelect_Remote(t *testing.T) {
	remote := &stubIndex{name: "remote"}
	fallbackCalled := false

	sel := Select(
		context.Background(),
		func(ctx context.Context) (Index, error) { return remote, nil },
		func() Index { fallbackCalled = true; return &stubIndex{name: "memory"} },
	)

	assert.Same(t, remote, sel.Index)
	assert.Equal(t, VariantRemote, sel.Variant)
	assert.False(t, sel.Fallback())
	assert.NoError(t, sel.Cause)
	assert.False(t, fallbackCalled)
}

func TestSelect_FallbackOnError(t *testing.T) {
	memory := &stubIndex{name: "memory"}
	cause := errors.New("connection refused")
	calls := 0

	sel := Select(
		context.Background(),
		func(ctx context.Context) (Index, error) { calls++; return nil, cause },
		func() Index { return memory },
	)

	assert.Same(t, memory, sel.Index)
	assert.Equal(t, VariantMemory, sel.Variant)
	assert.True(t, sel.Fallback())
	assert.ErrorIs(t, sel.Cause, cause)
	assert.Equal(t, 1, calls)
}

func TestSelect_NoRemote(t *testing.T) {
	memory := &stubIndex{name: "memory"}

	sel := Select(context.Background(), nil, func() Index { return memory })

	assert.Same(t, memory, sel.Index)
	assert.Equal(t, VariantMemory, sel.Variant)
	assert.NoError(t, sel.Cause)
}

func TestFilter_Matches(t *testing.T) {
	var none *Filter
	assert.True(t, none.Matches(articleWithURL("x")))
	assert.True(t, (&Filter{URL: "x"}).Matches(articleWithURL("x")))
	assert.False(t, (&Filter{URL: "x"}).Matches(articleWithURL("x/")))
}
