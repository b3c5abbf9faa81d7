package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/newsagent/article"
	"github.com/w-h-a/newsagent/index"
)

func record(id string, url string, vec ...float32) index.Record {
	return index.Record{
		Id:        id,
		Embedding: vec,
		Metadata:  article.Article{Title: id, URL: url},
	}
}

func TestQuery_SortedAndTruncated(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(2))

	require.NoError(t, idx.Upsert(ctx, []index.Record{
		record("a", "u/a", 1, 0),
		record("b", "u/b", 0, 1),
		record("c", "u/c", 1, 1),
	}))

	matches, err := idx.Query(ctx, index.QueryRequest{Vector: []float32{1, 0}, TopK: 2})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Id)
	assert.Equal(t, "c", matches[1].Id)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestQuery_TopKLargerThanIndex(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(2))

	require.NoError(t, idx.Upsert(ctx, []index.Record{record("a", "u/a", 1, 0)}))

	matches, err := idx.Query(ctx, index.QueryRequest{Vector: []float32{1, 0}, TopK: 3})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestQuery_NonPositiveTopK(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(2))
	require.NoError(t, idx.Upsert(ctx, []index.Record{record("a", "u/a", 1, 0)}))

	matches, err := idx.Query(ctx, index.QueryRequest{Vector: []float32{1, 0}, TopK: 0})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQuery_EmptyIndex(t *testing.T) {
	idx := NewIndex(index.WithDimension(2))

	matches, err := idx.Query(context.Background(), index.QueryRequest{Vector: []float32{1, 0}, TopK: 3})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestQuery_URLFilter(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(2))

	require.NoError(t, idx.Upsert(ctx, []index.Record{
		record("a", "https://a.com/x", 1, 0),
		record("b", "https://b.com/y", 0, 1),
	}))

	matches, err := idx.Query(ctx, index.QueryRequest{
		Vector: []float32{1, 0},
		TopK:   1,
		Filter: &index.Filter{URL: "https://b.com/y"},
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].Id)

	matches, err = idx.Query(ctx, index.QueryRequest{
		Vector: []float32{1, 0},
		TopK:   1,
		Filter: &index.Filter{URL: "https://c.com/z"},
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestUpsert_OverwritesById(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(2))

	require.NoError(t, idx.Upsert(ctx, []index.Record{record("a", "old", 1, 0)}))
	require.NoError(t, idx.Upsert(ctx, []index.Record{record("a", "new", 0, 1)}))

	assert.Equal(t, 1, idx.Len())

	matches, err := idx.Query(ctx, index.QueryRequest{Vector: []float32{0, 1}, TopK: 5})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Metadata.URL)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestUpsert_CopiesEmbedding(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(2))

	vec := []float32{1, 0}
	require.NoError(t, idx.Upsert(ctx, []index.Record{{Id: "a", Embedding: vec}}))
	vec[0] = 0

	matches, err := idx.Query(ctx, index.QueryRequest{Vector: []float32{1, 0}, TopK: 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
}

func TestDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(3))

	err := idx.Upsert(ctx, []index.Record{record("a", "u", 1, 0)})
	assert.ErrorIs(t, err, index.ErrDimensionMismatch)
	assert.Equal(t, 0, idx.Len())

	_, err = idx.Query(ctx, index.QueryRequest{Vector: []float32{1}, TopK: 1})
	assert.ErrorIs(t, err, index.ErrDimensionMismatch)
}

func TestDefaultDimension(t *testing.T) {
	idx := NewIndex()

	err := idx.Upsert(context.Background(), []index.Record{record("a", "u", 1, 0)})
	assert.ErrorIs(t, err, index.ErrDimensionMismatch)

	vec := make([]float32, index.DefaultDimension)
	vec[0] = 1
	assert.NoError(t, idx.Upsert(context.Background(), []index.Record{record("a", "u", vec...)}))
}

func TestConcurrentUpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(index.WithDimension(2))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				assert.NoError(t, idx.Upsert(ctx, []index.Record{record(id, id, float32(i), 1)}))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := idx.Query(ctx, index.QueryRequest{Vector: []float32{1, 1}, TopK: 3})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8*50, idx.Len())
}
