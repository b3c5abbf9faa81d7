package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/w-h-a/newsagent/index"
)

type memoryIndex struct {
	options   index.Options
	positions map[string]int
	records   []index.Record
	mtx       sync.RWMutex
}

func (i *memoryIndex) Upsert(ctx context.Context, records []index.Record) error {
	if err := index.CheckRecords(i.options.Dimension, records); err != nil {
		return err
	}

	i.mtx.Lock()
	defer i.mtx.Unlock()

	for _, rec := range records {
		cpy := make([]float32, len(rec.Embedding))
		copy(cpy, rec.Embedding)
		rec.Embedding = cpy

		if pos, exists := i.positions[rec.Id]; exists {
			i.records[pos] = rec
			continue
		}

		i.positions[rec.Id] = len(i.records)
		i.records = append(i.records, rec)
	}

	return nil
}

func (i *memoryIndex) Query(ctx context.Context, req index.QueryRequest) ([]index.Match, error) {
	if req.TopK < 1 {
		return nil, nil
	}

	if err := index.CheckDimension(i.options.Dimension, req.Vector); err != nil {
		return nil, err
	}

	i.mtx.RLock()
	candidates := make([]index.Match, 0, len(i.records))
	for _, rec := range i.records {
		if !req.Filter.Matches(rec.Metadata) {
			continue
		}
		candidates = append(candidates, index.Match{
			Id:       rec.Id,
			Score:    float32(index.CosineSimilarity(req.Vector, rec.Embedding)),
			Metadata: rec.Metadata,
		})
	}
	i.mtx.RUnlock()

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	if len(candidates) > req.TopK {
		candidates = candidates[:req.TopK]
	}

	return candidates, nil
}

func (i *memoryIndex) Close() error {
	return nil
}

// Len reports the number of distinct ids stored.
func (i *memoryIndex) Len() int {
	i.mtx.RLock()
	defer i.mtx.RUnlock()
	return len(i.records)
}

func NewIndex(opts ...index.Option) *memoryIndex {
	options := index.NewOptions(opts...)

	i := &memoryIndex{
		options:   options,
		positions: map[string]int{},
		records:   []index.Record{},
		mtx:       sync.RWMutex{},
	}

	return i
}
