package agent

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/w-h-a/newsagent/index"
)

// letterEmbedder maps text to letter frequencies so identical text yields
// identical vectors.
type letterEmbedder struct {
	mtx    sync.Mutex
	inputs []string
	err    error
}

func (e *letterEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mtx.Lock()
	e.inputs = append(e.inputs, text)
	e.mtx.Unlock()

	if e.err != nil {
		return nil, e.err
	}

	vec := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		} else {
			vec[26] += 0.1
		}
	}
	return vec, nil
}

type fakeGenerator struct {
	mtx     sync.Mutex
	output  string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.output, g.err
}

type scriptedIndex struct {
	requests  []index.QueryRequest
	filtered  []index.Match
	semantic  []index.Match
	filterErr error
	err       error
}

func (i *scriptedIndex) Upsert(ctx context.Context, records []index.Record) error {
	return errors.New("read only")
}

func (i *scriptedIndex) Query(ctx context.Context, req index.QueryRequest) ([]index.Match, error) {
	i.requests = append(i.requests, req)
	if req.Filter != nil {
		return i.filtered, i.filterErr
	}
	return i.semantic, i.err
}

func (i *scriptedIndex) Close() error { return nil }
