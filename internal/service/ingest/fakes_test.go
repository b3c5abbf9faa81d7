package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/w-h-a/newsagent/embedder"
	"github.com/w-h-a/newsagent/fetcher"
	"github.com/w-h-a/newsagent/index"
)

type fakeEmbedder struct {
	failOn string
	inputs []string
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.inputs = append(e.inputs, text)
	if len(e.failOn) > 0 && strings.Contains(text, e.failOn) {
		return nil, embedder.ErrEmbeddingService
	}
	return []float32{float32(len(text)), 1}, nil
}

type recordingIndex struct {
	mtx     sync.Mutex
	calls   [][]index.Record
	failAll bool
}

func (i *recordingIndex) Upsert(ctx context.Context, records []index.Record) error {
	i.mtx.Lock()
	defer i.mtx.Unlock()
	if i.failAll {
		return index.ErrIndexUnavailable
	}
	i.calls = append(i.calls, records)
	return nil
}

func (i *recordingIndex) Query(ctx context.Context, req index.QueryRequest) ([]index.Match, error) {
	return nil, nil
}

func (i *recordingIndex) Close() error { return nil }

type fakeFetcher struct {
	text string
	fail bool
	urls []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) fetcher.Result {
	f.urls = append(f.urls, url)
	if f.fail {
		return fetcher.Failed(errors.New("unreachable"))
	}
	return fetcher.Result{Text: f.text}
}

// cancellingEmbedder cancels its context once after embedding the given number of texts.
type cancellingEmbedder struct {
	fakeEmbedder
	after  int
	cancel context.CancelFunc
}

func (e *cancellingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.fakeEmbedder.Embed(ctx, text)
	if len(e.inputs) == e.after {
		e.cancel()
	}
	return vec, err
}
