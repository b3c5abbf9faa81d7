package newsagent

import (
	"context"
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/newsagent/article"
	"github.com/w-h-a/newsagent/fetcher"
	"github.com/w-h-a/newsagent/index"
	"github.com/w-h-a/newsagent/index/memory"
)

type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 8)
	for i := range vec {
		h := fnv.New32a()
		h.Write([]byte{byte(i)})
		h.Write([]byte(text))
		vec[i] = float32(h.Sum32()%1000) + 1
	}
	return vec, nil
}

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "```json\n{\"answer\":\"grounded\",\"reasoning\":\"r\"}\n```", nil
}

type staticFetcher struct{}

func (staticFetcher) Fetch(ctx context.Context, url string) fetcher.Result {
	return fetcher.Result{Text: "page text for " + url}
}

func newAgent() *Agent {
	sel := index.Select(context.Background(), nil, func() index.Index {
		return memory.NewIndex(index.WithDimension(8))
	})
	return New(hashEmbedder{}, echoGenerator{}, staticFetcher{}, sel, 0, 0)
}

func TestAgent_IngestThenAsk(t *testing.T) {
	ctx := context.Background()
	a := newAgent()
	defer a.Close()

	report := a.Ingest(ctx, []article.Article{
		{Title: "One", Content: "first", URL: "https://a.com/1", Date: "2024-01-01"},
		{Title: "Two", Content: "second", URL: "https://a.com/2", Date: "2024-01-02"},
	})
	assert.Equal(t, IngestReport{Batches: 1, Upserted: 2}, report)

	rsp := a.AskAgent(ctx, "tell me about https://a.com/2")
	assert.Equal(t, "grounded", rsp.Answer)
	require.Len(t, rsp.Sources, 1)
	assert.Equal(t, "Two", rsp.Sources[0].Title)
}

func TestAgent_StreamedArticleIsQueryable(t *testing.T) {
	ctx := context.Background()
	a := newAgent()

	require.NoError(t, a.HandleMessage(ctx, []byte(`{"URL":"https://b.com/x","Source":"Wire"}`)))

	var responses []article.AgentResponse
	for rsp := range a.AskAgentStream(ctx, "https://b.com/x") {
		responses = append(responses, rsp)
	}

	require.Len(t, responses, 1)
	require.Len(t, responses[0].Sources, 1)
	assert.Equal(t, "Wire", responses[0].Sources[0].Title)
}

func TestAgent_TopK(t *testing.T) {
	ctx := context.Background()
	a := newAgent()

	a.Ingest(ctx, []article.Article{
		{Title: "One", Content: "first", URL: "https://a.com/1", Date: "d"},
		{Title: "Two", Content: "second", URL: "https://a.com/2", Date: "d"},
		{Title: "Three", Content: "third", URL: "https://a.com/3", Date: "d"},
	})

	assert.Len(t, a.AskAgentTopK(ctx, "anything", 1).Sources, 1)
	assert.Len(t, a.AskAgent(ctx, "anything").Sources, 3)
}

func TestAgent_Variant(t *testing.T) {
	assert.Equal(t, index.VariantMemory, newAgent().Variant())
}
