package newsagent

import (
	"context"

	"github.com/w-h-a/newsagent/article"
	"github.com/w-h-a/newsagent/embedder"
	"github.com/w-h-a/newsagent/fetcher"
	"github.com/w-h-a/newsagent/generator"
	"github.com/w-h-a/newsagent/index"
	"github.com/w-h-a/newsagent/internal/service/agent"
	"github.com/w-h-a/newsagent/internal/service/ingest"
)

type IngestReport = ingest.Report

type Agent struct {
	agent     *agent.Service
	ingest    *ingest.Service
	selection index.Selection
}

func (a *Agent) AskAgent(ctx context.Context, query string) article.AgentResponse {
	return a.agent.Ask(ctx, query)
}

func (a *Agent) AskAgentTopK(ctx context.Context, query string, topK int) article.AgentResponse {
	return a.agent.Ask(ctx, query, agent.WithTopK(topK))
}

func (a *Agent) AskAgentStream(ctx context.Context, query string) <-chan article.AgentResponse {
	return a.agent.AskStream(ctx, query)
}

func (a *Agent) Ingest(ctx context.Context, articles []article.Article) IngestReport {
	return a.ingest.Ingest(ctx, articles)
}

func (a *Agent) HandleMessage(ctx context.Context, message []byte) error {
	return a.ingest.HandleMessage(ctx, message)
}

// Variant reports which index was selected at startup.
func (a *Agent) Variant() index.Variant {
	return a.selection.Variant
}

func (a *Agent) Close() error {
	return a.selection.Index.Close()
}

func New(
	embedder embedder.Embedder,
	generator generator.Generator,
	fetcher fetcher.Fetcher,
	selection index.Selection,
	topK int,
	batchSize int,
) *Agent {
	if selection.Index == nil {
		panic("index is required")
	}

	return &Agent{
		agent:     agent.New(embedder, selection.Index, generator, topK),
		ingest:    ingest.New(embedder, selection.Index, fetcher, batchSize),
		selection: selection,
	}
}
