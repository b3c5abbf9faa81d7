package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/newsagent/article"
	"github.com/w-h-a/newsagent/embedder"
	"github.com/w-h-a/newsagent/generator"
	"github.com/w-h-a/newsagent/index"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTopK    = 3
	urlPlaceholder = "dummy query for URL search"

	NotFoundAnswer = "I couldn't find relevant information about your question in the available articles."
	ErrorAnswer    = "An error occurred while processing your query. Please try again."
)

var tracer = otel.Tracer("github.com/w-h-a/newsagent/internal/service/agent")

type Service struct {
	embedder  embedder.Embedder
	index     index.Index
	generator generator.Generator
	topK      int
}

// Ask answers a question from the indexed articles. It never fails: backend
// errors become a fixed error answer with no sources.
func (s *Service) Ask(ctx context.Context, query string, opts ...AskOption) article.AgentResponse {
	ctx, span := tracer.Start(ctx, "agent.Ask")
	defer span.End()

	options := newAskOptions(s.topK, opts...)

	if len(strings.TrimSpace(query)) == 0 {
		return notFound()
	}

	candidates, err := s.retrieve(ctx, query, options.topK)
	if err != nil {
		return s.failed(ctx, span, "failed to retrieve articles", err)
	}

	span.SetAttributes(attribute.Int("agent.candidates", len(candidates)))

	if len(candidates) == 0 {
		return notFound()
	}

	raw, err := s.generate(ctx, buildPrompt(query, candidates))
	if err != nil {
		return s.failed(ctx, span, "failed to generate answer", err)
	}

	answer, err := ParseAnswer(raw)
	if err != nil {
		slog.WarnContext(ctx, "returning raw model output", "error", err)
		span.SetAttributes(attribute.Bool("agent.structured", false))
	}

	sources := make([]article.Source, 0, len(candidates))
	for _, c := range candidates {
		sources = append(sources, c.Source())
	}

	return article.AgentResponse{
		Answer:  answer.Answer,
		Sources: sources,
	}
}

// AskStream delivers exactly one response and then closes the channel.
func (s *Service) AskStream(ctx context.Context, query string, opts ...AskOption) <-chan article.AgentResponse {
	ch := make(chan article.AgentResponse, 1)

	go func() {
		defer close(ch)
		ch <- s.Ask(ctx, query, opts...)
	}()

	return ch
}

func (s *Service) retrieve(ctx context.Context, query string, topK int) ([]article.Article, error) {
	if url := DetectURL(query); len(url) > 0 {
		found, err := s.byURL(ctx, url)
		if err != nil {
			slog.WarnContext(ctx, "url lookup failed, using semantic search", "url", url, "error", err)
		}
		if len(found) > 0 {
			return found, nil
		}
	}

	return s.semantic(ctx, query, topK)
}

func (s *Service) byURL(ctx context.Context, url string) ([]article.Article, error) {
	ctx, span := tracer.Start(ctx, "agent.ByURL")
	defer span.End()

	// The filter decides the match, so the vector content is irrelevant.
	vec, err := s.embedder.Embed(ctx, urlPlaceholder)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Query(ctx, index.QueryRequest{
		Vector: vec,
		TopK:   1,
		Filter: &index.Filter{URL: url},
	})
	if err != nil {
		return nil, err
	}

	return toArticles(matches), nil
}

func (s *Service) semantic(ctx context.Context, query string, topK int) ([]article.Article, error) {
	ctx, span := tracer.Start(ctx, "agent.Semantic")
	defer span.End()

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Query(ctx, index.QueryRequest{
		Vector: vec,
		TopK:   topK,
	})
	if err != nil {
		return nil, err
	}

	return toArticles(matches), nil
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "agent.Generate")
	defer span.End()

	return s.generator.Generate(ctx, prompt)
}

func (s *Service) failed(ctx context.Context, span trace.Span, detail string, err error) article.AgentResponse {
	slog.ErrorContext(ctx, detail, "error", err)
	span.RecordError(err)
	span.SetStatus(codes.Error, fmt.Sprintf("%s: %v", detail, err))
	return article.AgentResponse{
		Answer:  ErrorAnswer,
		Sources: []article.Source{},
	}
}

func notFound() article.AgentResponse {
	return article.AgentResponse{
		Answer:  NotFoundAnswer,
		Sources: []article.Source{},
	}
}

func toArticles(matches []index.Match) []article.Article {
	articles := make([]article.Article, 0, len(matches))
	for _, m := range matches {
		articles = append(articles, m.Metadata)
	}
	return articles
}

func New(
	embedder embedder.Embedder,
	index index.Index,
	generator generator.Generator,
	topK int,
) *Service {
	if embedder == nil {
		panic("embedder is required")
	}

	if index == nil {
		panic("index is required")
	}

	if generator == nil {
		panic("generator is required")
	}

	if topK <= 0 {
		topK = defaultTopK
	}

	return &Service{
		embedder:  embedder,
		index:     index,
		generator: generator,
		topK:      topK,
	}
}
