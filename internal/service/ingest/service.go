package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/w-h-a/newsagent/article"
	"github.com/w-h-a/newsagent/embedder"
	"github.com/w-h-a/newsagent/fetcher"
	"github.com/w-h-a/newsagent/index"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultBatchSize = 10
	unknownSource    = "Unknown Source"
)

var (
	ErrIngestionItem = errors.New("article ingestion failed")
)

var tracer = otel.Tracer("github.com/w-h-a/newsagent/internal/service/ingest")

type Report struct {
	Batches  int
	Upserted int
	Failed   int
}

// Message is the streaming payload. Source carries the article title.
type Message struct {
	URL    string `json:"URL"`
	Source string `json:"Source"`
}

type Service struct {
	embedder  embedder.Embedder
	index     index.Index
	fetcher   fetcher.Fetcher
	batchSize int
	now       func() time.Time
}

// Ingest embeds and stores articles in sequential batches. A failing article
// is logged and skipped, and a failing batch never stops the next one.
func (s *Service) Ingest(ctx context.Context, articles []article.Article) Report {
	var report Report

	for start := 0; start < len(articles); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "bulk ingestion stopped", "remaining", len(articles)-start, "error", err)
			break
		}

		end := min(start+s.batchSize, len(articles))

		upserted, failed := s.ingestBatch(ctx, report.Batches, articles[start:end])

		report.Batches++
		report.Upserted += upserted
		report.Failed += failed
	}

	slog.InfoContext(ctx, "bulk ingestion finished", "batches", report.Batches, "upserted", report.Upserted, "failed", report.Failed)

	return report
}

func (s *Service) ingestBatch(ctx context.Context, n int, batch []article.Article) (int, int) {
	ctx, span := tracer.Start(ctx, "ingest.Batch")
	defer span.End()

	span.SetAttributes(attribute.Int("batch.number", n), attribute.Int("batch.size", len(batch)))

	records := make([]index.Record, 0, len(batch))
	failed := 0

	for _, a := range batch {
		rec, err := s.toRecord(ctx, a)
		if err != nil {
			slog.ErrorContext(ctx, "failed to embed article", "url", a.URL, "error", err)
			failed++
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return 0, failed
	}

	if err := s.index.Upsert(ctx, records); err != nil {
		slog.ErrorContext(ctx, "failed to upsert batch", "batch", n, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, failed + len(records)
	}

	return len(records), failed
}

// HandleMessage ingests one streamed article. Errors are returned for the
// consumer to log; the message is acknowledged either way.
func (s *Service) HandleMessage(ctx context.Context, message []byte) error {
	ctx, span := tracer.Start(ctx, "ingest.HandleMessage")
	defer span.End()

	err := s.handleMessage(ctx, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (s *Service) handleMessage(ctx context.Context, message []byte) error {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		return fmt.Errorf("%w: invalid message: %v", ErrIngestionItem, err)
	}

	url := strings.TrimSpace(msg.URL)
	if len(url) == 0 {
		return fmt.Errorf("%w: message has no URL", ErrIngestionItem)
	}

	title := strings.TrimSpace(msg.Source)
	if len(title) == 0 {
		title = unknownSource
	}

	result := s.fetcher.Fetch(ctx, url)
	if !result.OK() {
		slog.WarnContext(ctx, "storing article without content", "url", url, "error", result.Err)
	}

	a := article.Article{
		Title:   title,
		Content: result.Text,
		URL:     url,
		Date:    s.now().UTC().Format(time.RFC3339),
	}

	rec, err := s.toRecord(ctx, a)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIngestionItem, url, err)
	}

	if err := s.index.Upsert(ctx, []index.Record{rec}); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIngestionItem, url, err)
	}

	slog.InfoContext(ctx, "ingested streamed article", "url", url, "title", title)

	return nil
}

func (s *Service) toRecord(ctx context.Context, a article.Article) (index.Record, error) {
	vec, err := s.embedder.Embed(ctx, article.EmbeddingText(a))
	if err != nil {
		return index.Record{}, err
	}

	return index.Record{
		Id:        article.RecordID(a.URL),
		Embedding: vec,
		Metadata:  a,
	}, nil
}

func New(
	embedder embedder.Embedder,
	index index.Index,
	fetcher fetcher.Fetcher,
	batchSize int,
) *Service {
	if embedder == nil {
		panic("embedder is required")
	}

	if index == nil {
		panic("index is required")
	}

	if fetcher == nil {
		panic("fetcher is required")
	}

	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &Service{
		embedder:  embedder,
		index:     index,
		fetcher:   fetcher,
		batchSize: batchSize,
		now:       time.Now,
	}
}
