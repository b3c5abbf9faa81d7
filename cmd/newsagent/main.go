package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/newsagent"
	"github.com/w-h-a/newsagent/consumer"
	"github.com/w-h-a/newsagent/consumer/kafka"
	"github.com/w-h-a/newsagent/dataset"
	"github.com/w-h-a/newsagent/embedder"
	googleembedder "github.com/w-h-a/newsagent/embedder/google"
	openaiembedder "github.com/w-h-a/newsagent/embedder/openai"
	"github.com/w-h-a/newsagent/fetcher"
	"github.com/w-h-a/newsagent/fetcher/web"
	"github.com/w-h-a/newsagent/generator"
	anthropicgenerator "github.com/w-h-a/newsagent/generator/anthropic"
	googlegenerator "github.com/w-h-a/newsagent/generator/google"
	openaigenerator "github.com/w-h-a/newsagent/generator/openai"
	"github.com/w-h-a/newsagent/index"
	"github.com/w-h-a/newsagent/index/memory"
	"github.com/w-h-a/newsagent/index/qdrant"
	"github.com/w-h-a/newsagent/server"
	httpserver "github.com/w-h-a/newsagent/server/http"
)

var (
	cfg struct {
		// Embedder config
		Embedder      string `help:"Embedding provider" enum:"google,openai" default:"google" env:"EMBEDDER"`
		EmbedderKey   string `help:"API Key for the embedder" default:"" env:"GOOGLE_API_KEY"`
		EmbedderModel string `help:"Model identifier for embedder" default:"" env:"EMBEDDER_MODEL"`

		// Generator config
		Generator      string `help:"Generation provider" enum:"google,openai,anthropic" default:"google" env:"GENERATOR"`
		GeneratorKey   string `help:"API Key for the generator, defaults to the embedder key" default:"" env:"GENERATOR_API_KEY"`
		GeneratorModel string `help:"Model identifier for generator" default:"" env:"GENERATOR_MODEL"`

		// Index config
		IndexLocation      string        `help:"host:port of the remote vector index, empty for in-memory only" default:"" env:"QDRANT_LOCATION"`
		IndexKey           string        `help:"API Key for the remote vector index" default:"" env:"QDRANT_API_KEY"`
		IndexTLS           bool          `help:"Dial the remote vector index over TLS" default:"false" env:"QDRANT_TLS"`
		IndexName          string        `help:"Name of the vector index" default:"news-articles" env:"INDEX_NAME"`
		IndexDimension     int           `help:"Embedding dimension of the vector index" default:"768" env:"INDEX_DIMENSION"`
		IndexReadyAttempts int           `help:"Readiness polls after creating the remote index" default:"30" env:"INDEX_READY_ATTEMPTS"`
		IndexReadyInterval time.Duration `help:"Delay between readiness polls" default:"2s" env:"INDEX_READY_INTERVAL"`

		// Query config
		TopK int `help:"Number of articles retrieved by semantic search" default:"3" env:"TOP_K"`

		// Ingestion config
		UseCsvFallback  bool          `help:"Bulk load the dataset at startup" default:"false" env:"USE_CSV_FALLBACK"`
		DatasetLocation string        `help:"Path or s3://bucket/key of the csv dataset" default:"data/articles.csv" env:"DATASET_LOCATION"`
		DatasetRegion   string        `help:"AWS region for s3 datasets" default:"us-east-1" env:"AWS_REGION"`
		BatchSize       int           `help:"Articles embedded per bulk batch" default:"10" env:"BATCH_SIZE"`
		FetchTimeout    time.Duration `help:"Timeout for fetching article pages" default:"30s" env:"FETCH_TIMEOUT"`
		FetchMode       string        `help:"Article text extraction mode" enum:"body,readability" default:"body" env:"FETCH_MODE"`

		// Kafka config
		KafkaBroker        []string `help:"Kafka bootstrap brokers" env:"KAFKA_BROKER"`
		KafkaUsername      string   `help:"SASL username, enables SASL/PLAIN over TLS" default:"" env:"KAFKA_USERNAME"`
		KafkaPassword      string   `help:"SASL password" default:"" env:"KAFKA_PASSWORD"`
		KafkaTopicName     string   `help:"Topic carrying article urls" default:"" env:"KAFKA_TOPIC_NAME"`
		KafkaGroupIdPrefix string   `help:"Prefix for the consumer group id" default:"" env:"KAFKA_GROUP_ID_PREFIX"`

		// Server config
		Port      int    `help:"HTTP port" default:"3000" env:"PORT"`
		LogLevel  string `help:"Log level" enum:"debug,info,warn,error" default:"info" env:"LOG_LEVEL"`
		LogFormat string `help:"Log format" enum:"json,text" default:"json" env:"LOG_FORMAT"`
	}
)

func main() {
	// Parse inputs
	_ = godotenv.Load()
	_ = kong.Parse(&cfg, kong.Description("News article question answering agent"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configure logging
	setupLogging()

	// Create models
	emb := newEmbedder()
	gen := newGenerator()

	// Create fetcher
	fetch := web.NewFetcher(
		fetcher.WithTimeout(cfg.FetchTimeout),
		fetcher.WithMode(fetcher.Mode(cfg.FetchMode)),
	)

	// Select index
	selection := index.Select(ctx, newRemoteIndex(), func() index.Index {
		return memory.NewIndex(index.WithDimension(cfg.IndexDimension))
	})
	slog.InfoContext(ctx, "vector index selected", "variant", selection.Variant)

	// Create agent
	a := newsagent.New(emb, gen, fetch, selection, cfg.TopK, cfg.BatchSize)
	defer a.Close()

	// Bulk ingestion
	if cfg.UseCsvFallback {
		go func() {
			articles, err := dataset.Load(ctx, cfg.DatasetLocation, dataset.WithRegion(cfg.DatasetRegion))
			if err != nil {
				slog.ErrorContext(ctx, "failed to load dataset", "error", err)
				return
			}
			a.Ingest(ctx, articles)
		}()
	}

	// Streaming ingestion
	if c := newConsumer(a); c != nil {
		defer c.Close()
		go func() {
			if err := c.Start(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to start kafka consumer", "error", err)
			}
		}()
	}

	// Serve
	srv := httpserver.NewServer(
		a,
		server.WithAddress(fmt.Sprintf(":%d", cfg.Port)),
		httpserver.WithMiddleware(httpserver.LogRequests),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to stop http server", "error", err)
	}
}

func setupLogging() {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	slog.SetDefault(slog.New(handler))
}

func newEmbedder() embedder.Embedder {
	opts := []embedder.Option{
		embedder.WithApiKey(cfg.EmbedderKey),
		embedder.WithModel(cfg.EmbedderModel),
	}

	switch cfg.Embedder {
	case "openai":
		return openaiembedder.NewEmbedder(append(opts, embedder.WithDimensions(cfg.IndexDimension))...)
	default:
		return googleembedder.NewEmbedder(opts...)
	}
}

func newGenerator() generator.Generator {
	key := cfg.GeneratorKey
	if len(key) == 0 {
		key = cfg.EmbedderKey
	}

	opts := []generator.Option{
		generator.WithApiKey(key),
		generator.WithModel(cfg.GeneratorModel),
	}

	switch cfg.Generator {
	case "openai":
		return openaigenerator.NewGenerator(opts...)
	case "anthropic":
		return anthropicgenerator.NewGenerator(opts...)
	default:
		return googlegenerator.NewGenerator(opts...)
	}
}

func newRemoteIndex() func(context.Context) (index.Index, error) {
	if len(cfg.IndexLocation) == 0 {
		return nil
	}

	return func(ctx context.Context) (index.Index, error) {
		return qdrant.NewIndex(
			ctx,
			index.WithLocation(cfg.IndexLocation),
			index.WithApiKey(cfg.IndexKey),
			index.WithCollection(cfg.IndexName),
			index.WithDimension(cfg.IndexDimension),
			index.WithReadiness(cfg.IndexReadyAttempts, cfg.IndexReadyInterval),
			qdrant.WithTLS(cfg.IndexTLS),
		)
	}
}

func newConsumer(a *newsagent.Agent) consumer.Consumer {
	if len(cfg.KafkaBroker) == 0 || len(cfg.KafkaTopicName) == 0 {
		slog.Info("kafka not configured, streaming ingestion disabled")
		return nil
	}

	c, err := kafka.NewConsumer(
		consumer.WithBrokers(cfg.KafkaBroker...),
		consumer.WithTopic(cfg.KafkaTopicName),
		consumer.WithGroupId(cfg.KafkaGroupIdPrefix+"news-consumer"),
		consumer.WithCredentials(cfg.KafkaUsername, cfg.KafkaPassword),
		consumer.WithHandler(consumer.HandlerFunc(a.HandleMessage)),
	)
	if err != nil {
		slog.Error("failed to create kafka consumer", "error", err)
		return nil
	}

	return c
}
