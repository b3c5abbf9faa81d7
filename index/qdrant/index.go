package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/w-h-a/newsagent/index"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// client is the subset of *qdrant.Client the index uses.
type client interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	CreateFieldIndex(ctx context.Context, request *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	GetCollectionInfo(ctx context.Context, collectionName string) (*qdrant.CollectionInfo, error)
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

type qdrantIndex struct {
	options index.Options
	client  client
}

func (i *qdrantIndex) Upsert(ctx context.Context, records []index.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := index.CheckRecords(i.options.Dimension, records); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, rec := range records {
		points = append(points, toPoint(rec))
	}

	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.options.Collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert: %v", index.ErrIndexUnavailable, err)
	}

	return nil
}

func (i *qdrantIndex) Query(ctx context.Context, req index.QueryRequest) ([]index.Match, error) {
	if req.TopK < 1 {
		return nil, nil
	}

	if err := index.CheckDimension(i.options.Dimension, req.Vector); err != nil {
		return nil, err
	}

	points, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.options.Collection,
		Query:          qdrant.NewQuery(req.Vector...),
		Filter:         toFilter(req.Filter),
		Limit:          qdrant.PtrOf(uint64(req.TopK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", index.ErrIndexUnavailable, err)
	}

	matches := make([]index.Match, 0, len(points))
	for _, point := range points {
		matches = append(matches, toMatch(point))
	}

	return matches, nil
}

func (i *qdrantIndex) Close() error {
	return i.client.Close()
}

func (i *qdrantIndex) configure(ctx context.Context) error {
	exists, err := i.client.CollectionExists(ctx, i.options.Collection)
	if err != nil {
		return fmt.Errorf("%w: collection exists: %v", index.ErrIndexUnavailable, err)
	}

	if !exists {
		err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: i.options.Collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(i.options.Dimension),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil && !alreadyExists(err) {
			return fmt.Errorf("%w: create collection: %v", index.ErrIndexUnavailable, err)
		}
		if err != nil {
			slog.WarnContext(ctx, "collection created concurrently", "collection", i.options.Collection)
		}
	}

	// The url filter needs a keyword index even on collections created elsewhere.
	_, err = i.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: i.options.Collection,
		FieldName:      fieldURL,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil && !alreadyExists(err) {
		return fmt.Errorf("%w: create url index: %v", index.ErrIndexUnavailable, err)
	}

	if exists {
		return nil
	}

	return i.waitReady(ctx)
}

func (i *qdrantIndex) waitReady(ctx context.Context) error {
	for attempt := 1; attempt <= i.options.ReadyAttempts; attempt++ {
		info, err := i.client.GetCollectionInfo(ctx, i.options.Collection)
		if err == nil && info.GetStatus() == qdrant.CollectionStatus_Green {
			return nil
		}

		slog.InfoContext(ctx, "waiting for collection to become ready", "collection", i.options.Collection, "attempt", attempt)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", index.ErrIndexUnavailable, ctx.Err())
		case <-time.After(i.options.ReadyInterval):
		}
	}

	return fmt.Errorf("%w: collection %s not ready after %d attempts", index.ErrIndexUnavailable, i.options.Collection, i.options.ReadyAttempts)
}

func alreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// NewIndex connects to qdrant and creates the collection if needed. Unlike
// the in-memory variant it reports failure so callers can fall back.
func NewIndex(ctx context.Context, opts ...index.Option) (index.Index, error) {
	options := index.NewOptions(opts...)

	host, port, err := parseLocation(options.Location)
	if err != nil {
		return nil, err
	}

	useTLS, _ := TLSFrom(options.Context)

	c, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: options.ApiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", index.ErrIndexUnavailable, err)
	}

	return newIndex(ctx, options, c)
}

func newIndex(ctx context.Context, options index.Options, c client) (index.Index, error) {
	i := &qdrantIndex{
		options: options,
		client:  c,
	}

	if err := i.configure(ctx); err != nil {
		c.Close()
		return nil, err
	}

	return i, nil
}
