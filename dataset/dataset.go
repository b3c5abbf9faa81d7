package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/w-h-a/newsagent/article"
)

var (
	ErrMissingColumn = errors.New("dataset is missing a required column")
)

var requiredColumns = []string{"title", "url", "date"}

// Load reads articles from a local csv file or an s3://bucket/key object.
func Load(ctx context.Context, location string, opts ...Option) ([]article.Article, error) {
	options := NewOptions(opts...)

	var (
		rc  io.ReadCloser
		err error
	)

	if bucket, key, ok := parseS3Location(location); ok {
		rc, err = openS3(ctx, options, bucket, key)
	} else {
		rc, err = os.Open(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", location, err)
	}
	defer rc.Close()

	articles, discarded, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", location, err)
	}

	if discarded > 0 {
		slog.WarnContext(ctx, "discarded incomplete dataset rows", "location", location, "discarded", discarded)
	}

	slog.InfoContext(ctx, "loaded dataset", "location", location, "articles", len(articles))

	return articles, nil
}

// Parse reads a csv with a header row naming title, content, url and date
// in any order. Rows missing a title, url or date are discarded and counted.
func Parse(r io.Reader) ([]article.Article, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, err
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		articles  []article.Article
		discarded int
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		a := article.Article{
			Title:   field(row, "title"),
			Content: field(row, "content"),
			URL:     field(row, "url"),
			Date:    field(row, "date"),
		}

		if len(a.Title) == 0 || len(a.URL) == 0 || len(a.Date) == 0 {
			discarded++
			continue
		}

		articles = append(articles, a)
	}

	return articles, discarded, nil
}
