package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/w-h-a/newsagent/fetcher"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	hiddenElements = "script, style, noscript, template, iframe, svg"
)

type webFetcher struct {
	options fetcher.Options
	client  *http.Client
}

func (f *webFetcher) Fetch(ctx context.Context, rawURL string) fetcher.Result {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return f.fail(ctx, rawURL, fmt.Errorf("invalid url %q", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return f.fail(ctx, rawURL, err)
	}

	req.Header.Set("User-Agent", f.options.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	rsp, err := f.client.Do(req)
	if err != nil {
		return f.fail(ctx, rawURL, err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return f.fail(ctx, rawURL, fmt.Errorf("unexpected status %d", rsp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(rsp.Body, f.options.MaxBytes))
	if err != nil {
		return f.fail(ctx, rawURL, err)
	}

	if mediaType := contentType(rsp.Header.Get("Content-Type"), body); !isText(mediaType) {
		return f.fail(ctx, rawURL, fmt.Errorf("non-text response %q", mediaType))
	}

	if f.options.Mode == fetcher.ModeReadability {
		if text := extractReadable(body, parsed); len(text) > 0 {
			return fetcher.Result{Text: text}
		}
	}

	text, err := ExtractText(bytes.NewReader(body))
	if err != nil {
		return f.fail(ctx, rawURL, err)
	}

	return fetcher.Result{Text: text}
}

// contentType sniffs the body when the server sent no usable header.
func contentType(header string, body []byte) string {
	if mediaType, _, err := mime.ParseMediaType(header); err == nil {
		return mediaType
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(body))
	return mediaType
}

func isText(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/xhtml+xml"
}

func (f *webFetcher) fail(ctx context.Context, rawURL string, err error) fetcher.Result {
	slog.ErrorContext(ctx, "failed to fetch article content", "url", rawURL, "error", err)
	return fetcher.Failed(err)
}

// ExtractText returns the visible body text with whitespace collapsed.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find(hiddenElements).Remove()

	return collapse(doc.Find("body").Text()), nil
}

func extractReadable(body []byte, pageURL *url.URL) string {
	art, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return ""
	}
	return collapse(art.TextContent)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func NewFetcher(opts ...fetcher.Option) fetcher.Fetcher {
	options := fetcher.NewOptions(opts...)

	f := &webFetcher{
		options: options,
		client: &http.Client{
			Timeout:   options.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	return f
}
