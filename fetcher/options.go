package fetcher

import (
	"context"
	"time"
)

type Mode string

const (
	// ModeBody takes the visible text of the whole body.
	ModeBody Mode = "body"
	// ModeReadability extracts the main article text, falling back to ModeBody.
	ModeReadability Mode = "readability"
)

type Option func(*Options)

type Options struct {
	Timeout   time.Duration
	Mode      Mode
	UserAgent string
	MaxBytes  int64
	Context   context.Context
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func WithMode(mode Mode) Option {
	return func(o *Options) {
		o.Mode = mode
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *Options) {
		o.UserAgent = userAgent
	}
}

func WithMaxBytes(maxBytes int64) Option {
	return func(o *Options) {
		o.MaxBytes = maxBytes
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout:   30 * time.Second,
		Mode:      ModeBody,
		UserAgent: "news-article-agent",
		MaxBytes:  10 << 20,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
