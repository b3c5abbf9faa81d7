package index

import (
	"context"
	"time"
)

const (
	DefaultDimension  = 768
	DefaultCollection = "news-articles"
)

type Option func(*Options)

type Options struct {
	Location      string
	ApiKey        string
	Collection    string
	Dimension     int
	ReadyAttempts int
	ReadyInterval time.Duration
	Context       context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithCollection(collection string) Option {
	return func(o *Options) {
		o.Collection = collection
	}
}

// WithDimension sets the vector length every record and query must have.
// Zero disables the check.
func WithDimension(dimension int) Option {
	return func(o *Options) {
		o.Dimension = dimension
	}
}

// WithReadiness bounds how long a freshly created remote index is polled.
func WithReadiness(attempts int, interval time.Duration) Option {
	return func(o *Options) {
		o.ReadyAttempts = attempts
		o.ReadyInterval = interval
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Collection:    DefaultCollection,
		Dimension:     DefaultDimension,
		ReadyAttempts: 30,
		ReadyInterval: 2 * time.Second,
		Context:       context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
