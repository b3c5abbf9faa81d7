package consumer

import "context"

type Option func(*Options)

type Options struct {
	Brokers  []string
	Topic    string
	GroupId  string
	ClientId string
	Username string
	Password string
	Handler  Handler
	Context  context.Context
}

func WithBrokers(brokers ...string) Option {
	return func(o *Options) {
		o.Brokers = brokers
	}
}

func WithTopic(topic string) Option {
	return func(o *Options) {
		o.Topic = topic
	}
}

func WithGroupId(groupId string) Option {
	return func(o *Options) {
		o.GroupId = groupId
	}
}

func WithClientId(clientId string) Option {
	return func(o *Options) {
		o.ClientId = clientId
	}
}

// WithCredentials enables SASL/PLAIN over TLS.
func WithCredentials(username string, password string) Option {
	return func(o *Options) {
		o.Username = username
		o.Password = password
	}
}

func WithHandler(handler Handler) Option {
	return func(o *Options) {
		o.Handler = handler
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		ClientId: "news-article-agent",
		Context:  context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
