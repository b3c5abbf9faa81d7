package qdrant

import (
	"context"

	"github.com/w-h-a/newsagent/index"
)

type tlsKey struct{}

// WithTLS dials the gRPC endpoint over TLS, as managed clusters require.
func WithTLS(useTLS bool) index.Option {
	return func(o *index.Options) {
		o.Context = context.WithValue(o.Context, tlsKey{}, useTLS)
	}
}

func TLSFrom(ctx context.Context) (bool, bool) {
	useTLS, ok := ctx.Value(tlsKey{}).(bool)
	return useTLS, ok
}
