package dataset

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the s3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Option func(*Options)

type Options struct {
	Region  string
	Objects ObjectGetter
	Context context.Context
}

func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

// WithObjectGetter overrides the s3 client built from the default aws config.
func WithObjectGetter(getter ObjectGetter) Option {
	return func(o *Options) {
		o.Objects = getter
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Region:  "us-east-1",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
