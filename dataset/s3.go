package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

func parseS3Location(location string) (string, string, bool) {
	if !strings.HasPrefix(location, s3Scheme) {
		return "", "", false
	}

	bucket, key, found := strings.Cut(strings.TrimPrefix(location, s3Scheme), "/")
	if !found || len(bucket) == 0 || len(key) == 0 {
		return "", "", false
	}

	return bucket, key, true
}

func openS3(ctx context.Context, options Options, bucket string, key string) (io.ReadCloser, error) {
	getter := options.Objects
	if getter == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(options.Region))
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		getter = s3.NewFromConfig(cfg)
	}

	rsp, err := getter.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}

	return rsp.Body, nil
}
