package mirror

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Mirror uploads artifacts to an AWS S3 bucket, for the optional
// roomtone-seed / final-master mirroring feature. Neither the pipeline
// runner nor the stages construct one.
type S3Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Mirror loads AWS credentials the standard SDK way (environment,
// shared config, or an assumed role) and returns a Mirror writing under
// bucket/prefix.
func NewS3Mirror(ctx context.Context, bucket, prefix, region string) (*S3Mirror, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Mirror{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

func (m *S3Mirror) Name() string { return "s3" }

func (m *S3Mirror) Put(ctx context.Context, key string, data []byte) error {
	fullKey := key
	if m.prefix != "" {
		fullKey = m.prefix + "/" + key
	}
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(fullKey),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", fullKey, err)
	}
	return nil
}
