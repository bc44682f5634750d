package mirror

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// OSSMirror uploads artifacts to an Alibaba Cloud OSS bucket. Offered
// alongside S3Mirror so a studio already running its ASR/forced-alignment
// infrastructure in a Chinese cloud region is not forced to round-trip
// artifacts through AWS.
type OSSMirror struct {
	client *oss.Client
	bucket string
	prefix string
}

// NewOSSMirror builds an OSS client from static credentials, matching the
// retrieval pack's own OSS wiring convention.
func NewOSSMirror(accessKeyID, accessKeySecret, bucket, prefix, region string) *OSSMirror {
	credProvider := credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret)
	cfg := oss.LoadDefaultConfig().WithCredentialsProvider(credProvider).WithRegion(region)
	return &OSSMirror{client: oss.NewClient(cfg), bucket: bucket, prefix: prefix}
}

func (m *OSSMirror) Name() string { return "oss" }

func (m *OSSMirror) Put(ctx context.Context, key string, data []byte) error {
	fullKey := key
	if m.prefix != "" {
		fullKey = m.prefix + "/" + key
	}
	req := &oss.PutObjectRequest{
		Bucket: oss.Ptr(m.bucket),
		Key:    oss.Ptr(fullKey),
		Body:   bytes.NewReader(data),
	}
	if _, err := m.client.PutObject(ctx, req); err != nil {
		return fmt.Errorf("oss put %s: %w", fullKey, err)
	}
	return nil
}
