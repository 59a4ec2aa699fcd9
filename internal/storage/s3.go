package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"cloudlab-go/internal/types"
)

const contentTypeText = "text/plain; charset=utf-8"

// S3 writes transcript artifacts and lists buckets.
type S3 struct {
	api s3iface.S3API
}

func NewS3(api s3iface.S3API) *S3 {
	return &S3{api: api}
}

// PutText stores body as a new UTF-8 text object and returns its s3:// URI.
func (s *S3) PutText(ctx context.Context, bucket, key, body string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("storage: bucket and key are required")
	}
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          strings.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentTypeText),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// ListBuckets returns every bucket owned by the caller's account.
func (s *S3) ListBuckets(ctx context.Context) ([]types.Bucket, error) {
	out, err := s.api.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	buckets := make([]types.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, types.Bucket{
			Name:      aws.StringValue(b.Name),
			CreatedAt: b.CreationDate,
		})
	}
	return buckets, nil
}

// BucketNames is the plain name list the lab prints.
func BucketNames(buckets []types.Bucket) []string {
	names := make([]string, len(buckets))
	for i, b := range buckets {
		names[i] = b.Name
	}
	return names
}
