//go:build s3example
// +build s3example

// This file provides an example S3Publisher implementation.
// It is excluded from regular builds because it requires the AWS SDK.
//
// To use this in your project, copy this file and add the AWS SDK:
//   go get github.com/aws/aws-sdk-go-v2
//   go get github.com/aws/aws-sdk-go-v2/config
//   go get github.com/aws/aws-sdk-go-v2/service/s3

package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Publisher publishes manifest artifacts to AWS S3, typically for
// preview deploys served through CloudFront.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	s3Client := s3.NewFromConfig(cfg)
//	pub := export.NewS3Publisher(s3Client, "my-bucket", "previews/pr-123/")
//
//	files, err := export.Export(ctx, manifests, pub)
type S3Publisher struct {
	client       *s3.Client
	bucket       string
	prefix       string
	cacheControl string
}

// NewS3Publisher creates a new S3 publisher.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: Key prefix for artifacts (e.g., "previews/pr-123/")
func NewS3Publisher(client *s3.Client, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		client:       client,
		bucket:       bucket,
		prefix:       prefix,
		cacheControl: "no-cache",
	}
}

// WithCacheControl sets the Cache-Control header stored on published
// objects. Manifests change on every route edit, so the default is
// "no-cache".
func (p *S3Publisher) WithCacheControl(v string) *S3Publisher {
	p.cacheControl = v
	return p
}

// Publish uploads one artifact to S3.
func (p *S3Publisher) Publish(ctx context.Context, name, contentType string, body []byte) error {
	key := p.prefix + name

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(p.cacheControl),
		Metadata: map[string]string{
			"published-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 publish failed: %w", err)
	}

	return nil
}

// Prune removes objects under the prefix that are not in keep. Call it
// after Export to drop artifacts left over from earlier layouts.
func (p *S3Publisher) Prune(ctx context.Context, keep []string) error {
	keepKeys := make(map[string]bool, len(keep))
	for _, name := range keep {
		keepKeys[p.prefix+name] = true
	}

	// List objects with prefix
	paginator := s3.NewListObjectsV2Paginator(p.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(p.bucket),
		Prefix: aws.String(p.prefix),
	})

	var toDelete []string

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}

		for _, obj := range page.Contents {
			if obj.Key != nil && !keepKeys[*obj.Key] {
				toDelete = append(toDelete, *obj.Key)
			}
		}
	}

	// Delete stale objects
	for _, key := range toDelete {
		p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(p.bucket),
			Key:    aws.String(key),
		})
	}

	return nil
}
