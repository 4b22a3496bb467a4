package sitegen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// S3API is the subset of the S3 client the publisher uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads generated artifacts to the CDN bucket.
type Publisher struct {
	client S3API
	bucket string
	logger *logging.Logger
}

// NewPublisher creates a publisher, or nil when no bucket is configured.
func NewPublisher(client S3API, bucket string, logger *logging.Logger) *Publisher {
	if client == nil || bucket == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{client: client, bucket: bucket, logger: logger}
}

// PublishFile uploads one local file under key with the given content type.
// Missing files are skipped with a warning so publish can run after a
// partial pipeline (e.g. sitemap only).
func (p *Publisher) PublishFile(ctx context.Context, path, key, contentType string) error {
	if p == nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			p.logger.Warn("artifact missing; skipping upload", "path", path)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%w: upload %s: %v", ErrWriteFailed, key, err)
	}

	p.logger.Info("artifact uploaded", "bucket", p.bucket, "key", key)
	return nil
}

// PublishAll uploads the standard artifact set from dir plus the HTML shell.
func (p *Publisher) PublishAll(ctx context.Context, dir, sitemapPath, shellPath string) error {
	if p == nil {
		return nil
	}

	uploads := []struct {
		path, key, contentType string
	}{
		{filepath.Join(dir, DataFileName), DataFileName, "application/json"},
		{sitemapPath, "sitemap.xml", "application/xml"},
		{shellPath, "index.html", "text/html; charset=utf-8"},
	}
	for _, u := range uploads {
		if err := p.PublishFile(ctx, u.path, u.key, u.contentType); err != nil {
			return err
		}
	}
	return nil
}
