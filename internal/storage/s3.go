package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"ecolabs/internal/utils"
	"ecolabs/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage handles document uploads to S3. Objects are keyed by a nanoid
// prefix so repeated uploads of the same filename never collide.
type Storage struct {
	client *s3.Client
	bucket string
	region string
}

func New(client *s3.Client, bucket, region string) *Storage {
	return &Storage{
		client: client,
		bucket: bucket,
		region: region,
	}
}

// Upload stores a file and returns the metadata persisted alongside the
// owning bid or report.
func (s *Storage) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*types.FileMeta, error) {

	key := utils.NanoID() + "/" + path.Base(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &types.FileMeta{
		URL:          s.PublicURL(key),
		Name:         key,
		Type:         contentType,
		OriginalName: path.Base(filename),
	}, nil
}

// Delete removes a stored object. The argument may be either the
// object key or the full public URL.
func (s *Storage) Delete(ctx context.Context, keyOrURL string) error {

	key := s.keyFromURL(keyOrURL)
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *Storage) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *Storage) keyFromURL(keyOrURL string) string {
	trimmed := strings.TrimSpace(keyOrURL)
	if trimmed == "" {
		return ""
	}

	if !strings.Contains(trimmed, "://") {
		return trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	return strings.TrimPrefix(parsed.Path, "/")
}
