package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Service uploads feature images to Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	region   string
}

func NewS3Service(client *s3.Client, region string) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		region:   region,
	}
}

// UploadImage streams the image body to the bucket under a random key and
// returns the object's public URL.
func (s *S3Service) UploadImage(ctx context.Context, body io.Reader, filename string, opts UploadOptions) (string, error) {
	if opts.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	ext := strings.ToLower(path.Ext(filename))
	key := uuid.NewString() + ext
	if opts.KeyPrefix != "" {
		key = strings.TrimSuffix(opts.KeyPrefix, "/") + "/" + key
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(opts.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("upload image %s: %w", key, err)
	}

	return s.objectURL(opts, key), nil
}

func (s *S3Service) objectURL(opts UploadOptions, key string) string {
	if opts.PublicBaseURL != "" {
		base := strings.TrimSuffix(opts.PublicBaseURL, "/")
		return base + "/" + escapeKey(key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", opts.Bucket, s.region, escapeKey(key))
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
