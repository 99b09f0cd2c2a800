package storage

import (
	"context"
	"io"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket        string
	KeyPrefix     string
	PublicBaseURL string
}

// Service stores uploaded feature images in remote object storage and
// returns the URL the content store should keep. Binary data never reaches
// the content store.
type Service interface {
	UploadImage(ctx context.Context, body io.Reader, filename string, opts UploadOptions) (string, error)
}
