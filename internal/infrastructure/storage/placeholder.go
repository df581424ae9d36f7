package storage

import (
	"context"
	"net/url"

	"p2p-lending-backend/internal/domain/storage"
)

var _ storage.Presigner = Placeholder{}

// PlaceholderBaseURL is never a real upload target.
const PlaceholderBaseURL = "https://example.invalid/presign/"

// Placeholder stands in for S3 in development. Its URLs are deterministic.
type Placeholder struct{}

func (Placeholder) Name() string      { return "placeholder" }
func (Placeholder) Placeholder() bool { return true }

func (Placeholder) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	return PlaceholderBaseURL + (&url.URL{Path: key}).EscapedPath(), nil
}
