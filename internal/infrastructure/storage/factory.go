package storage

import (
	"context"
	"errors"
	"log/slog"

	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/domain/storage"
)

// NewPresigner returns the S3 presigner when the bucket is configured and
// the placeholder otherwise. Production never gets the placeholder.
func NewPresigner(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Presigner, error) {
	if cfg.S3.Configured() {
		p, err := NewS3Presigner(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		log.Info("storage: s3 presigner ready", "bucket", cfg.S3.Bucket, "region", cfg.S3.Region)
		return p, nil
	}
	if cfg.IsProduction() {
		return nil, errors.New("storage: s3 is not configured")
	}
	log.Warn("storage: S3 not configured, using placeholder upload urls", "base_url", PlaceholderBaseURL)
	return Placeholder{}, nil
}
