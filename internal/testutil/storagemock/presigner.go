package storagemock

import (
	"context"

	"p2p-lending-backend/internal/domain/storage"
)

var _ storage.Presigner = (*Presigner)(nil)

// Presigner is a function-backed mock; without PresignFn it returns
// "https://upload.example.test/{key}".
type Presigner struct {
	PresignFn     func(ctx context.Context, key, contentType string) (string, error)
	IsPlaceholder bool
	Keys          []string
}

func (p *Presigner) Name() string {
	if p.IsPlaceholder {
		return "placeholder"
	}
	return "mock"
}

func (p *Presigner) Placeholder() bool { return p.IsPlaceholder }

func (p *Presigner) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	p.Keys = append(p.Keys, key)
	if p.PresignFn != nil {
		return p.PresignFn(ctx, key, contentType)
	}
	return "https://upload.example.test/" + key, nil
}
