package campaign

import (
	"context"
	"errors"

	"p2p-lending-backend/internal/shared/apperr"
)

var (
	ErrNotFound   = apperr.NotFoundErr("campaign not found")
	ErrNotFunded  = apperr.ConflictErr("campaign must be FUNDED to disburse")
	ErrNotRunning = apperr.ConflictErr("campaign is not accepting contributions")
	// ErrOverfunded is an invariant breach: PAID contributions exceed the amount needed.
	ErrOverfunded = errors.New("campaign: pooled amount exceeds amount needed")
)

type Repository interface {
	Create(ctx context.Context, c *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	GetByIDForUpdate(ctx context.Context, id string) (*Campaign, error)
	GetByBorrowRequestIDForUpdate(ctx context.Context, borrowRequestID string) (*Campaign, error)
	ListByStatus(ctx context.Context, status Status, limit int) ([]Campaign, error)
	ListByIDs(ctx context.Context, ids []string) ([]Campaign, error)
	Save(ctx context.Context, c *Campaign) error
}
