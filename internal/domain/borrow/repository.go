package borrow

import (
	"context"

	"p2p-lending-backend/internal/shared/apperr"
)

var (
	ErrNotFound         = apperr.NotFoundErr("borrow request not found")
	ErrNotVerified      = apperr.ConflictErr("borrow request must be VERIFIED to create a campaign")
	ErrInvalidDocuments = apperr.InvalidErr("invalid documents", map[string]string{"documentIds": "must all belong to this borrow request"})
)

type Repository interface {
	Create(ctx context.Context, br *BorrowRequest) error
	GetByID(ctx context.Context, id string) (*BorrowRequest, error)
	// row lock, only valid inside a transaction
	GetByIDForUpdate(ctx context.Context, id string) (*BorrowRequest, error)
	// GetOwned returns ErrNotFound for both missing and foreign requests.
	GetOwned(ctx context.Context, id, requesterID string) (*BorrowRequest, error)
	LatestByRequester(ctx context.Context, requesterID string) (*BorrowRequest, error)
	// ListByRequester is ordered newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]BorrowRequest, error)
	Save(ctx context.Context, br *BorrowRequest) error
}

type DocumentRepository interface {
	CreateBatch(ctx context.Context, docs []Document) error
	ListByBorrowRequest(ctx context.Context, borrowRequestID string) ([]Document, error)
	// ListByIDs only returns documents of borrowRequestID.
	ListByIDs(ctx context.Context, borrowRequestID string, ids []string) ([]Document, error)
	MarkConfirmed(ctx context.Context, borrowRequestID string, ids []string) (int64, error)
}
