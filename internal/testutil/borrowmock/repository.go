package borrowmock

import (
	"context"

	domain "p2p-lending-backend/internal/domain/borrow"
)

var (
	_ domain.Repository         = (*Repo)(nil)
	_ domain.DocumentRepository = (*DocumentRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, br *domain.BorrowRequest) error
	GetByIDFn           func(ctx context.Context, id string) (*domain.BorrowRequest, error)
	GetByIDForUpdateFn  func(ctx context.Context, id string) (*domain.BorrowRequest, error)
	GetOwnedFn          func(ctx context.Context, id, requesterID string) (*domain.BorrowRequest, error)
	LatestByRequesterFn func(ctx context.Context, requesterID string) (*domain.BorrowRequest, error)
	ListByRequesterFn   func(ctx context.Context, requesterID string) ([]domain.BorrowRequest, error)
	SaveFn              func(ctx context.Context, br *domain.BorrowRequest) error
}

func (m *Repo) Create(ctx context.Context, br *domain.BorrowRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, br)
	}
	return nil
}
func (m *Repo) GetByID(ctx context.Context, id string) (*domain.BorrowRequest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.BorrowRequest, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetOwned(ctx context.Context, id, requesterID string) (*domain.BorrowRequest, error) {
	if m.GetOwnedFn != nil {
		return m.GetOwnedFn(ctx, id, requesterID)
	}
	return nil, context.Canceled
}
func (m *Repo) LatestByRequester(ctx context.Context, requesterID string) (*domain.BorrowRequest, error) {
	if m.LatestByRequesterFn != nil {
		return m.LatestByRequesterFn(ctx, requesterID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByRequester(ctx context.Context, requesterID string) ([]domain.BorrowRequest, error) {
	if m.ListByRequesterFn != nil {
		return m.ListByRequesterFn(ctx, requesterID)
	}
	return nil, nil
}
func (m *Repo) Save(ctx context.Context, br *domain.BorrowRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, br)
	}
	return nil
}

// DocumentRepo is a function-backed mock that satisfies domain.DocumentRepository.
type DocumentRepo struct {
	CreateBatchFn         func(ctx context.Context, docs []domain.Document) error
	ListByBorrowRequestFn func(ctx context.Context, borrowRequestID string) ([]domain.Document, error)
	ListByIDsFn           func(ctx context.Context, borrowRequestID string, ids []string) ([]domain.Document, error)
	MarkConfirmedFn       func(ctx context.Context, borrowRequestID string, ids []string) (int64, error)
}

func (m *DocumentRepo) CreateBatch(ctx context.Context, docs []domain.Document) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, docs)
	}
	return nil
}
func (m *DocumentRepo) ListByBorrowRequest(ctx context.Context, borrowRequestID string) ([]domain.Document, error) {
	if m.ListByBorrowRequestFn != nil {
		return m.ListByBorrowRequestFn(ctx, borrowRequestID)
	}
	return nil, nil
}
func (m *DocumentRepo) ListByIDs(ctx context.Context, borrowRequestID string, ids []string) ([]domain.Document, error) {
	if m.ListByIDsFn != nil {
		return m.ListByIDsFn(ctx, borrowRequestID, ids)
	}
	return nil, context.Canceled
}
func (m *DocumentRepo) MarkConfirmed(ctx context.Context, borrowRequestID string, ids []string) (int64, error) {
	if m.MarkConfirmedFn != nil {
		return m.MarkConfirmedFn(ctx, borrowRequestID, ids)
	}
	return 0, context.Canceled
}
