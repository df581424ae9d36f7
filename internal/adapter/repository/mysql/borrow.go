package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/borrow"

	"gorm.io/gorm"
)

type BorrowRequestRepository struct{ db *gorm.DB }

func NewBorrowRequestRepository(db *gorm.DB) *BorrowRequestRepository {
	return &BorrowRequestRepository{db: db}
}

func (r *BorrowRequestRepository) Create(ctx context.Context, br *borrow.BorrowRequest) error {
	return r.db.WithContext(ctx).Create(br).Error
}

func (r *BorrowRequestRepository) Save(ctx context.Context, br *borrow.BorrowRequest) error {
	return r.db.WithContext(ctx).Save(br).Error
}

func (r *BorrowRequestRepository) GetByID(ctx context.Context, id string) (*borrow.BorrowRequest, error) {
	return first[borrow.BorrowRequest](r.db.WithContext(ctx).Where("id = ?", id), borrow.ErrNotFound)
}

func (r *BorrowRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (*borrow.BorrowRequest, error) {
	return first[borrow.BorrowRequest](forUpdate(r.db.WithContext(ctx)).Where("id = ?", id), borrow.ErrNotFound)
}

func (r *BorrowRequestRepository) GetOwned(ctx context.Context, id, requesterID string) (*borrow.BorrowRequest, error) {
	q := r.db.WithContext(ctx).Where("id = ? AND requester_id = ?", id, requesterID)
	return first[borrow.BorrowRequest](q, borrow.ErrNotFound)
}

func (r *BorrowRequestRepository) LatestByRequester(ctx context.Context, requesterID string) (*borrow.BorrowRequest, error) {
	q := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC, id DESC")
	return first[borrow.BorrowRequest](q, borrow.ErrNotFound)
}

func (r *BorrowRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]borrow.BorrowRequest, error) {
	var out []borrow.BorrowRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) CreateBatch(ctx context.Context, docs []borrow.Document) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&docs).Error
}

func (r *DocumentRepository) ListByBorrowRequest(ctx context.Context, borrowRequestID string) ([]borrow.Document, error) {
	var out []borrow.Document
	err := r.db.WithContext(ctx).
		Where("borrow_request_id = ?", borrowRequestID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *DocumentRepository) ListByIDs(ctx context.Context, borrowRequestID string, ids []string) ([]borrow.Document, error) {
	var out []borrow.Document
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Where("borrow_request_id = ? AND id IN ?", borrowRequestID, ids).
		Find(&out).Error
	return out, err
}

func (r *DocumentRepository) MarkConfirmed(ctx context.Context, borrowRequestID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&borrow.Document{}).
		Where("borrow_request_id = ? AND id IN ?", borrowRequestID, ids).
		Update("status", borrow.DocumentConfirmed)
	return res.RowsAffected, res.Error
}
