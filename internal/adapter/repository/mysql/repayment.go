package mysql

import (
	"context"

	"p2p-lending-backend/internal/domain/repayment"

	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository { return &RepaymentRepository{db: db} }

func (r *RepaymentRepository) ListSchedule(ctx context.Context, borrowRequestID string) ([]repayment.ScheduleItem, error) {
	var out []repayment.ScheduleItem
	err := r.db.WithContext(ctx).
		Where("borrow_request_id = ?", borrowRequestID).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *RepaymentRepository) CreateSchedule(ctx context.Context, items []repayment.ScheduleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *RepaymentRepository) CreatePayment(ctx context.Context, p *repayment.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *RepaymentRepository) UpdatePaymentSessionID(ctx context.Context, id, sessionID string) error {
	res := r.db.WithContext(ctx).
		Model(&repayment.Payment{}).
		Where("id = ?", id).
		Update("provider_session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repayment.ErrPaymentNotFound
	}
	return nil
}

func (r *RepaymentRepository) GetPaymentBySessionIDForUpdate(ctx context.Context, sessionID string) (*repayment.Payment, error) {
	q := forUpdate(r.db.WithContext(ctx)).Where("provider_session_id = ?", sessionID)
	return first[repayment.Payment](q, repayment.ErrPaymentNotFound)
}

func (r *RepaymentRepository) SavePayment(ctx context.Context, p *repayment.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *RepaymentRepository) SumPaid(ctx context.Context, borrowRequestID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&repayment.Payment{}).
		Where("borrow_request_id = ? AND status = ?", borrowRequestID, repayment.PaymentPaid).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *RepaymentRepository) CreateSetup(ctx context.Context, s *repayment.Setup) error {
	return r.db.WithContext(ctx).Create(s).Error
}
