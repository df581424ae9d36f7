package repayment

import "context"

type Repository interface {
	// ListSchedule is ordered by due date.
	ListSchedule(ctx context.Context, borrowRequestID string) ([]ScheduleItem, error)
	CreateSchedule(ctx context.Context, items []ScheduleItem) error

	CreatePayment(ctx context.Context, p *Payment) error
	UpdatePaymentSessionID(ctx context.Context, id, sessionID string) error
	GetPaymentBySessionIDForUpdate(ctx context.Context, sessionID string) (*Payment, error)
	SavePayment(ctx context.Context, p *Payment) error
	SumPaid(ctx context.Context, borrowRequestID string) (int64, error)

	CreateSetup(ctx context.Context, s *Setup) error
}
