package repayment

import (
	"time"

	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/pkg/money"
)

type ItemStatus string

const (
	ItemScheduled ItemStatus = "SCHEDULED"
	ItemPaid      ItemStatus = "PAID"
	ItemLate      ItemStatus = "LATE"
	ItemCancelled ItemStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

var ErrPaymentNotFound = apperr.NotFoundErr("repayment payment not found")

// ScheduleItem is one monthly installment.
type ScheduleItem struct {
	ID              string     `gorm:"type:char(36);primaryKey"`
	BorrowRequestID string     `gorm:"type:char(36);not null;index:idx_schedule_items_request_due,priority:1"`
	DueDate         time.Time  `gorm:"type:date;not null;index:idx_schedule_items_request_due,priority:2"`
	AmountCents     int64      `gorm:"not null"`
	Status          ItemStatus `gorm:"size:32;not null"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
}

func (ScheduleItem) TableName() string { return "repayment_schedule_items" }

// Payment is reconciled against the borrow request's totals, not against
// a particular ScheduleItem.
type Payment struct {
	ID                string         `gorm:"type:char(36);primaryKey"`
	BorrowRequestID   string         `gorm:"type:char(36);not null;index"`
	PayerID           string         `gorm:"size:64;not null"`
	AmountCents       int64          `gorm:"not null"`
	Currency          money.Currency `gorm:"type:char(3);not null"`
	Provider          string         `gorm:"size:32;not null"`
	ProviderSessionID string         `gorm:"size:255;not null;uniqueIndex"`
	Status            PaymentStatus  `gorm:"size:32;not null"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	PaidAt            *time.Time
}

func (Payment) TableName() string { return "repayment_payments" }

// Setup records a provider setup session (saved payment method). Append-only.
type Setup struct {
	ID                string    `gorm:"type:char(36);primaryKey"`
	BorrowRequestID   string    `gorm:"type:char(36);not null;index"`
	UserID            string    `gorm:"size:64;not null"`
	Provider          string    `gorm:"size:32;not null"`
	ProviderSessionID string    `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}

func (Setup) TableName() string { return "repayment_setups" }

// Totals of a borrow request's repayment obligation.
type Totals struct {
	ScheduledCents int64
	PaidCents      int64
	RemainingCents int64
}

// ComputeTotals measures remaining against the schedule, not the requested amount.
func ComputeTotals(items []ScheduleItem, paidCents int64) Totals {
	var scheduled int64
	for _, it := range items {
		scheduled += it.AmountCents
	}
	remaining := scheduled - paidCents
	if remaining < 0 {
		remaining = 0
	}
	return Totals{ScheduledCents: scheduled, PaidCents: paidCents, RemainingCents: remaining}
}
