package repayment

import (
	"time"

	domain "p2p-lending-backend/internal/domain/repayment"
	"p2p-lending-backend/pkg/id"
)

// DefaultReturnURL is used when a borrower does not pass one.
const DefaultReturnURL = "https://example.invalid/return"

type ScheduleItemDTO struct {
	ID          string `json:"id"`
	DueDate     string `json:"dueDate"`
	AmountCents int64  `json:"amountCents"`
	Status      string `json:"status"`
}

type TotalsDTO struct {
	ScheduledCents int64 `json:"scheduledCents"`
	PaidCents      int64 `json:"paidCents"`
	RemainingCents int64 `json:"remainingCents"`
}

// OverviewDTO is the borrower's "my repayments" page. BorrowRequestID is
// empty when the user has no borrow request yet.
type OverviewDTO struct {
	BorrowRequestID string            `json:"borrowRequestId,omitempty"`
	Status          string            `json:"status,omitempty"`
	Currency        string            `json:"currency,omitempty"`
	Schedule        []ScheduleItemDTO `json:"schedule"`
	Totals          TotalsDTO         `json:"totals"`
}

type PayInput struct {
	BorrowRequestID string
	AmountCents     int64
	ReturnURL       string
}

type SetupInput struct {
	BorrowRequestID string
	ReturnURL       string
}

type CheckoutDTO struct {
	Provider    string `json:"provider"`
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
	PaymentID   string `json:"paymentId,omitempty"`
	SetupID     string `json:"setupId,omitempty"`
}

func toScheduleDTOs(items []domain.ScheduleItem) []ScheduleItemDTO {
	out := make([]ScheduleItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ScheduleItemDTO{
			ID:          id.Prefixed(id.PrefixScheduleItem, it.ID),
			DueDate:     it.DueDate.Format(time.DateOnly),
			AmountCents: it.AmountCents,
			Status:      string(it.Status),
		})
	}
	return out
}

func toTotalsDTO(t domain.Totals) TotalsDTO {
	return TotalsDTO{ScheduledCents: t.ScheduledCents, PaidCents: t.PaidCents, RemainingCents: t.RemainingCents}
}
