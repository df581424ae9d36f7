package ledger

import (
	"context"
	"time"

	"p2p-lending-backend/pkg/money"
)

type EntryType string

const (
	EntryDisbursement EntryType = "DISBURSEMENT"
	EntryDefaultCover EntryType = "DEFAULT_COVER"
	EntryReturn       EntryType = "RETURN"
)

// Entry is an append-only platform money movement.
type Entry struct {
	ID              string         `gorm:"type:char(36);primaryKey"`
	Type            EntryType      `gorm:"size:32;not null"`
	AmountCents     int64          `gorm:"not null"`
	Currency        money.Currency `gorm:"type:char(3);not null"`
	CampaignID      *string        `gorm:"type:char(36);index"`
	BorrowRequestID *string        `gorm:"type:char(36);index"`
	ContributionID  *string        `gorm:"type:char(36);index"`
	Memo            string         `gorm:"size:255"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

func (Entry) TableName() string { return "platform_ledger" }

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByCampaign(ctx context.Context, campaignID string) ([]Entry, error)
}
