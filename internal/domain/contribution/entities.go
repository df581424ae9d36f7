package contribution

import (
	"time"

	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/pkg/money"
)

type Status string

const (
	StatusPledged        Status = "PLEDGED"
	StatusPaid           Status = "PAID"
	StatusReturned       Status = "RETURNED"
	StatusDefaultCovered Status = "DEFAULT_COVERED"
)

var ErrNotFound = apperr.NotFoundErr("contribution not found")

type Contribution struct {
	ID            string         `gorm:"type:char(36);primaryKey"`
	CampaignID    string         `gorm:"type:char(36);not null;index:idx_contributions_campaign_status,priority:1"`
	ContributorID string         `gorm:"size:64;not null;index"`
	AmountCents   int64          `gorm:"not null"`
	Currency      money.Currency `gorm:"type:char(3);not null"`
	Status        Status         `gorm:"size:32;not null;index:idx_contributions_campaign_status,priority:2"`
	Provider      string         `gorm:"size:32;not null"`
	// webhook idempotency key
	ProviderSessionID string     `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
	PaidAt            *time.Time
	ReturnedAt        *time.Time
}

func (Contribution) TableName() string { return "contributions" }
