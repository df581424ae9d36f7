package campaign

import (
	"fmt"
	"strings"
	"time"

	"p2p-lending-backend/pkg/money"
)

type Status string

const (
	StatusDraft       Status = "DRAFT"
	StatusRunning     Status = "RUNNING"
	StatusFunded      Status = "FUNDED"
	StatusDisbursed   Status = "DISBURSED"
	StatusInRepayment Status = "IN_REPAYMENT"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusDraft, StatusRunning, StatusFunded, StatusDisbursed,
		StatusInRepayment, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown campaign status %q", s)
}

type Campaign struct {
	ID string `gorm:"type:char(36);primaryKey"`
	// nil for campaigns created without a borrow request
	BorrowRequestID    *string        `gorm:"type:char(36);uniqueIndex"`
	TitlePublic        string         `gorm:"size:200;not null"`
	StoryPublic        string         `gorm:"type:text"`
	TermsPublic        string         `gorm:"type:text"`
	Category           string         `gorm:"size:64"`
	AmountNeededCents  int64          `gorm:"not null"`
	AmountPooledCents  int64          `gorm:"not null"`
	ExpectedReturnDays int            `gorm:"not null"`
	ExpectedReturnDate time.Time      `gorm:"type:date"`
	Currency           money.Currency `gorm:"type:char(3);not null"`
	Status             Status         `gorm:"size:32;not null;index"`
	Verified           bool           `gorm:"not null"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
}

func (Campaign) TableName() string { return "campaigns" }

func (c *Campaign) ProgressPct() int {
	return money.FundingProgressPct(c.AmountPooledCents, c.AmountNeededCents)
}

// ExpectedReturnDate is the explicit date when given, otherwise the
// calendar date of base plus days. Computed once at creation.
func ExpectedReturnDate(explicit *time.Time, base time.Time, days int) time.Time {
	if explicit != nil {
		return truncateDate(*explicit)
	}
	return truncateDate(base).AddDate(0, 0, days)
}

func truncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
