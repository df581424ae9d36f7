package campaign

import (
	"time"

	domain "p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/pkg/id"
)

type CampaignDTO struct {
	ID                 string    `json:"id"`
	BorrowRequestID    *string   `json:"borrowRequestId,omitempty"`
	TitlePublic        string    `json:"titlePublic"`
	StoryPublic        string    `json:"storyPublic"`
	TermsPublic        string    `json:"termsPublic"`
	Category           string    `json:"category"`
	AmountNeededCents  int64     `json:"amountNeededCents"`
	AmountPooledCents  int64     `json:"amountPooledCents"`
	ProgressPct        int       `json:"progressPct"`
	ExpectedReturnDays int       `json:"expectedReturnDays"`
	ExpectedReturnDate string    `json:"expectedReturnDate"`
	Currency           string    `json:"currency"`
	Status             string    `json:"status"`
	Verified           bool      `json:"verified"`
	CreatedAt          time.Time `json:"createdAt"`
}

func ToDTO(c *domain.Campaign) CampaignDTO {
	return CampaignDTO{
		ID:                 id.Prefixed(id.PrefixCampaign, c.ID),
		BorrowRequestID:    id.PrefixedPtr(id.PrefixBorrowRequest, c.BorrowRequestID),
		TitlePublic:        c.TitlePublic,
		StoryPublic:        c.StoryPublic,
		TermsPublic:        c.TermsPublic,
		Category:           c.Category,
		AmountNeededCents:  c.AmountNeededCents,
		AmountPooledCents:  c.AmountPooledCents,
		ProgressPct:        c.ProgressPct(),
		ExpectedReturnDays: c.ExpectedReturnDays,
		ExpectedReturnDate: c.ExpectedReturnDate.Format(time.DateOnly),
		Currency:           string(c.Currency),
		Status:             string(c.Status),
		Verified:           c.Verified,
		CreatedAt:          c.CreatedAt,
	}
}

// CreateInput is a staff campaign without a borrow request.
type CreateInput struct {
	TitlePublic        string
	StoryPublic        string
	TermsPublic        string
	Category           string
	AmountNeededCents  int64
	ExpectedReturnDays int
	ExpectedReturnDate *time.Time
	Currency           string
	Status             string // defaults to DRAFT
	Verified           bool
}

type DisbursementDTO struct {
	BorrowRequestID     string `json:"borrowRequestId"`
	CampaignID          string `json:"campaignId"`
	AmountCents         int64  `json:"amountCents"`
	Currency            string `json:"currency"`
	LedgerEntryID       string `json:"ledgerEntryId"`
	BorrowRequestStatus string `json:"borrowRequestStatus"`
	CampaignStatus      string `json:"campaignStatus"`
}
