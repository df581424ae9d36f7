package dashboard

import (
	"time"

	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/contribution"
	"p2p-lending-backend/pkg/id"
)

// DashboardDTO is a user's view of their own lending and borrowing.
type DashboardDTO struct {
	SupportSummary    SupportSummaryDTO `json:"supportSummary"`
	SupportByCampaign []SupportDTO      `json:"supportByCampaign"`
	BorrowRequests    []BorrowDTO       `json:"borrowRequests"`
}

// SupportSummaryDTO totals contributions by outcome. Active counts PAID
// contributions whose campaign is not COMPLETED yet.
type SupportSummaryDTO struct {
	TotalSupportedCents  int64 `json:"totalSupportedCents"`
	ActiveSupportedCents int64 `json:"activeSupportedCents"`
	ReturnedCents        int64 `json:"returnedCents"`
}

type SupportDTO struct {
	ContributionID     string `json:"contributionId"`
	CampaignID         string `json:"campaignId"`
	CampaignTitle      string `json:"campaignTitle"`
	AmountCents        int64  `json:"amountCents"`
	Currency           string `json:"currency"`
	ContributionStatus string `json:"contributionStatus"`
	CampaignStatus     string `json:"campaignStatus"`
	ProgressPct        int    `json:"progressPct"`
	ExpectedReturnDate string `json:"expectedReturnDate"`
}

type BorrowDTO struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	AmountRequestedCents int64     `json:"amountRequestedCents"`
	Currency             string    `json:"currency"`
	Status               string    `json:"status"`
	ExpectedReturnDays   int       `json:"expectedReturnDays"`
	CreatedAt            time.Time `json:"createdAt"`
}

func toSupportDTO(ctb *contribution.Contribution, c *campaign.Campaign) SupportDTO {
	return SupportDTO{
		ContributionID:     id.Prefixed(id.PrefixContribution, ctb.ID),
		CampaignID:         id.Prefixed(id.PrefixCampaign, c.ID),
		CampaignTitle:      c.TitlePublic,
		AmountCents:        ctb.AmountCents,
		Currency:           string(ctb.Currency),
		ContributionStatus: string(ctb.Status),
		CampaignStatus:     string(c.Status),
		ProgressPct:        c.ProgressPct(),
		ExpectedReturnDate: c.ExpectedReturnDate.Format(time.DateOnly),
	}
}

func toBorrowDTO(br *borrow.BorrowRequest) BorrowDTO {
	return BorrowDTO{
		ID:                   id.Prefixed(id.PrefixBorrowRequest, br.ID),
		Title:                br.Title,
		AmountRequestedCents: br.AmountRequestedCents,
		Currency:             string(br.Currency),
		Status:               string(br.Status),
		ExpectedReturnDays:   br.ExpectedReturnDays,
		CreatedAt:            br.CreatedAt,
	}
}
