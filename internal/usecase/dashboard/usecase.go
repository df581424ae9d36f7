package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/contribution"
)

type Usecase struct {
	requests      borrow.Repository
	campaigns     campaign.Repository
	contributions contribution.Repository
	log           *slog.Logger
}

func NewUsecase(requests borrow.Repository, campaigns campaign.Repository, contributions contribution.Repository) *Usecase {
	return &Usecase{requests: requests, campaigns: campaigns, contributions: contributions, log: slog.Default()}
}

func (u *Usecase) SetLogger(l *slog.Logger) {
	if l != nil {
		u.log = l
	}
}

// ForUser returns the caller's contributions with their campaigns and the
// caller's borrow requests, both newest first. Lists are never nil.
func (u *Usecase) ForUser(ctx context.Context, userID string) (*DashboardDTO, error) {
	ctbs, err := u.contributions.ListByContributor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ctbs))
	seen := make(map[string]struct{}, len(ctbs))
	for _, c := range ctbs {
		if _, ok := seen[c.CampaignID]; !ok {
			seen[c.CampaignID] = struct{}{}
			ids = append(ids, c.CampaignID)
		}
	}
	campaigns, err := u.campaigns.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*campaign.Campaign, len(campaigns))
	for i := range campaigns {
		byID[campaigns[i].ID] = &campaigns[i]
	}

	out := &DashboardDTO{
		SupportByCampaign: make([]SupportDTO, 0, len(ctbs)),
		BorrowRequests:    []BorrowDTO{},
	}
	for i := range ctbs {
		ctb := &ctbs[i]
		c, ok := byID[ctb.CampaignID]
		if !ok {
			return nil, fmt.Errorf("dashboard: campaign %s of contribution %s: %w", ctb.CampaignID, ctb.ID, campaign.ErrNotFound)
		}
		switch ctb.Status {
		case contribution.StatusPaid:
			out.SupportSummary.TotalSupportedCents += ctb.AmountCents
			if c.Status != campaign.StatusCompleted {
				out.SupportSummary.ActiveSupportedCents += ctb.AmountCents
			}
		case contribution.StatusReturned:
			out.SupportSummary.ReturnedCents += ctb.AmountCents
		}
		out.SupportByCampaign = append(out.SupportByCampaign, toSupportDTO(ctb, c))
	}

	requests, err := u.requests.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		out.BorrowRequests = append(out.BorrowRequests, toBorrowDTO(&requests[i]))
	}

	u.log.Debug("dashboard built", "user_id", userID, "contributions", len(ctbs), "borrow_requests", len(requests))
	return out, nil
}
