package contribution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"p2p-lending-backend/internal/domain/campaign"
	domain "p2p-lending-backend/internal/domain/contribution"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/pkg/id"
	"p2p-lending-backend/pkg/money"
)

type Usecase struct {
	campaigns     campaign.Repository
	contributions domain.Repository
	uow           uow.UnitOfWork
	provider      payment.Provider
	now           func() time.Time
	log           *slog.Logger
}

func NewUsecase(campaigns campaign.Repository, contributions domain.Repository, tx uow.UnitOfWork, provider payment.Provider) *Usecase {
	return &Usecase{
		campaigns:     campaigns,
		contributions: contributions,
		uow:           tx,
		provider:      provider,
		now:           time.Now,
		log:           slog.Default(),
	}
}

func (u *Usecase) SetLogger(l *slog.Logger) {
	if l != nil {
		u.log = l
	}
}

// InitiateCheckout pledges amount to a campaign and opens a provider checkout
// session for it. The PLEDGED row is committed before the provider is called
// and stays behind if the call fails.
func (u *Usecase) InitiateCheckout(ctx context.Context, contributorID string, in CheckoutInput) (*CheckoutDTO, error) {
	cid, ok := id.ParseRef(id.PrefixCampaign, in.CampaignID)
	if !ok {
		return nil, apperr.FieldErr("campaignId", "malformed campaign id")
	}
	fields := map[string]string{}
	if in.AmountCents <= 0 {
		fields["amountCents"] = "amountCents must be greater than 0"
	}
	cur := money.EUR
	if in.Currency != "" {
		c, err := money.ParseCurrency(in.Currency)
		if err != nil {
			fields["currency"] = "unsupported currency"
		}
		cur = c
	}
	if strings.TrimSpace(in.SuccessURL) == "" {
		fields["successUrl"] = "is required"
	}
	if strings.TrimSpace(in.CancelURL) == "" {
		fields["cancelUrl"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperr.InvalidErr("validation failed", fields)
	}

	c, err := u.campaigns.GetByID(ctx, cid)
	if err != nil {
		return nil, err
	}
	if c.Status != campaign.StatusRunning {
		return nil, campaign.ErrNotRunning
	}
	if c.Currency != cur {
		return nil, apperr.FieldErr("currency", "must match the campaign currency")
	}
	paid, err := u.contributions.SumPaidByCampaign(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if in.AmountCents > money.Remaining(c.AmountNeededCents, paid) {
		return nil, apperr.FieldErr("amountCents", "amount exceeds remaining")
	}

	ctb := &domain.Contribution{
		ID:                id.New(),
		CampaignID:        c.ID,
		ContributorID:     contributorID,
		AmountCents:       in.AmountCents,
		Currency:          cur,
		Status:            domain.StatusPledged,
		Provider:          u.provider.Name(),
		ProviderSessionID: payment.PendingSessionID(),
	}
	if err := u.contributions.Create(ctx, ctb); err != nil {
		return nil, err
	}

	sess, err := u.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Mode:       payment.ModePayment,
		SuccessURL: in.SuccessURL,
		CancelURL:  in.CancelURL,
		Currency:   cur,
		LineItems: []payment.LineItem{{
			Name:        c.TitlePublic,
			AmountCents: in.AmountCents,
			Currency:    cur,
			Quantity:    1,
		}},
		Metadata: payment.SessionMetadata{
			Kind:           payment.KindContribution,
			ContributionID: id.Prefixed(id.PrefixContribution, ctb.ID),
			CampaignID:     id.Prefixed(id.PrefixCampaign, c.ID),
			UserID:         contributorID,
		},
	})
	if err != nil {
		u.log.Error("checkout session failed", "contribution_id", ctb.ID, "provider", u.provider.Name(), "err", err)
		return nil, apperr.ExternalErr("payment provider unavailable", err)
	}
	if err := u.contributions.UpdateSessionID(ctx, ctb.ID, sess.ID); err != nil {
		return nil, err
	}

	u.log.Info("contribution pledged",
		"contribution_id", ctb.ID, "campaign_id", c.ID, "amount_cents", ctb.AmountCents, "session_id", sess.ID)
	return &CheckoutDTO{
		Provider:       u.provider.Name(),
		SessionID:      sess.ID,
		CheckoutURL:    sess.URL,
		ContributionID: id.Prefixed(id.PrefixContribution, ctb.ID),
	}, nil
}

// HandlePaymentWebhook applies a completed checkout to its contribution. It
// is safe under duplicate and out-of-order delivery: a contribution already
// PAID or RETURNED is left untouched, and the campaign's pooled amount is
// recomputed from PAID rows rather than incremented. A payment that no
// longer fits the campaign is marked RETURNED and booked in the ledger for
// refund; pooled never exceeds needed.
func (u *Usecase) HandlePaymentWebhook(ctx context.Context, ev payment.Event) (payment.Outcome, error) {
	if !ev.CheckoutCompleted() || ev.Metadata.Kind != payment.KindContribution {
		return payment.OutcomeIgnored, nil
	}
	if ev.Metadata.ContributionID == "" {
		return payment.OutcomeIgnored, nil
	}
	ctbID, ok := id.ParseRef(id.PrefixContribution, ev.Metadata.ContributionID)
	if !ok {
		u.log.Warn("webhook contribution id malformed", "value", ev.Metadata.ContributionID, "session_id", ev.SessionID)
		return payment.OutcomeIgnored, nil
	}

	outcome := payment.OutcomeApplied
	err := u.uow.WithinContributionTx(ctx, ctbID, func(r uow.Repos, ctb *domain.Contribution) error {
		if ctb.Status != domain.StatusPledged {
			outcome = payment.OutcomeAlreadyFinal
			return nil
		}
		if ev.SessionID != "" {
			ctb.ProviderSessionID = ev.SessionID
		}

		c, err := r.Campaigns.GetByIDForUpdate(ctx, ctb.CampaignID)
		if err != nil {
			return err
		}
		paid, err := r.Contributions.SumPaidByCampaign(ctx, c.ID)
		if err != nil {
			return err
		}
		now := u.now().UTC()
		if paid+ctb.AmountCents > c.AmountNeededCents {
			outcome = payment.OutcomeReturned
			return u.bookReturn(ctx, r, ctb, c, paid, now)
		}

		ctb.Status = domain.StatusPaid
		ctb.PaidAt = &now
		if err := r.Contributions.Save(ctx, ctb); err != nil {
			return err
		}
		pooled, err := r.Contributions.SumPaidByCampaign(ctx, c.ID)
		if err != nil {
			return err
		}
		if pooled > c.AmountNeededCents {
			return fmt.Errorf("%w: campaign %s pooled %d needed %d", campaign.ErrOverfunded, c.ID, pooled, c.AmountNeededCents)
		}
		c.AmountPooledCents = pooled
		if pooled >= c.AmountNeededCents && (c.Status == campaign.StatusRunning || c.Status == campaign.StatusDraft) {
			c.Status = campaign.StatusFunded
		}
		return r.Campaigns.Save(ctx, c)
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		u.log.Warn("webhook contribution not found", "contribution_id", ctbID, "session_id", ev.SessionID)
		return payment.OutcomeUnknownRef, nil
	default:
		u.log.Error("payment webhook failed", "contribution_id", ctbID, "session_id", ev.SessionID, "err", err)
		return "", err
	}

	u.log.Info("payment webhook handled", "contribution_id", ctbID, "session_id", ev.SessionID, "outcome", outcome)
	return outcome, nil
}

// bookReturn marks a captured payment that would overfund the campaign as
// RETURNED and appends a RETURN ledger entry for the refund.
func (u *Usecase) bookReturn(ctx context.Context, r uow.Repos, ctb *domain.Contribution, c *campaign.Campaign, paid int64, now time.Time) error {
	ctb.Status = domain.StatusReturned
	ctb.ReturnedAt = &now
	if err := r.Contributions.Save(ctx, ctb); err != nil {
		return err
	}
	campaignID, contributionID := c.ID, ctb.ID
	entry := &ledger.Entry{
		ID:             id.New(),
		Type:           ledger.EntryReturn,
		AmountCents:    ctb.AmountCents,
		Currency:       ctb.Currency,
		CampaignID:     &campaignID,
		ContributionID: &contributionID,
		Memo:           fmt.Sprintf("overfunding: pooled %d needed %d", paid, c.AmountNeededCents),
	}
	if err := r.Ledger.Append(ctx, entry); err != nil {
		return err
	}
	u.log.Error("contribution returned: campaign has no room left",
		"contribution_id", ctb.ID, "campaign_id", c.ID, "amount_cents", ctb.AmountCents,
		"pooled_cents", paid, "needed_cents", c.AmountNeededCents, "session_id", ctb.ProviderSessionID)
	return nil
}
