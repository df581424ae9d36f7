package campaign

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"p2p-lending-backend/internal/domain/borrow"
	domain "p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/ledger"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/pkg/id"
	"p2p-lending-backend/pkg/money"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Usecase struct {
	campaigns domain.Repository
	uow       uow.UnitOfWork
	now       func() time.Time
	log       *slog.Logger
}

func NewUsecase(campaigns domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{campaigns: campaigns, uow: tx, now: time.Now, log: slog.Default()}
}

func (u *Usecase) SetLogger(l *slog.Logger) {
	if l != nil {
		u.log = l
	}
}

func (u *Usecase) Get(ctx context.Context, campaignRef string) (*CampaignDTO, error) {
	cid, ok := id.ParseRef(id.PrefixCampaign, campaignRef)
	if !ok {
		return nil, apperr.FieldErr("campaignId", "malformed campaign id")
	}
	c, err := u.campaigns.GetByID(ctx, cid)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(c)
	return &dto, nil
}

// ListPublic lists RUNNING (default) or COMPLETED campaigns, newest first.
func (u *Usecase) ListPublic(ctx context.Context, status string, limit int) ([]CampaignDTO, error) {
	st := domain.StatusRunning
	if strings.TrimSpace(status) != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil || (parsed != domain.StatusRunning && parsed != domain.StatusCompleted) {
			return nil, apperr.FieldErr("status", "must be RUNNING or COMPLETED")
		}
		st = parsed
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	rows, err := u.campaigns.ListByStatus(ctx, st, limit)
	if err != nil {
		return nil, err
	}
	out := make([]CampaignDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i]))
	}
	return out, nil
}

// Create adds a campaign that is not backed by a borrow request.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*CampaignDTO, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.TitlePublic) == "" {
		fields["titlePublic"] = "is required"
	}
	if in.AmountNeededCents <= 0 {
		fields["amountNeededCents"] = "amountNeededCents must be greater than 0"
	}
	if in.ExpectedReturnDays < 0 {
		fields["expectedReturnDays"] = "must be greater than or equal to 0"
	}
	cur, err := money.ParseCurrency(defaultString(in.Currency, string(money.EUR)))
	if err != nil {
		fields["currency"] = "unsupported currency"
	}
	status := domain.StatusDraft
	if in.Status != "" {
		if status, err = domain.ParseStatus(in.Status); err != nil {
			fields["status"] = "unknown status"
		}
	}
	if len(fields) > 0 {
		return nil, apperr.InvalidErr("validation failed", fields)
	}

	now := u.now().UTC()
	c := &domain.Campaign{
		ID:                 id.New(),
		TitlePublic:        strings.TrimSpace(in.TitlePublic),
		StoryPublic:        in.StoryPublic,
		TermsPublic:        in.TermsPublic,
		Category:           in.Category,
		AmountNeededCents:  in.AmountNeededCents,
		ExpectedReturnDays: in.ExpectedReturnDays,
		ExpectedReturnDate: domain.ExpectedReturnDate(in.ExpectedReturnDate, now, in.ExpectedReturnDays),
		Currency:           cur,
		Status:             status,
		Verified:           in.Verified,
		CreatedAt:          now,
	}
	if err := u.campaigns.Create(ctx, c); err != nil {
		return nil, err
	}
	dto := ToDTO(c)
	return &dto, nil
}

// Disburse pays out a FUNDED campaign to its borrower and records the
// movement in the platform ledger.
func (u *Usecase) Disburse(ctx context.Context, borrowRequestRef string) (*DisbursementDTO, error) {
	brID, ok := id.ParseRef(id.PrefixBorrowRequest, borrowRequestRef)
	if !ok {
		return nil, apperr.FieldErr("borrowRequestId", "malformed borrow request id")
	}

	var dto *DisbursementDTO
	err := u.uow.WithinBorrowRequestTx(ctx, brID, func(r uow.Repos, br *borrow.BorrowRequest) error {
		c, err := r.Campaigns.GetByBorrowRequestIDForUpdate(ctx, br.ID)
		if err != nil {
			return err
		}
		if c.Status != domain.StatusFunded {
			return domain.ErrNotFunded
		}

		c.Status = domain.StatusDisbursed
		if err := r.Campaigns.Save(ctx, c); err != nil {
			return err
		}
		br.Status = borrow.StatusDisbursed
		if err := r.BorrowRequests.Save(ctx, br); err != nil {
			return err
		}
		entry := &ledger.Entry{
			ID:              id.New(),
			Type:            ledger.EntryDisbursement,
			AmountCents:     c.AmountPooledCents,
			Currency:        c.Currency,
			CampaignID:      &c.ID,
			BorrowRequestID: &br.ID,
			Memo:            "campaign disbursed to borrower",
		}
		if err := r.Ledger.Append(ctx, entry); err != nil {
			return err
		}

		dto = &DisbursementDTO{
			BorrowRequestID:     id.Prefixed(id.PrefixBorrowRequest, br.ID),
			CampaignID:          id.Prefixed(id.PrefixCampaign, c.ID),
			AmountCents:         entry.AmountCents,
			Currency:            string(entry.Currency),
			LedgerEntryID:       entry.ID,
			BorrowRequestStatus: string(br.Status),
			CampaignStatus:      string(c.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("campaign disbursed", "campaign_id", dto.CampaignID, "amount_cents", dto.AmountCents)
	return dto, nil
}

func defaultString(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}
