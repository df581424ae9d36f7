package borrow

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domain "p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/shared/apperr"
	ucCampaign "p2p-lending-backend/internal/usecase/campaign"
	"p2p-lending-backend/pkg/id"
	"p2p-lending-backend/pkg/money"
)

type Usecase struct {
	requests domain.Repository
	uow      uow.UnitOfWork
	now      func() time.Time
	log      *slog.Logger
}

func NewUsecase(requests domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{requests: requests, uow: tx, now: time.Now, log: slog.Default()}
}

func (u *Usecase) SetLogger(l *slog.Logger) {
	if l != nil {
		u.log = l
	}
}

func parseBorrowRequestRef(ref string) (string, error) {
	brID, ok := id.ParseRef(id.PrefixBorrowRequest, ref)
	if !ok {
		return "", apperr.FieldErr("borrowRequestId", "malformed borrow request id")
	}
	return brID, nil
}

func (u *Usecase) Create(ctx context.Context, requesterID string, in CreateInput) (*BorrowRequestDTO, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "is required"
	}
	if in.AmountRequestedCents <= 0 {
		fields["amountRequestedCents"] = "amountRequestedCents must be greater than 0"
	}
	if in.ExpectedReturnDays < 0 {
		fields["expectedReturnDays"] = "must be greater than or equal to 0"
	}
	cur := money.EUR
	if in.Currency != "" {
		c, err := money.ParseCurrency(in.Currency)
		if err != nil {
			fields["currency"] = "unsupported currency"
		}
		cur = c
	}
	if len(fields) > 0 {
		return nil, apperr.InvalidErr("validation failed", fields)
	}

	br := &domain.BorrowRequest{
		ID:                   id.New(),
		RequesterID:          requesterID,
		Title:                strings.TrimSpace(in.Title),
		Category:             strings.TrimSpace(in.Category),
		Reason:               in.Reason,
		AmountRequestedCents: in.AmountRequestedCents,
		Currency:             cur,
		ExpectedReturnDays:   in.ExpectedReturnDays,
		Status:               domain.StatusSubmitted,
	}
	if err := u.requests.Create(ctx, br); err != nil {
		return nil, err
	}
	u.log.Info("borrow request submitted", "borrow_request_id", br.ID, "amount_cents", br.AmountRequestedCents)
	return toDTO(br), nil
}

// GetOwned is the requester's view; foreign requests are reported as missing.
func (u *Usecase) GetOwned(ctx context.Context, requesterID, ref string) (*BorrowRequestDTO, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return nil, err
	}
	br, err := u.requests.GetOwned(ctx, brID, requesterID)
	if err != nil {
		return nil, err
	}
	return toDTO(br), nil
}

// GetForStaff includes the internal note and the attached documents.
func (u *Usecase) GetForStaff(ctx context.Context, ref string) (*BorrowRequestDTO, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return nil, err
	}
	var dto *BorrowRequestDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		br, err := r.BorrowRequests.GetByID(ctx, brID)
		if err != nil {
			return err
		}
		docs, err := r.Documents.ListByBorrowRequest(ctx, br.ID)
		if err != nil {
			return err
		}
		dto = toDTO(br)
		dto.NoteInternal = br.NoteInternal
		for _, d := range docs {
			dto.Documents = append(dto.Documents, toDocumentDTO(d))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Decide records a staff decision. Any current status may be re-decided and
// the note is overwritten.
func (u *Usecase) Decide(ctx context.Context, ref string, in DecideInput) (*BorrowRequestDTO, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return nil, err
	}
	decision, err := domain.ParseDecision(in.Decision)
	if err != nil {
		return nil, apperr.FieldErr("decision", "must be VERIFY or REJECT")
	}

	var dto *BorrowRequestDTO
	err = u.uow.WithinBorrowRequestTx(ctx, brID, func(r uow.Repos, br *domain.BorrowRequest) error {
		from := br.Status
		br.Status = decision.Status()
		br.NoteInternal = in.Note
		if err := r.BorrowRequests.Save(ctx, br); err != nil {
			return err
		}
		u.log.Info("borrow request decided", "borrow_request_id", br.ID, "from", from, "to", br.Status)
		dto = toDTO(br)
		dto.NoteInternal = br.NoteInternal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// CreateCampaign opens a RUNNING campaign for a VERIFIED borrow request and
// moves the request to CAMPAIGN_CREATED in the same transaction.
func (u *Usecase) CreateCampaign(ctx context.Context, ref string, in CampaignInput) (*ucCampaign.CampaignDTO, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return nil, err
	}
	fields := map[string]string{}
	if in.AmountNeededCents <= 0 {
		fields["amountNeededCents"] = "amountNeededCents must be greater than 0"
	}
	if in.ExpectedReturnDays != nil && *in.ExpectedReturnDays < 0 {
		fields["expectedReturnDays"] = "must be greater than or equal to 0"
	}
	if len(fields) > 0 {
		return nil, apperr.InvalidErr("validation failed", fields)
	}

	var dto ucCampaign.CampaignDTO
	err = u.uow.WithinBorrowRequestTx(ctx, brID, func(r uow.Repos, br *domain.BorrowRequest) error {
		if br.Status != domain.StatusVerified {
			return domain.ErrNotVerified
		}

		days := br.ExpectedReturnDays
		if in.ExpectedReturnDays != nil {
			days = *in.ExpectedReturnDays
		}
		now := u.now().UTC()
		c := &campaign.Campaign{
			ID:                 id.New(),
			BorrowRequestID:    &br.ID,
			TitlePublic:        firstNonEmpty(in.TitlePublic, br.Title),
			StoryPublic:        in.StoryPublic,
			TermsPublic:        in.TermsPublic,
			Category:           firstNonEmpty(in.Category, br.Category),
			AmountNeededCents:  in.AmountNeededCents,
			ExpectedReturnDays: days,
			ExpectedReturnDate: campaign.ExpectedReturnDate(in.ExpectedReturnDate, now, days),
			Currency:           br.Currency,
			Status:             campaign.StatusRunning,
			Verified:           true,
			CreatedAt:          now,
		}
		if err := r.Campaigns.Create(ctx, c); err != nil {
			return err
		}

		br.Status = domain.StatusCampaignCreated
		if err := r.BorrowRequests.Save(ctx, br); err != nil {
			return err
		}
		dto = ucCampaign.ToDTO(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("campaign created", "campaign_id", dto.ID, "borrow_request_id", ref)
	return &dto, nil
}

func firstNonEmpty(v, d string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return d
}
