package repayment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/payment"
	domain "p2p-lending-backend/internal/domain/repayment"
	"p2p-lending-backend/internal/domain/uow"
	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/pkg/id"
)

type Usecase struct {
	requests   borrow.Repository
	repayments domain.Repository
	uow        uow.UnitOfWork
	provider   payment.Provider
	now        func() time.Time
	log        *slog.Logger
}

func NewUsecase(requests borrow.Repository, repayments domain.Repository, tx uow.UnitOfWork, provider payment.Provider) *Usecase {
	return &Usecase{
		requests:   requests,
		repayments: repayments,
		uow:        tx,
		provider:   provider,
		now:        time.Now,
		log:        slog.Default(),
	}
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

func (u *Usecase) today() time.Time {
	y, m, d := u.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateSchedule returns the borrow request's installments, creating them
// on first call. Concurrent callers serialize on the borrow request row.
func (u *Usecase) GenerateSchedule(ctx context.Context, ref string) ([]ScheduleItemDTO, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return nil, err
	}
	items, err := u.generate(ctx, brID)
	if err != nil {
		return nil, err
	}
	return toScheduleDTOs(items), nil
}

func (u *Usecase) generate(ctx context.Context, brID string) ([]domain.ScheduleItem, error) {
	var items []domain.ScheduleItem
	err := u.uow.WithinBorrowRequestTx(ctx, brID, func(r uow.Repos, br *borrow.BorrowRequest) error {
		existing, err := r.Repayments.ListSchedule(ctx, br.ID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			items = existing
			return nil
		}
		items = domain.BuildSchedule(br.ID, br.AmountRequestedCents, br.ExpectedReturnDays, u.today())
		if err := r.Repayments.CreateSchedule(ctx, items); err != nil {
			return err
		}
		u.log.Info("repayment schedule generated", "borrow_request_id", br.ID, "installments", len(items))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (u *Usecase) Totals(ctx context.Context, ref string) (*TotalsDTO, error) {
	brID, err := parseBorrowRequestRef(ref)
	if err != nil {
		return nil, err
	}
	if _, err := u.requests.GetByID(ctx, brID); err != nil {
		return nil, err
	}
	t, err := u.totals(ctx, brID)
	if err != nil {
		return nil, err
	}
	dto := toTotalsDTO(t)
	return &dto, nil
}

func (u *Usecase) totals(ctx context.Context, brID string) (domain.Totals, error) {
	items, err := u.repayments.ListSchedule(ctx, brID)
	if err != nil {
		return domain.Totals{}, err
	}
	paid, err := u.repayments.SumPaid(ctx, brID)
	if err != nil {
		return domain.Totals{}, err
	}
	return domain.ComputeTotals(items, paid), nil
}

// Overview shows the user's schedule and totals for ref, or for their most
// recent borrow request when ref is empty.
func (u *Usecase) Overview(ctx context.Context, userID, ref string) (*OverviewDTO, error) {
	var (
		br  *borrow.BorrowRequest
		err error
	)
	if strings.TrimSpace(ref) != "" {
		brID, perr := parseBorrowRequestRef(ref)
		if perr != nil {
			return nil, perr
		}
		br, err = u.requests.GetOwned(ctx, brID, userID)
	} else {
		br, err = u.requests.LatestByRequester(ctx, userID)
		if errors.Is(err, borrow.ErrNotFound) {
			return &OverviewDTO{Schedule: []ScheduleItemDTO{}}, nil
		}
	}
	if err != nil {
		return nil, err
	}

	items, err := u.generate(ctx, br.ID)
	if err != nil {
		return nil, err
	}
	paid, err := u.repayments.SumPaid(ctx, br.ID)
	if err != nil {
		return nil, err
	}
	return &OverviewDTO{
		BorrowRequestID: id.Prefixed(id.PrefixBorrowRequest, br.ID),
		Status:          string(br.Status),
		Currency:        string(br.Currency),
		Schedule:        toScheduleDTOs(items),
		Totals:          toTotalsDTO(domain.ComputeTotals(items, paid)),
	}, nil
}

// Pay opens a checkout session for a repayment. The PENDING payment row is
// committed before the provider is called.
func (u *Usecase) Pay(ctx context.Context, userID string, in PayInput) (*CheckoutDTO, error) {
	brID, err := parseBorrowRequestRef(in.BorrowRequestID)
	if err != nil {
		return nil, err
	}
	if in.AmountCents <= 0 {
		return nil, apperr.FieldErr("amountCents", "amountCents must be greater than 0")
	}
	br, err := u.requests.GetOwned(ctx, brID, userID)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		ID:                id.New(),
		BorrowRequestID:   br.ID,
		PayerID:           userID,
		AmountCents:       in.AmountCents,
		Currency:          br.Currency,
		Provider:          u.provider.Name(),
		ProviderSessionID: payment.PendingSessionID(),
		Status:            domain.PaymentPending,
	}
	if err := u.repayments.CreatePayment(ctx, p); err != nil {
		return nil, err
	}

	returnURL := returnURLOrDefault(in.ReturnURL)
	sess, err := u.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Mode:       payment.ModePayment,
		SuccessURL: returnURL,
		CancelURL:  returnURL,
		Currency:   br.Currency,
		LineItems: []payment.LineItem{{
			Name:        "Repayment: " + br.Title,
			AmountCents: in.AmountCents,
			Currency:    br.Currency,
			Quantity:    1,
		}},
		Metadata: payment.SessionMetadata{
			Kind:            payment.KindRepaymentPayment,
			BorrowRequestID: id.Prefixed(id.PrefixBorrowRequest, br.ID),
			UserID:          userID,
		},
	})
	if err != nil {
		u.log.Error("repayment checkout failed", "payment_id", p.ID, "err", err)
		return nil, apperr.ExternalErr("payment provider unavailable", err)
	}
	if err := u.repayments.UpdatePaymentSessionID(ctx, p.ID, sess.ID); err != nil {
		return nil, err
	}

	u.log.Info("repayment checkout opened", "payment_id", p.ID, "borrow_request_id", br.ID, "amount_cents", p.AmountCents)
	return &CheckoutDTO{
		Provider:    u.provider.Name(),
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
		PaymentID:   id.Prefixed(id.PrefixRepaymentPayment, p.ID),
	}, nil
}

// Setup opens a provider session that saves a payment method for later
// repayments.
func (u *Usecase) Setup(ctx context.Context, userID string, in SetupInput) (*CheckoutDTO, error) {
	brID, err := parseBorrowRequestRef(in.BorrowRequestID)
	if err != nil {
		return nil, err
	}
	br, err := u.requests.GetOwned(ctx, brID, userID)
	if err != nil {
		return nil, err
	}

	returnURL := returnURLOrDefault(in.ReturnURL)
	sess, err := u.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Mode:       payment.ModeSetup,
		SuccessURL: returnURL,
		CancelURL:  returnURL,
		Currency:   br.Currency,
		Metadata: payment.SessionMetadata{
			Kind:            payment.KindRepaymentSetup,
			BorrowRequestID: id.Prefixed(id.PrefixBorrowRequest, br.ID),
			UserID:          userID,
		},
	})
	if err != nil {
		u.log.Error("repayment setup failed", "borrow_request_id", br.ID, "err", err)
		return nil, apperr.ExternalErr("payment provider unavailable", err)
	}

	s := &domain.Setup{
		ID:                id.New(),
		BorrowRequestID:   br.ID,
		UserID:            userID,
		Provider:          u.provider.Name(),
		ProviderSessionID: sess.ID,
	}
	if err := u.repayments.CreateSetup(ctx, s); err != nil {
		return nil, err
	}
	return &CheckoutDTO{
		Provider:    u.provider.Name(),
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
		SetupID:     id.Prefixed(id.PrefixRepaymentSetup, s.ID),
	}, nil
}

// HandleRepaymentWebhook applies a completed repayment checkout. Payments
// are matched by provider session id; a payment already PAID is left alone.
func (u *Usecase) HandleRepaymentWebhook(ctx context.Context, ev payment.Event) (payment.Outcome, error) {
	if !ev.CheckoutCompleted() || ev.Metadata.Kind != payment.KindRepaymentPayment || ev.SessionID == "" {
		return payment.OutcomeIgnored, nil
	}

	outcome := payment.OutcomeApplied
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Repayments.GetPaymentBySessionIDForUpdate(ctx, ev.SessionID)
		if errors.Is(err, domain.ErrPaymentNotFound) {
			outcome = payment.OutcomeUnknownRef
			return nil
		}
		if err != nil {
			return err
		}
		if p.Status == domain.PaymentPaid {
			outcome = payment.OutcomeAlreadyFinal
			return nil
		}

		now := u.now().UTC()
		p.Status = domain.PaymentPaid
		p.PaidAt = &now
		if err := r.Repayments.SavePayment(ctx, p); err != nil {
			return err
		}

		br, err := r.BorrowRequests.GetByIDForUpdate(ctx, p.BorrowRequestID)
		if err != nil {
			return err
		}
		from := br.Status
		if br.Status == borrow.StatusDisbursed {
			br.Status = borrow.StatusInRepayment
		}
		paid, err := r.Repayments.SumPaid(ctx, br.ID)
		if err != nil {
			return err
		}
		if paid >= br.AmountRequestedCents {
			br.Status = borrow.StatusCompleted
		}
		if br.Status != from {
			if err := advanceCampaign(ctx, r, br.ID, br.Status); err != nil {
				return err
			}
			if err := r.BorrowRequests.Save(ctx, br); err != nil {
				return err
			}
			u.log.Info("borrow request advanced", "borrow_request_id", br.ID, "from", from, "to", br.Status, "paid_cents", paid)
		}
		return nil
	})
	if err != nil {
		u.log.Error("repayment webhook failed", "session_id", ev.SessionID, "err", err)
		return "", err
	}
	u.log.Info("repayment webhook handled", "session_id", ev.SessionID, "outcome", outcome)
	return outcome, nil
}

// advanceCampaign keeps the linked campaign in step with its borrow request
// during repayment. Requests without a campaign are left alone.
func advanceCampaign(ctx context.Context, r uow.Repos, brID string, brStatus borrow.Status) error {
	var to campaign.Status
	switch brStatus {
	case borrow.StatusInRepayment:
		to = campaign.StatusInRepayment
	case borrow.StatusCompleted:
		to = campaign.StatusCompleted
	default:
		return nil
	}
	c, err := r.Campaigns.GetByBorrowRequestIDForUpdate(ctx, brID)
	if errors.Is(err, campaign.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if c.Status == to {
		return nil
	}
	c.Status = to
	return r.Campaigns.Save(ctx, c)
}

func returnURLOrDefault(v string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return DefaultReturnURL
}
