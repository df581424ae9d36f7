package repayment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mysqlrepo "p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/domain/payment"
	domain "p2p-lending-backend/internal/domain/repayment"
	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/internal/testutil/paymentmock"
	"p2p-lending-backend/internal/testutil/testdb"
	"p2p-lending-backend/pkg/id"

	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	requests *mysqlrepo.BorrowRequestRepository
	provider *paymentmock.Provider
	uc       *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	requests := mysqlrepo.NewBorrowRequestRepository(db)
	provider := &paymentmock.Provider{}
	uc := NewUsecase(requests, mysqlrepo.NewRepaymentRepository(db), mysqlrepo.NewGormUoW(db), provider)
	uc.now = func() time.Time { return time.Date(2025, 1, 31, 15, 30, 0, 0, time.UTC) }
	return &fixture{db: db, requests: requests, provider: provider, uc: uc}
}

func (f *fixture) seed(t *testing.T, owner string, amount int64, days int, status borrow.Status) *borrow.BorrowRequest {
	t.Helper()
	br := &borrow.BorrowRequest{
		ID:                   id.New(),
		RequesterID:          owner,
		Title:                "Delivery bike",
		Category:             "business",
		AmountRequestedCents: amount,
		Currency:             "EUR",
		ExpectedReturnDays:   days,
		Status:               status,
	}
	if err := f.requests.Create(context.Background(), br); err != nil {
		t.Fatalf("seed borrow request: %v", err)
	}
	return br
}

func ref(br *borrow.BorrowRequest) string { return id.Prefixed(id.PrefixBorrowRequest, br.ID) }

func TestUsecase_GenerateSchedule(t *testing.T) {
	f := newFixture(t)
	br := f.seed(t, "owner", 10000, 45, borrow.StatusDisbursed)

	items, err := f.uc.GenerateSchedule(context.Background(), ref(br))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 installments, got %d", len(items))
	}
	if items[0].AmountCents != 5000 || items[1].AmountCents != 5000 {
		t.Fatalf("amounts = %d, %d", items[0].AmountCents, items[1].AmountCents)
	}
	// Jan 31 + 1 month clamps to Feb 28
	if items[0].DueDate != "2025-02-28" || items[1].DueDate != "2025-03-31" {
		t.Fatalf("due dates = %s, %s", items[0].DueDate, items[1].DueDate)
	}

	again, err := f.uc.GenerateSchedule(context.Background(), ref(br))
	if err != nil {
		t.Fatalf("generate again: %v", err)
	}
	if len(again) != len(items) {
		t.Fatalf("schedule duplicated: %d items", len(again))
	}
	for i := range items {
		if again[i].ID != items[i].ID {
			t.Fatalf("item %d changed: %s != %s", i, again[i].ID, items[i].ID)
		}
	}
}

func TestUsecase_GenerateSchedule_SumsExactly(t *testing.T) {
	tests := []struct {
		amount int64
		days   int
		want   int
	}{
		{amount: 10001, days: 90, want: 3},
		{amount: 7, days: 365, want: 13},
		{amount: 500, days: 0, want: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("%d cents over %d days", tt.amount, tt.days), func(t *testing.T) {
			f := newFixture(t)
			br := f.seed(t, "owner", tt.amount, tt.days, borrow.StatusDisbursed)
			items, err := f.uc.GenerateSchedule(context.Background(), ref(br))
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			var sum int64
			for _, it := range items {
				sum += it.AmountCents
			}
			if len(items) != tt.want || sum != tt.amount {
				t.Fatalf("items=%d sum=%d, want items=%d sum=%d", len(items), sum, tt.want, tt.amount)
			}
		})
	}
}

func TestUsecase_GenerateSchedule_Errors(t *testing.T) {
	f := newFixture(t)
	if _, err := f.uc.GenerateSchedule(context.Background(), "br_not-a-uuid"); apperr.KindOf(err) != apperr.Invalid {
		t.Fatalf("malformed id: want invalid, got %v", err)
	}
	missing := id.Prefixed(id.PrefixBorrowRequest, id.New())
	if _, err := f.uc.GenerateSchedule(context.Background(), missing); !errors.Is(err, borrow.ErrNotFound) {
		t.Fatalf("unknown id: want not found, got %v", err)
	}
}

func TestUsecase_Overview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.uc.Overview(ctx, "nobody", "")
	if err != nil {
		t.Fatalf("overview without requests: %v", err)
	}
	if empty.BorrowRequestID != "" || len(empty.Schedule) != 0 || empty.Totals.ScheduledCents != 0 {
		t.Fatalf("empty overview mismatch: %+v", empty)
	}

	br := f.seed(t, "owner", 9000, 60, borrow.StatusDisbursed)
	got, err := f.uc.Overview(ctx, "owner", "")
	if err != nil {
		t.Fatalf("overview latest: %v", err)
	}
	if got.BorrowRequestID != ref(br) || len(got.Schedule) != 2 || got.Totals.RemainingCents != 9000 {
		t.Fatalf("overview mismatch: %+v", got)
	}

	if _, err := f.uc.Overview(ctx, "intruder", ref(br)); !errors.Is(err, borrow.ErrNotFound) {
		t.Fatalf("foreign overview: want not found, got %v", err)
	}
}

func TestUsecase_RepaymentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	br := f.seed(t, "owner", 10000, 45, borrow.StatusDisbursed)

	linked := br.ID
	c := &campaign.Campaign{
		ID:                 id.New(),
		BorrowRequestID:    &linked,
		TitlePublic:        "Delivery bike",
		AmountNeededCents:  10000,
		AmountPooledCents:  10000,
		ExpectedReturnDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Currency:           "EUR",
		Status:             campaign.StatusDisbursed,
		Verified:           true,
	}
	campaigns := mysqlrepo.NewCampaignRepository(f.db)
	if err := campaigns.Create(ctx, c); err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	if _, err := f.uc.GenerateSchedule(ctx, ref(br)); err != nil {
		t.Fatalf("generate: %v", err)
	}

	pay := func(amount int64) payment.Event {
		t.Helper()
		dto, err := f.uc.Pay(ctx, "owner", PayInput{BorrowRequestID: ref(br), AmountCents: amount})
		if err != nil {
			t.Fatalf("pay: %v", err)
		}
		req := f.provider.Last()
		if req.SuccessURL != DefaultReturnURL || req.Metadata.Kind != payment.KindRepaymentPayment {
			t.Fatalf("checkout request mismatch: %+v", req)
		}
		return payment.Event{
			Type:      payment.EventCheckoutSessionCompleted,
			SessionID: dto.SessionID,
			Metadata:  payment.MetadataFromMap(req.Metadata.Map()),
		}
	}

	first := pay(5000)
	out, err := f.uc.HandleRepaymentWebhook(ctx, first)
	if err != nil || out != payment.OutcomeApplied {
		t.Fatalf("first webhook: outcome=%s err=%v", out, err)
	}
	got, _ := f.requests.GetByID(ctx, br.ID)
	if got.Status != borrow.StatusInRepayment {
		t.Fatalf("after first payment status = %s", got.Status)
	}
	if gotCampaign, _ := campaigns.GetByID(ctx, c.ID); gotCampaign.Status != campaign.StatusInRepayment {
		t.Fatalf("after first payment campaign status = %s", gotCampaign.Status)
	}
	totals, err := f.uc.Totals(ctx, ref(br))
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.PaidCents != 5000 || totals.RemainingCents != 5000 {
		t.Fatalf("totals = %+v", totals)
	}

	// duplicate delivery
	out, err = f.uc.HandleRepaymentWebhook(ctx, first)
	if err != nil || out != payment.OutcomeAlreadyFinal {
		t.Fatalf("duplicate webhook: outcome=%s err=%v", out, err)
	}

	second := pay(5000)
	if _, err := f.uc.HandleRepaymentWebhook(ctx, second); err != nil {
		t.Fatalf("second webhook: %v", err)
	}
	got, _ = f.requests.GetByID(ctx, br.ID)
	if got.Status != borrow.StatusCompleted {
		t.Fatalf("after full repayment status = %s", got.Status)
	}
	gotCampaign, _ := campaigns.GetByID(ctx, c.ID)
	if gotCampaign.Status != campaign.StatusCompleted {
		t.Fatalf("campaign status = %s", gotCampaign.Status)
	}
	totals, _ = f.uc.Totals(ctx, ref(br))
	if totals.RemainingCents != 0 || totals.PaidCents != 10000 {
		t.Fatalf("final totals = %+v", totals)
	}
}

func TestUsecase_HandleRepaymentWebhook_NoOps(t *testing.T) {
	f := newFixture(t)
	base := payment.Event{
		Type:      payment.EventCheckoutSessionCompleted,
		SessionID: "cs_unknown",
		Metadata:  payment.SessionMetadata{Kind: payment.KindRepaymentPayment},
	}
	contributionKind := base
	contributionKind.Metadata.Kind = payment.KindContribution
	setupKind := base
	setupKind.Metadata.Kind = payment.KindRepaymentSetup
	otherType := base
	otherType.Type = "checkout.session.expired"

	tests := []struct {
		name string
		ev   payment.Event
		want payment.Outcome
	}{
		{name: "unknown session", ev: base, want: payment.OutcomeUnknownRef},
		{name: "contribution metadata", ev: contributionKind, want: payment.OutcomeIgnored},
		{name: "setup metadata", ev: setupKind, want: payment.OutcomeIgnored},
		{name: "other event type", ev: otherType, want: payment.OutcomeIgnored},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out, err := f.uc.HandleRepaymentWebhook(context.Background(), tt.ev)
			if err != nil || out != tt.want {
				t.Fatalf("want %s, got %s (err %v)", tt.want, out, err)
			}
		})
	}
}

func TestUsecase_Pay_Errors(t *testing.T) {
	f := newFixture(t)
	br := f.seed(t, "owner", 1000, 30, borrow.StatusDisbursed)

	if _, err := f.uc.Pay(context.Background(), "owner", PayInput{BorrowRequestID: ref(br)}); apperr.KindOf(err) != apperr.Invalid {
		t.Fatalf("zero amount: want invalid, got %v", err)
	}
	if _, err := f.uc.Pay(context.Background(), "intruder", PayInput{BorrowRequestID: ref(br), AmountCents: 10}); !errors.Is(err, borrow.ErrNotFound) {
		t.Fatalf("foreign: want not found, got %v", err)
	}

	f.provider.CreateFn = func(ctx context.Context, req payment.CheckoutRequest) (payment.Session, error) {
		return payment.Session{}, errors.New("provider down")
	}
	if _, err := f.uc.Pay(context.Background(), "owner", PayInput{BorrowRequestID: ref(br), AmountCents: 10}); apperr.KindOf(err) != apperr.External {
		t.Fatalf("provider failure: want external, got %v", err)
	}
	var pending []domain.Payment
	f.db.Where("borrow_request_id = ?", br.ID).Find(&pending)
	if len(pending) != 1 || pending[0].Status != domain.PaymentPending {
		t.Fatalf("pending payment should persist: %+v", pending)
	}
}

func TestUsecase_Setup(t *testing.T) {
	f := newFixture(t)
	br := f.seed(t, "owner", 1000, 30, borrow.StatusDisbursed)

	dto, err := f.uc.Setup(context.Background(), "owner", SetupInput{BorrowRequestID: ref(br), ReturnURL: "https://app.test/back"})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	req := f.provider.Last()
	if req.Mode != payment.ModeSetup || len(req.LineItems) != 0 || req.SuccessURL != "https://app.test/back" {
		t.Fatalf("setup request mismatch: %+v", req)
	}
	if dto.SetupID == "" || dto.CheckoutURL == "" {
		t.Fatalf("setup dto mismatch: %+v", dto)
	}
	var rows []domain.Setup
	f.db.Where("borrow_request_id = ?", br.ID).Find(&rows)
	if len(rows) != 1 || rows[0].ProviderSessionID != dto.SessionID {
		t.Fatalf("setup row mismatch: %+v", rows)
	}
}
