package campaign

import (
	"context"
	"errors"
	"testing"
	"time"

	mysqlrepo "p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/domain/borrow"
	domain "p2p-lending-backend/internal/domain/campaign"
	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/internal/testutil/testdb"
	"p2p-lending-backend/pkg/id"

	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	campaigns *mysqlrepo.CampaignRepository
	requests  *mysqlrepo.BorrowRequestRepository
	uc        *Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	campaigns := mysqlrepo.NewCampaignRepository(db)
	uc := NewUsecase(campaigns, mysqlrepo.NewGormUoW(db))
	uc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{db: db, campaigns: campaigns, requests: mysqlrepo.NewBorrowRequestRepository(db), uc: uc}
}

func TestUsecase_Create_Standalone(t *testing.T) {
	f := newFixture(t)

	dto, err := f.uc.Create(context.Background(), CreateInput{
		TitlePublic:        "Community garden",
		AmountNeededCents:  20000,
		ExpectedReturnDays: 30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.BorrowRequestID != nil {
		t.Fatalf("standalone campaign must not be linked, got %v", *dto.BorrowRequestID)
	}
	if dto.Status != string(domain.StatusDraft) || dto.Currency != "EUR" || dto.ProgressPct != 0 {
		t.Fatalf("defaults mismatch: %+v", dto)
	}
	if dto.ExpectedReturnDate != "2025-03-31" {
		t.Fatalf("expected return date = %s", dto.ExpectedReturnDate)
	}

	explicit := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	dto, err = f.uc.Create(context.Background(), CreateInput{
		TitlePublic:        "Explicit date",
		AmountNeededCents:  100,
		ExpectedReturnDate: &explicit,
		Status:             "RUNNING",
	})
	if err != nil {
		t.Fatalf("create explicit: %v", err)
	}
	if dto.ExpectedReturnDate != "2026-01-15" || dto.Status != string(domain.StatusRunning) {
		t.Fatalf("explicit create mismatch: %+v", dto)
	}
}

func TestUsecase_Create_Validation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{name: "no title", in: CreateInput{AmountNeededCents: 1}, field: "titlePublic"},
		{name: "zero amount", in: CreateInput{TitlePublic: "x"}, field: "amountNeededCents"},
		{name: "bad currency", in: CreateInput{TitlePublic: "x", AmountNeededCents: 1, Currency: "JPY"}, field: "currency"},
		{name: "bad status", in: CreateInput{TitlePublic: "x", AmountNeededCents: 1, Status: "LIVE"}, field: "status"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), tt.in)
			ae, ok := apperr.As(err)
			if !ok || ae.Kind != apperr.Invalid {
				t.Fatalf("want invalid, got %v", err)
			}
			if _, ok := ae.Fields[tt.field]; !ok {
				t.Fatalf("want field %s in %v", tt.field, ae.Fields)
			}
		})
	}
}

func TestUsecase_GetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	running, err := f.uc.Create(ctx, CreateInput{TitlePublic: "A", AmountNeededCents: 400, Status: "RUNNING"})
	if err != nil {
		t.Fatalf("create running: %v", err)
	}
	if _, err := f.uc.Create(ctx, CreateInput{TitlePublic: "B", AmountNeededCents: 400}); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	got, err := f.uc.Get(ctx, running.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TitlePublic != "A" {
		t.Fatalf("get mismatch: %+v", got)
	}
	if _, err := f.uc.Get(ctx, "c_not-a-uuid"); apperr.KindOf(err) != apperr.Invalid {
		t.Fatalf("malformed id: want invalid, got %v", err)
	}
	if _, err := f.uc.Get(ctx, id.Prefixed(id.PrefixCampaign, id.New())); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id: want not found, got %v", err)
	}

	list, err := f.uc.ListPublic(ctx, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != running.ID {
		t.Fatalf("public list should only hold the running campaign: %+v", list)
	}
	if _, err := f.uc.ListPublic(ctx, "DRAFT", 10); apperr.KindOf(err) != apperr.Invalid {
		t.Fatalf("draft listing must be rejected, got %v", err)
	}
}

func TestUsecase_Disburse(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.Status
		wantErr error
	}{
		{name: "funded", status: domain.StatusFunded},
		{name: "still running", status: domain.StatusRunning, wantErr: domain.ErrNotFunded},
		{name: "already disbursed", status: domain.StatusDisbursed, wantErr: domain.ErrNotFunded},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			br := &borrow.BorrowRequest{
				ID:                   id.New(),
				RequesterID:          "owner",
				Title:                "t",
				Category:             "c",
				AmountRequestedCents: 5000,
				Currency:             "EUR",
				Status:               borrow.StatusCampaignCreated,
			}
			if err := f.requests.Create(ctx, br); err != nil {
				t.Fatalf("seed borrow request: %v", err)
			}
			c := &domain.Campaign{
				ID:                 id.New(),
				BorrowRequestID:    &br.ID,
				TitlePublic:        "t",
				AmountNeededCents:  5000,
				AmountPooledCents:  5000,
				ExpectedReturnDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
				Currency:           "EUR",
				Status:             tt.status,
				Verified:           true,
			}
			if err := f.campaigns.Create(ctx, c); err != nil {
				t.Fatalf("seed campaign: %v", err)
			}

			dto, err := f.uc.Disburse(ctx, id.Prefixed(id.PrefixBorrowRequest, br.ID))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				got, _ := f.campaigns.GetByID(ctx, c.ID)
				if got.Status != tt.status {
					t.Fatalf("status changed on failure: %s", got.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("disburse: %v", err)
			}
			if dto.AmountCents != 5000 || dto.CampaignStatus != string(domain.StatusDisbursed) || dto.BorrowRequestStatus != string(borrow.StatusDisbursed) {
				t.Fatalf("dto mismatch: %+v", dto)
			}
			entries, err := mysqlrepo.NewLedgerRepository(f.db).ListByCampaign(ctx, c.ID)
			if err != nil || len(entries) != 1 || entries[0].AmountCents != 5000 {
				t.Fatalf("ledger entries = %+v (err %v)", entries, err)
			}
			gotBR, _ := f.requests.GetByID(ctx, br.ID)
			if gotBR.Status != borrow.StatusDisbursed {
				t.Fatalf("borrow request status = %s", gotBR.Status)
			}
		})
	}
}
