package http

import (
	stdhttp "net/http"
	"strings"
	"testing"

	"p2p-lending-backend/internal/usecase/campaign"
	"p2p-lending-backend/internal/usecase/contribution"
	"p2p-lending-backend/internal/usecase/repayment"
)

// Borrow request → campaign → funded → disbursed → repaid, over HTTP.
func TestLendingLifecycle(t *testing.T) {
	f := newAPI(t, nil)
	borrower := token(t, "borrower-1", false)
	lender := token(t, "lender-1", false)
	staff := token(t, "staff-1", true)

	brID := f.verifiedBorrowRequest(t, "borrower-1", 10000, 45)

	rec := f.do(t, stdhttp.MethodPost, "/api/v1/admin/borrow-requests/"+brID+"/create-campaign", staff,
		map[string]any{"amountNeededCents": 10000, "storyPublic": "New bike for deliveries"})
	expectStatus(t, rec, stdhttp.StatusCreated)
	c := decode[campaign.CampaignDTO](t, rec)
	if c.Status != "RUNNING" || c.BorrowRequestID == nil || *c.BorrowRequestID != brID || c.TitlePublic != "Delivery bike" {
		t.Fatalf("unexpected campaign: %+v", c)
	}

	// listed publicly while running
	rec = f.do(t, stdhttp.MethodGet, "/api/v1/campaigns", "", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if list := decode[struct{ Items []campaign.CampaignDTO }](t, rec); len(list.Items) != 1 || list.Items[0].ID != c.ID {
		t.Fatalf("unexpected listing: %s", rec.Body.String())
	}

	// lender pledges the full amount and the provider confirms
	rec = f.do(t, stdhttp.MethodPost, "/api/v1/campaigns/"+c.ID+"/support/checkout", lender, map[string]any{
		"amountCents": 10000,
		"successUrl":  "https://app.test/ok",
		"cancelUrl":   "https://app.test/cancel",
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	co := decode[struct{ Checkout contribution.CheckoutDTO }](t, rec).Checkout
	if co.SessionID != "cs_test_1" || !strings.HasPrefix(co.ContributionID, "ctb_") {
		t.Fatalf("unexpected checkout: %+v", co)
	}
	f.completedEvent(co.SessionID)
	expectStatus(t, f.webhook(t, "/api/v1/payments/webhook"), stdhttp.StatusOK)
	// redelivery is acknowledged and changes nothing
	expectStatus(t, f.webhook(t, "/api/v1/payments/webhook"), stdhttp.StatusOK)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/campaigns/"+c.ID, "", nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	c = decode[campaign.CampaignDTO](t, rec)
	if c.AmountPooledCents != 10000 || c.ProgressPct != 100 || c.Status != "FUNDED" {
		t.Fatalf("campaign after funding: %+v", c)
	}

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/admin/borrow-requests/"+brID+"/disburse", staff, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if d := decode[campaign.DisbursementDTO](t, rec); d.BorrowRequestStatus != "DISBURSED" || d.AmountCents != 10000 {
		t.Fatalf("unexpected disbursement: %+v", d)
	}

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/admin/borrow-requests/"+brID+"/schedule", staff, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	sched := decode[struct{ Schedule []repayment.ScheduleItemDTO }](t, rec).Schedule
	if len(sched) != 2 || sched[0].AmountCents != 5000 || sched[1].AmountCents != 5000 {
		t.Fatalf("unexpected schedule: %+v", sched)
	}

	// borrower repays everything
	rec = f.do(t, stdhttp.MethodPost, "/api/v1/repayments/pay", borrower, map[string]any{
		"borrowRequestId": brID,
		"amountCents":     10000,
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	pay := decode[struct{ Checkout repayment.CheckoutDTO }](t, rec).Checkout
	if !strings.HasPrefix(pay.PaymentID, "rp_") {
		t.Fatalf("unexpected repayment checkout: %+v", pay)
	}
	f.completedEvent(pay.SessionID)
	expectStatus(t, f.webhook(t, "/api/v1/repayments/webhook"), stdhttp.StatusOK)

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/repayments/mine?borrowRequestId="+brID, borrower, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	ov := decode[repayment.OverviewDTO](t, rec)
	if ov.Status != "COMPLETED" || ov.Totals.PaidCents != 10000 || ov.Totals.RemainingCents != 0 || len(ov.Schedule) != 2 {
		t.Fatalf("unexpected overview: %+v", ov)
	}

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/admin/borrow-requests/"+brID+"/repayments", staff, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if tot := decode[repayment.TotalsDTO](t, rec); tot.ScheduledCents != 10000 || tot.PaidCents != 10000 {
		t.Fatalf("unexpected totals: %+v", tot)
	}

	rec = f.do(t, stdhttp.MethodGet, "/api/v1/campaigns/"+c.ID, "", nil)
	if got := decode[campaign.CampaignDTO](t, rec).Status; got != "COMPLETED" {
		t.Fatalf("campaign status = %s, want COMPLETED", got)
	}
}
