package http

import (
	stdhttp "net/http"
	"testing"

	"p2p-lending-backend/internal/usecase/contribution"
	"p2p-lending-backend/internal/usecase/dashboard"
)

func (f *apiFixture) checkout(t *testing.T, tok, campaignID string, amount int64) contribution.CheckoutDTO {
	t.Helper()
	rec := f.do(t, stdhttp.MethodPost, "/api/v1/campaigns/"+campaignID+"/support/checkout", tok, map[string]any{
		"amountCents": amount, "successUrl": "https://app.test/ok", "cancelUrl": "https://app.test/cancel",
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	return decode[struct{ Checkout contribution.CheckoutDTO }](t, rec).Checkout
}

func TestDashboard(t *testing.T) {
	f := newAPI(t, nil)
	lender := token(t, "lender-1", false)
	cid := f.runningCampaign(t, 10000)

	// two pledges that only fit while neither is paid
	first := f.checkout(t, lender, cid, 6000)
	f.completedEvent(first.SessionID)
	second := f.checkout(t, lender, cid, 6000)

	expectStatus(t, f.webhook(t, "/api/v1/payments/webhook"), stdhttp.StatusOK)
	f.completedEvent(second.SessionID)
	// the late payment is booked for refund and still acknowledged
	expectStatus(t, f.webhook(t, "/api/v1/payments/webhook"), stdhttp.StatusOK)

	brID := f.verifiedBorrowRequest(t, "lender-1", 3000, 30)

	rec := f.do(t, stdhttp.MethodGet, "/api/v1/dashboard", lender, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	d := decode[dashboard.DashboardDTO](t, rec)

	want := dashboard.SupportSummaryDTO{TotalSupportedCents: 6000, ActiveSupportedCents: 6000, ReturnedCents: 6000}
	if d.SupportSummary != want {
		t.Fatalf("summary = %+v, want %+v", d.SupportSummary, want)
	}
	if len(d.SupportByCampaign) != 2 {
		t.Fatalf("want 2 contributions, got %s", rec.Body.String())
	}
	statuses := map[string]string{}
	for _, s := range d.SupportByCampaign {
		if s.CampaignID != cid || s.CampaignTitle != "Solar panels" || s.ProgressPct != 60 {
			t.Fatalf("support row mismatch: %+v", s)
		}
		statuses[s.ContributionID] = s.ContributionStatus
	}
	if statuses[first.ContributionID] != "PAID" || statuses[second.ContributionID] != "RETURNED" {
		t.Fatalf("contribution statuses = %v", statuses)
	}
	if len(d.BorrowRequests) != 1 || d.BorrowRequests[0].ID != brID || d.BorrowRequests[0].Status != "VERIFIED" {
		t.Fatalf("borrow requests = %+v", d.BorrowRequests)
	}

	// another user sees only their own (empty) dashboard
	rec = f.do(t, stdhttp.MethodGet, "/api/v1/dashboard", token(t, "lender-2", false), nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	other := decode[dashboard.DashboardDTO](t, rec)
	if len(other.SupportByCampaign) != 0 || len(other.BorrowRequests) != 0 || other.SupportSummary != (dashboard.SupportSummaryDTO{}) {
		t.Fatalf("foreign data leaked: %s", rec.Body.String())
	}

	expectStatus(t, f.do(t, stdhttp.MethodGet, "/api/v1/dashboard", "", nil), stdhttp.StatusUnauthorized)
}
