package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"p2p-lending-backend/internal/adapter/middleware"
	mysqlrepo "p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/domain/payment"
	"p2p-lending-backend/internal/testutil/paymentmock"
	"p2p-lending-backend/internal/testutil/storagemock"
	"p2p-lending-backend/internal/testutil/testdb"
	"p2p-lending-backend/internal/usecase/borrow"
	"p2p-lending-backend/internal/usecase/campaign"
	"p2p-lending-backend/internal/usecase/contribution"
	"p2p-lending-backend/internal/usecase/dashboard"
	"p2p-lending-backend/internal/usecase/repayment"
)

var apiSecret = []byte("api-test-secret")

// apiFixture serves the full router over an in-memory database.
type apiFixture struct {
	e         *echo.Echo
	db        *gorm.DB
	provider  *paymentmock.Provider
	presigner *storagemock.Presigner
}

func newAPI(t *testing.T, idempotency echo.MiddlewareFunc) *apiFixture {
	t.Helper()
	db := testdb.Open(t)
	requests := mysqlrepo.NewBorrowRequestRepository(db)
	campaigns := mysqlrepo.NewCampaignRepository(db)
	tx := mysqlrepo.NewGormUoW(db)
	provider := &paymentmock.Provider{}
	presigner := &storagemock.Presigner{}

	borrowUC := borrow.NewUsecase(requests, tx)
	campaignUC := campaign.NewUsecase(campaigns, tx)
	contributions := mysqlrepo.NewContributionRepository(db)
	contributionUC := contribution.NewUsecase(campaigns, contributions, tx, provider)
	repaymentUC := repayment.NewUsecase(requests, mysqlrepo.NewRepaymentRepository(db), tx, provider)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = NewValidator()
	Router{
		Health:      NewHandler(),
		Borrow:      NewBorrowHandler(borrowUC, borrow.NewDocumentUsecase(requests, tx, presigner, "uploads")),
		Admin:       NewAdminHandler(borrowUC, campaignUC, repaymentUC),
		Campaigns:   NewCampaignHandler(campaignUC, contributionUC),
		Repayments:  NewRepaymentHandler(repaymentUC),
		Dashboard:   NewDashboardHandler(dashboard.NewUsecase(requests, campaigns, contributions)),
		Webhooks:    NewWebhookHandler(provider, contributionUC.HandlePaymentWebhook, repaymentUC.HandleRepaymentWebhook, quiet),
		JWTSecret:   apiSecret,
		Idempotency: idempotency,
	}.Register(e)

	return &apiFixture{e: e, db: db, provider: provider, presigner: presigner}
}

func token(t *testing.T, userID string, staff bool) string {
	t.Helper()
	tok, err := middleware.IssueToken(apiSecret, userID, staff, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// do sends a JSON request; an empty tok sends no Authorization header.
func (f *apiFixture) do(t *testing.T, method, path, tok string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		rd = mustJSON(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad json %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, want, rec.Body.String())
	}
}

// completedEvent makes the mock provider verify the next webhook as a
// completed checkout of its most recent session.
func (f *apiFixture) completedEvent(sessionID string) {
	md := f.provider.Last().Metadata
	f.provider.VerifyFn = func(rawBody []byte, sig string) (payment.Event, error) {
		if sig == "" {
			return payment.Event{}, payment.ErrInvalidWebhook
		}
		return payment.Event{
			Type:      payment.EventCheckoutSessionCompleted,
			SessionID: sessionID,
			Metadata:  payment.MetadataFromMap(md.Map()),
		}, nil
	}
}

func (f *apiFixture) webhook(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodPost, path, bytes.NewReader([]byte(`{"id":"evt_1"}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// verifiedBorrowRequest creates a request as owner and verifies it as staff.
func (f *apiFixture) verifiedBorrowRequest(t *testing.T, owner string, amount int64, days int) string {
	t.Helper()
	rec := f.do(t, stdhttp.MethodPost, "/api/v1/borrow-requests", token(t, owner, false), map[string]any{
		"title":                "Delivery bike",
		"category":             "business",
		"amountRequestedCents": amount,
		"expectedReturnDays":   days,
	})
	expectStatus(t, rec, stdhttp.StatusCreated)
	br := decode[borrow.BorrowRequestDTO](t, rec)

	rec = f.do(t, stdhttp.MethodPost, "/api/v1/admin/borrow-requests/"+br.ID+"/decision", token(t, "staff-1", true),
		map[string]any{"decision": "VERIFY"})
	expectStatus(t, rec, stdhttp.StatusOK)
	return br.ID
}
