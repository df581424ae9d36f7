package http

import (
	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/adapter/middleware"
)

// Router mounts every handler under /api/v1. Idempotency, when set, guards
// the state-creating POST routes and runs after Auth so keys are scoped
// per user.
type Router struct {
	Health     *Handler
	Borrow     *BorrowHandler
	Admin      *AdminHandler
	Campaigns  *CampaignHandler
	Repayments *RepaymentHandler
	Dashboard  *DashboardHandler
	Webhooks   *WebhookHandler

	JWTSecret   []byte
	Idempotency echo.MiddlewareFunc
}

func (r Router) Register(e *echo.Echo) {
	e.GET("/health", r.Health.Health)

	auth := middleware.Auth(r.JWTSecret)
	user := []echo.MiddlewareFunc{auth}
	userOnce := []echo.MiddlewareFunc{auth}
	staff := []echo.MiddlewareFunc{auth, middleware.RequireStaff}
	staffOnce := []echo.MiddlewareFunc{auth, middleware.RequireStaff}
	if r.Idempotency != nil {
		userOnce = append(userOnce, r.Idempotency)
		staffOnce = append(staffOnce, r.Idempotency)
	}

	api := e.Group("/api/v1")

	// public
	api.GET("/campaigns", r.Campaigns.List)
	api.GET("/campaigns/:campaign_id", r.Campaigns.Get)
	api.POST("/payments/webhook", r.Webhooks.Payments)
	api.POST("/repayments/webhook", r.Webhooks.Repayments)

	// borrower / lender
	api.POST("/borrow-requests", r.Borrow.Create, userOnce...)
	api.GET("/borrow-requests/:borrow_request_id", r.Borrow.Get, user...)
	api.POST("/borrow-requests/:borrow_request_id/documents/presign", r.Borrow.PresignDocuments, user...)
	api.POST("/borrow-requests/:borrow_request_id/documents/confirm", r.Borrow.ConfirmDocuments, user...)
	api.POST("/campaigns/:campaign_id/support/checkout", r.Campaigns.Checkout, userOnce...)
	api.GET("/repayments/mine", r.Repayments.Mine, user...)
	api.POST("/repayments/pay", r.Repayments.Pay, userOnce...)
	api.POST("/repayments/setup", r.Repayments.Setup, userOnce...)
	api.GET("/dashboard", r.Dashboard.Get, user...)

	// staff
	api.GET("/admin/borrow-requests/:borrow_request_id", r.Admin.GetBorrowRequest, staff...)
	api.POST("/admin/borrow-requests/:borrow_request_id/decision", r.Admin.Decide, staff...)
	api.POST("/admin/borrow-requests/:borrow_request_id/create-campaign", r.Admin.CreateCampaign, staffOnce...)
	api.POST("/admin/borrow-requests/:borrow_request_id/disburse", r.Admin.Disburse, staffOnce...)
	api.POST("/admin/borrow-requests/:borrow_request_id/schedule", r.Admin.GenerateSchedule, staff...)
	api.GET("/admin/borrow-requests/:borrow_request_id/repayments", r.Admin.RepaymentTotals, staff...)
	api.POST("/admin/campaigns", r.Admin.CreateStandaloneCampaign, staffOnce...)
}
