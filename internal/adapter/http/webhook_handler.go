package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/domain/payment"
)

const (
	signatureHeader = "Stripe-Signature"
	maxWebhookBody  = 256 << 10
)

// eventApplier is a usecase webhook entry point.
type eventApplier func(ctx context.Context, ev payment.Event) (payment.Outcome, error)

// WebhookHandler verifies provider notifications and hands them to the
// usecase owning their metadata kind. Every verified delivery that applies
// cleanly (including no-ops) is acknowledged with 200.
type WebhookHandler struct {
	provider      payment.Provider
	contributions eventApplier
	repayments    eventApplier
	log           *slog.Logger
}

func NewWebhookHandler(provider payment.Provider, contributions, repayments eventApplier, log *slog.Logger) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{provider: provider, contributions: contributions, repayments: repayments, log: log}
}

func (h *WebhookHandler) Payments(c echo.Context) error { return h.serve(c, "payments", h.contributions) }

func (h *WebhookHandler) Repayments(c echo.Context) error { return h.serve(c, "repayments", h.repayments) }

func (h *WebhookHandler) serve(c echo.Context, route string, apply eventApplier) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		h.log.Warn("webhook rejected", "route", route, "err", err, "limit_bytes", tooLarge.Limit)
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "payload too large"})
	case err != nil:
		h.log.Warn("webhook body unreadable", "route", route, "err", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable body"})
	}
	ev, err := h.provider.VerifyAndParseWebhook(body, c.Request().Header.Get(signatureHeader))
	if err != nil {
		h.log.Warn("webhook rejected", "route", route, "err", err)
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid signature or payload"})
	}
	outcome, err := apply(c.Request().Context(), ev)
	if err != nil {
		h.log.Error("webhook failed", "route", route, "type", ev.Type, "session_id", ev.SessionID, "err", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "webhook processing failed"})
	}
	h.log.Info("webhook handled", "route", route, "type", ev.Type, "session_id", ev.SessionID, "outcome", outcome)
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
