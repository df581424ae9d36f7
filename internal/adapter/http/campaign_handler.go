package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/internal/usecase/campaign"
	"p2p-lending-backend/internal/usecase/contribution"
)

type CampaignHandler struct {
	campaigns     *campaign.Usecase
	contributions *contribution.Usecase
}

func NewCampaignHandler(campaigns *campaign.Usecase, contributions *contribution.Usecase) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, contributions: contributions}
}

type checkoutReq struct {
	AmountCents int64  `json:"amountCents" validate:"cents"`
	Currency    string `json:"currency"    validate:"omitempty,currency"`
	SuccessURL  string `json:"successUrl"  validate:"required,http_url"`
	CancelURL   string `json:"cancelUrl"   validate:"required,http_url"`
}

func (h *CampaignHandler) Get(c echo.Context) error {
	dto, err := h.campaigns.Get(c.Request().Context(), c.Param("campaign_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// List serves ?status=RUNNING|COMPLETED&limit=N.
func (h *CampaignHandler) List(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return respondError(c, apperr.FieldErr("limit", "must be a non-negative integer"))
		}
		limit = n
	}
	items, err := h.campaigns.ListPublic(c.Request().Context(), c.QueryParam("status"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Checkout pledges a contribution and returns the provider checkout URL.
func (h *CampaignHandler) Checkout(c echo.Context) error {
	var req checkoutReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, _ := middleware.PrincipalFrom(c)
	dto, err := h.contributions.InitiateCheckout(c.Request().Context(), p.UserID, contribution.CheckoutInput{
		CampaignID:  c.Param("campaign_id"),
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"checkout": dto})
}
