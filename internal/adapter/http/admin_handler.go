package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/internal/usecase/borrow"
	"p2p-lending-backend/internal/usecase/campaign"
	"p2p-lending-backend/internal/usecase/repayment"
)

// AdminHandler serves the staff-only routes.
type AdminHandler struct {
	borrows    *borrow.Usecase
	campaigns  *campaign.Usecase
	repayments *repayment.Usecase
}

func NewAdminHandler(borrows *borrow.Usecase, campaigns *campaign.Usecase, repayments *repayment.Usecase) *AdminHandler {
	return &AdminHandler{borrows: borrows, campaigns: campaigns, repayments: repayments}
}

type decideReq struct {
	Decision string `json:"decision" validate:"required"`
	Note     string `json:"note"     validate:"max=2000"`
}

type createCampaignReq struct {
	TitlePublic        string `json:"titlePublic"`
	StoryPublic        string `json:"storyPublic"`
	TermsPublic        string `json:"termsPublic"`
	Category           string `json:"category"`
	AmountNeededCents  int64  `json:"amountNeededCents"  validate:"cents"`
	ExpectedReturnDays *int   `json:"expectedReturnDays" validate:"omitempty,gte=0"`
	// canonical `YYYY-MM-DD`
	ExpectedReturnDate string `json:"expectedReturnDate" validate:"omitempty,datetime=2006-01-02"`
}

type createStandaloneCampaignReq struct {
	TitlePublic        string `json:"titlePublic"        validate:"required,max=200"`
	StoryPublic        string `json:"storyPublic"`
	TermsPublic        string `json:"termsPublic"`
	Category           string `json:"category"`
	AmountNeededCents  int64  `json:"amountNeededCents"  validate:"cents"`
	ExpectedReturnDays int    `json:"expectedReturnDays" validate:"gte=0"`
	ExpectedReturnDate string `json:"expectedReturnDate" validate:"omitempty,datetime=2006-01-02"`
	Currency           string `json:"currency"           validate:"omitempty,currency"`
	Status             string `json:"status"`
	Verified           bool   `json:"verified"`
}

// parseDate accepts an empty value; the layout is already validated.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apperr.FieldErr("expectedReturnDate", "must be a date formatted 2006-01-02")
	}
	return &d, nil
}

func (h *AdminHandler) GetBorrowRequest(c echo.Context) error {
	dto, err := h.borrows.GetForStaff(c.Request().Context(), c.Param("borrow_request_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) Decide(c echo.Context) error {
	var req decideReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.borrows.Decide(c.Request().Context(), c.Param("borrow_request_id"), borrow.DecideInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) CreateCampaign(c echo.Context) error {
	var req createCampaignReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	date, err := parseDate(req.ExpectedReturnDate)
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.borrows.CreateCampaign(c.Request().Context(), c.Param("borrow_request_id"), borrow.CampaignInput{
		TitlePublic:        req.TitlePublic,
		StoryPublic:        req.StoryPublic,
		TermsPublic:        req.TermsPublic,
		Category:           req.Category,
		AmountNeededCents:  req.AmountNeededCents,
		ExpectedReturnDays: req.ExpectedReturnDays,
		ExpectedReturnDate: date,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AdminHandler) CreateStandaloneCampaign(c echo.Context) error {
	var req createStandaloneCampaignReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	date, err := parseDate(req.ExpectedReturnDate)
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.campaigns.Create(c.Request().Context(), campaign.CreateInput{
		TitlePublic:        req.TitlePublic,
		StoryPublic:        req.StoryPublic,
		TermsPublic:        req.TermsPublic,
		Category:           req.Category,
		AmountNeededCents:  req.AmountNeededCents,
		ExpectedReturnDays: req.ExpectedReturnDays,
		ExpectedReturnDate: date,
		Currency:           req.Currency,
		Status:             req.Status,
		Verified:           req.Verified,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AdminHandler) Disburse(c echo.Context) error {
	dto, err := h.campaigns.Disburse(c.Request().Context(), c.Param("borrow_request_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) GenerateSchedule(c echo.Context) error {
	items, err := h.repayments.GenerateSchedule(c.Request().Context(), c.Param("borrow_request_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"schedule": items})
}

func (h *AdminHandler) RepaymentTotals(c echo.Context) error {
	dto, err := h.repayments.Totals(c.Request().Context(), c.Param("borrow_request_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
