package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/usecase/repayment"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler { return &RepaymentHandler{uc: uc} }

type payReq struct {
	BorrowRequestID string `json:"borrowRequestId" validate:"required"`
	AmountCents     int64  `json:"amountCents"     validate:"cents"`
	ReturnURL       string `json:"returnUrl"       validate:"omitempty,http_url"`
}

type setupReq struct {
	BorrowRequestID string `json:"borrowRequestId" validate:"required"`
	ReturnURL       string `json:"returnUrl"       validate:"omitempty,http_url"`
}

// Mine serves ?borrowRequestId=; without it the latest request is shown.
func (h *RepaymentHandler) Mine(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	dto, err := h.uc.Overview(c.Request().Context(), p.UserID, c.QueryParam("borrowRequestId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RepaymentHandler) Pay(c echo.Context) error {
	var req payReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, _ := middleware.PrincipalFrom(c)
	dto, err := h.uc.Pay(c.Request().Context(), p.UserID, repayment.PayInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"checkout": dto})
}

func (h *RepaymentHandler) Setup(c echo.Context) error {
	var req setupReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, _ := middleware.PrincipalFrom(c)
	dto, err := h.uc.Setup(c.Request().Context(), p.UserID, repayment.SetupInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"checkout": dto})
}
