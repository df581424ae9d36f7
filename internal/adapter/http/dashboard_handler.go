package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/usecase/dashboard"
)

type DashboardHandler struct{ uc *dashboard.Usecase }

func NewDashboardHandler(uc *dashboard.Usecase) *DashboardHandler { return &DashboardHandler{uc: uc} }

// Get shows the caller's contributions and borrow requests.
func (h *DashboardHandler) Get(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	dto, err := h.uc.ForUser(c.Request().Context(), p.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
