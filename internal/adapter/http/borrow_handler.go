package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/usecase/borrow"
)

type BorrowHandler struct {
	uc   *borrow.Usecase
	docs *borrow.DocumentUsecase
}

func NewBorrowHandler(uc *borrow.Usecase, docs *borrow.DocumentUsecase) *BorrowHandler {
	return &BorrowHandler{uc: uc, docs: docs}
}

type createBorrowRequestReq struct {
	Title                string `json:"title"                validate:"required,max=200"`
	Category             string `json:"category"             validate:"required,max=64"`
	Reason               string `json:"reason"`
	AmountRequestedCents int64  `json:"amountRequestedCents" validate:"cents"`
	Currency             string `json:"currency"             validate:"omitempty,currency"`
	ExpectedReturnDays   int    `json:"expectedReturnDays"   validate:"gte=0"`
}

type fileSpecReq struct {
	FileName    string `json:"fileName"    validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"max=128"`
}

type presignReq struct {
	Files []fileSpecReq `json:"files" validate:"required,min=1,max=20,dive"`
}

type confirmReq struct {
	DocumentIDs []string `json:"documentIds" validate:"required,min=1"`
}

func (h *BorrowHandler) Create(c echo.Context) error {
	var req createBorrowRequestReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, _ := middleware.PrincipalFrom(c)
	dto, err := h.uc.Create(c.Request().Context(), p.UserID, borrow.CreateInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BorrowHandler) Get(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	dto, err := h.uc.GetOwned(c.Request().Context(), p.UserID, c.Param("borrow_request_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowHandler) PresignDocuments(c echo.Context) error {
	var req presignReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	files := make([]borrow.FileSpec, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, borrow.FileSpec(f))
	}
	p, _ := middleware.PrincipalFrom(c)
	uploads, err := h.docs.Presign(c.Request().Context(), p.UserID, c.Param("borrow_request_id"), files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"uploads": uploads})
}

func (h *BorrowHandler) ConfirmDocuments(c echo.Context) error {
	var req confirmReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, _ := middleware.PrincipalFrom(c)
	n, err := h.docs.Confirm(c.Request().Context(), p.UserID, c.Param("borrow_request_id"), req.DocumentIDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"confirmed": n})
}
