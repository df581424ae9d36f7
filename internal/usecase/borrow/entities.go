package borrow

import (
	"time"

	domain "p2p-lending-backend/internal/domain/borrow"
	"p2p-lending-backend/pkg/id"
)

type CreateInput struct {
	Title                string
	Category             string
	Reason               string
	AmountRequestedCents int64
	Currency             string
	ExpectedReturnDays   int
}

type DecideInput struct {
	Decision string
	Note     string
}

// CampaignInput carries the public fields of a campaign created from a
// verified borrow request. Empty values fall back to the request.
type CampaignInput struct {
	TitlePublic        string
	StoryPublic        string
	TermsPublic        string
	Category           string
	AmountNeededCents  int64
	ExpectedReturnDays *int
	ExpectedReturnDate *time.Time
}

type FileSpec struct {
	FileName    string
	ContentType string
}

type DocumentDTO struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UploadDTO struct {
	DocumentID string `json:"documentId"`
	UploadURL  string `json:"uploadUrl"`
	FileName   string `json:"fileName"`
	StorageKey string `json:"storageKey"`
}

type BorrowRequestDTO struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	Category             string        `json:"category"`
	Reason               string        `json:"reason"`
	AmountRequestedCents int64         `json:"amountRequestedCents"`
	Currency             string        `json:"currency"`
	ExpectedReturnDays   int           `json:"expectedReturnDays"`
	Status               string        `json:"status"`
	NoteInternal         string        `json:"noteInternal,omitempty"`
	Documents            []DocumentDTO `json:"documents,omitempty"`
	CreatedAt            time.Time     `json:"createdAt"`
}

func toDTO(br *domain.BorrowRequest) *BorrowRequestDTO {
	return &BorrowRequestDTO{
		ID:                   id.Prefixed(id.PrefixBorrowRequest, br.ID),
		Title:                br.Title,
		Category:             br.Category,
		Reason:               br.Reason,
		AmountRequestedCents: br.AmountRequestedCents,
		Currency:             string(br.Currency),
		ExpectedReturnDays:   br.ExpectedReturnDays,
		Status:               string(br.Status),
		CreatedAt:            br.CreatedAt,
	}
}

func toDocumentDTO(d domain.Document) DocumentDTO {
	return DocumentDTO{
		ID:          id.Prefixed(id.PrefixDocument, d.ID),
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}
