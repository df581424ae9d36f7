package borrow

import (
	"fmt"
	"strings"
	"time"

	"p2p-lending-backend/pkg/money"
)

type Status string

const (
	StatusSubmitted       Status = "SUBMITTED"
	StatusUnderReview     Status = "UNDER_REVIEW"
	StatusVerified        Status = "VERIFIED"
	StatusRejected        Status = "REJECTED"
	StatusCampaignCreated Status = "CAMPAIGN_CREATED"
	StatusFunded          Status = "FUNDED"
	StatusDisbursed       Status = "DISBURSED"
	StatusInRepayment     Status = "IN_REPAYMENT"
	StatusCompleted       Status = "COMPLETED"
)

var statuses = map[Status]struct{}{
	StatusSubmitted: {}, StatusUnderReview: {}, StatusVerified: {}, StatusRejected: {},
	StatusCampaignCreated: {}, StatusFunded: {}, StatusDisbursed: {}, StatusInRepayment: {},
	StatusCompleted: {},
}

// ParseStatus rejects values outside the lifecycle.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if _, ok := statuses[st]; !ok {
		return "", fmt.Errorf("unknown borrow request status %q", s)
	}
	return st, nil
}

// Decision is a staff review outcome.
type Decision string

const (
	DecisionVerify Decision = "VERIFY"
	DecisionReject Decision = "REJECT"
)

func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.TrimSpace(s)); d {
	case DecisionVerify, DecisionReject:
		return d, nil
	}
	return "", fmt.Errorf("unknown decision %q", s)
}

// Status returns the borrow request status a decision leads to.
func (d Decision) Status() Status {
	if d == DecisionVerify {
		return StatusVerified
	}
	return StatusRejected
}

type BorrowRequest struct {
	ID                   string         `gorm:"type:char(36);primaryKey"`
	RequesterID          string         `gorm:"size:64;not null;index:idx_borrow_requests_requester"`
	Title                string         `gorm:"size:200;not null"`
	Category             string         `gorm:"size:64;not null"`
	Reason               string         `gorm:"type:text"`
	AmountRequestedCents int64          `gorm:"not null"`
	Currency             money.Currency `gorm:"type:char(3);not null"`
	ExpectedReturnDays   int            `gorm:"not null"`
	Status               Status         `gorm:"size:32;not null;index"`
	NoteInternal         string         `gorm:"type:text"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
}

func (BorrowRequest) TableName() string { return "borrow_requests" }

type DocumentStatus string

const (
	DocumentPendingUpload DocumentStatus = "PENDING_UPLOAD"
	DocumentUploaded      DocumentStatus = "UPLOADED"
	DocumentConfirmed     DocumentStatus = "CONFIRMED"
)

// Document is an upload attached to a borrow request.
type Document struct {
	ID              string         `gorm:"type:char(36);primaryKey"`
	BorrowRequestID string         `gorm:"type:char(36);not null;index"`
	FileName        string         `gorm:"size:255;not null"`
	ContentType     string         `gorm:"size:128"`
	StorageKey      string         `gorm:"size:512;not null;uniqueIndex"`
	Status          DocumentStatus `gorm:"size:32;not null"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
}

func (Document) TableName() string { return "borrow_documents" }
