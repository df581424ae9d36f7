package payment

import (
	"context"

	"github.com/google/uuid"

	"p2p-lending-backend/internal/shared/apperr"
	"p2p-lending-backend/pkg/money"
)

const EventCheckoutSessionCompleted = "checkout.session.completed"

// ErrInvalidWebhook is returned for bad signatures and unparseable payloads.
var ErrInvalidWebhook = apperr.InvalidErr("invalid signature or payload", nil)

type Mode string

const (
	ModePayment Mode = "payment"
	ModeSetup   Mode = "setup"
)

type LineItem struct {
	Name        string
	AmountCents int64
	Currency    money.Currency
	Quantity    int64
}

type CheckoutRequest struct {
	Mode       Mode
	SuccessURL string
	CancelURL  string
	Currency   money.Currency
	LineItems  []LineItem
	Metadata   SessionMetadata
}

type Session struct {
	ID  string
	URL string
}

// Event is a verified provider notification about a checkout session.
type Event struct {
	Type      string
	SessionID string
	Metadata  SessionMetadata
}

func (e Event) CheckoutCompleted() bool { return e.Type == EventCheckoutSessionCompleted }

// Provider is the payment collaborator.
type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (Session, error)
	VerifyAndParseWebhook(rawBody []byte, signatureHeader string) (Event, error)
}

const pendingSessionPrefix = "pending_"

// PendingSessionID is a unique placeholder stored until the provider
// assigns the real session id.
func PendingSessionID() string { return pendingSessionPrefix + uuid.NewString() }

// Outcome of applying a webhook event. Every outcome is a success for the
// sender; only Applied and Returned changed state.
type Outcome string

const (
	OutcomeApplied      Outcome = "applied"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeUnknownRef   Outcome = "unknown_reference"
	OutcomeAlreadyFinal Outcome = "already_applied"
	// paid, but the campaign had no room left; booked for refund
	OutcomeReturned Outcome = "returned"
)
