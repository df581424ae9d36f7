package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/domain/payment"
)

var _ payment.Provider = (*Stripe)(nil)

// Stripe implements payment.Provider with Checkout Sessions.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(cfg config.Stripe) *Stripe {
	return &Stripe{api: client.New(cfg.SecretKey, nil), webhookSecret: cfg.WebhookSecret}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (payment.Session, error) {
	params := &stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		Metadata:           req.Metadata.Map(),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	switch req.Mode {
	case payment.ModeSetup:
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSetup))
		params.Currency = stripe.String(req.Currency.Lower())
	default:
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		for _, li := range req.LineItems {
			params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(li.Currency.Lower()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(li.Name),
					},
					UnitAmount: stripe.Int64(li.AmountCents),
				},
				Quantity: stripe.Int64(li.Quantity),
			})
		}
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return payment.Session{}, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return payment.Session{ID: sess.ID, URL: sess.URL}, nil
}

// VerifyAndParseWebhook checks the Stripe-Signature header and extracts the
// checkout session id and metadata. Any failure is payment.ErrInvalidWebhook.
func (s *Stripe) VerifyAndParseWebhook(rawBody []byte, signatureHeader string) (payment.Event, error) {
	if s.webhookSecret == "" {
		return payment.Event{}, errors.New("stripe: webhook secret not configured")
	}
	ev, err := webhook.ConstructEventWithOptions(rawBody, signatureHeader, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return payment.Event{}, fmt.Errorf("%w: %v", payment.ErrInvalidWebhook, err)
	}

	out := payment.Event{Type: string(ev.Type)}
	if ev.Data == nil || len(ev.Data.Raw) == 0 {
		return out, nil
	}
	var obj struct {
		ID       string            `json:"id"`
		Object   string            `json:"object"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(ev.Data.Raw, &obj); err != nil {
		return payment.Event{}, fmt.Errorf("%w: %v", payment.ErrInvalidWebhook, err)
	}
	if obj.Object == "checkout.session" {
		out.SessionID = obj.ID
		out.Metadata = payment.MetadataFromMap(obj.Metadata)
	}
	return out, nil
}
