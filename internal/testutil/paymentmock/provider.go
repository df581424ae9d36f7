package paymentmock

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"p2p-lending-backend/internal/domain/payment"
)

var _ payment.Provider = (*Provider)(nil)

// Provider records checkout requests and answers with fake sessions
// ("cs_test_1", "cs_test_2", ...) unless CreateFn is set.
type Provider struct {
	CreateFn func(ctx context.Context, req payment.CheckoutRequest) (payment.Session, error)
	VerifyFn func(rawBody []byte, signatureHeader string) (payment.Event, error)

	mu       sync.Mutex
	Requests []payment.CheckoutRequest
}

func (p *Provider) Name() string { return "stripe" }

func (p *Provider) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (payment.Session, error) {
	p.mu.Lock()
	p.Requests = append(p.Requests, req)
	n := len(p.Requests)
	p.mu.Unlock()
	if p.CreateFn != nil {
		return p.CreateFn(ctx, req)
	}
	sid := "cs_test_" + strconv.Itoa(n)
	return payment.Session{ID: sid, URL: "https://checkout.example.test/" + sid}, nil
}

func (p *Provider) VerifyAndParseWebhook(rawBody []byte, signatureHeader string) (payment.Event, error) {
	if p.VerifyFn != nil {
		return p.VerifyFn(rawBody, signatureHeader)
	}
	return payment.Event{}, errors.New("paymentmock: verify not implemented")
}

// Last returns the most recent checkout request.
func (p *Provider) Last() payment.CheckoutRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Requests) == 0 {
		return payment.CheckoutRequest{}
	}
	return p.Requests[len(p.Requests)-1]
}
