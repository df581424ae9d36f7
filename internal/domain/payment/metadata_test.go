package payment

import (
	"strings"
	"testing"
)

func TestMetadataRoundTrip(t *testing.T) {
	in := SessionMetadata{Kind: KindRepaymentPayment, BorrowRequestID: "b", UserID: "u"}
	raw := in.Map()
	if _, ok := raw[keyContributionID]; ok {
		t.Fatalf("empty values must be omitted: %v", raw)
	}
	if got := MetadataFromMap(raw); got != in {
		t.Fatalf("want %+v, got %+v", in, got)
	}
}

func TestMetadataFromMap_Kinds(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want MetadataKind
	}{
		{"nil map", nil, KindContribution},
		{"no type is a contribution", map[string]string{"contribution_id": "x"}, KindContribution},
		{"repayment", map[string]string{"type": "repayment_payment"}, KindRepaymentPayment},
		{"setup", map[string]string{"type": "repayment_setup"}, KindRepaymentSetup},
		{"unknown", map[string]string{"type": "refund"}, KindUnknown},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := MetadataFromMap(tt.raw).Kind; got != tt.want {
				t.Fatalf("want %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPendingSessionID(t *testing.T) {
	a, b := PendingSessionID(), PendingSessionID()
	if !strings.HasPrefix(a, "pending_") || a == b {
		t.Fatalf("unexpected placeholders %q %q", a, b)
	}
}

func TestEvent_CheckoutCompleted(t *testing.T) {
	if !(Event{Type: "checkout.session.completed"}).CheckoutCompleted() {
		t.Fatal("want true")
	}
	if (Event{Type: "checkout.session.expired"}).CheckoutCompleted() {
		t.Fatal("want false")
	}
}
