package payment

import "strings"

// MetadataKind tags what a checkout session pays for.
type MetadataKind string

const (
	KindContribution     MetadataKind = ""
	KindRepaymentPayment MetadataKind = "repayment_payment"
	KindRepaymentSetup   MetadataKind = "repayment_setup"
	KindUnknown          MetadataKind = "unknown"
)

const (
	keyType            = "type"
	keyContributionID  = "contribution_id"
	keyCampaignID      = "campaign_id"
	keyBorrowRequestID = "borrow_request_id"
	keyUserID          = "user_id"
)

// SessionMetadata is the typed form of the provider's string metadata map.
type SessionMetadata struct {
	Kind            MetadataKind
	ContributionID  string
	CampaignID      string
	BorrowRequestID string
	UserID          string
}

// Map renders the metadata for the provider, omitting empty values.
func (m SessionMetadata) Map() map[string]string {
	out := map[string]string{}
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put(keyType, string(m.Kind))
	put(keyContributionID, m.ContributionID)
	put(keyCampaignID, m.CampaignID)
	put(keyBorrowRequestID, m.BorrowRequestID)
	put(keyUserID, m.UserID)
	return out
}

// MetadataFromMap reads known keys only. Unrecognised type values become
// KindUnknown so handlers can skip them explicitly.
func MetadataFromMap(raw map[string]string) SessionMetadata {
	get := func(k string) string { return strings.TrimSpace(raw[k]) }
	m := SessionMetadata{
		ContributionID:  get(keyContributionID),
		CampaignID:      get(keyCampaignID),
		BorrowRequestID: get(keyBorrowRequestID),
		UserID:          get(keyUserID),
	}
	switch k := MetadataKind(get(keyType)); k {
	case KindContribution, KindRepaymentPayment, KindRepaymentSetup:
		m.Kind = k
	default:
		m.Kind = KindUnknown
	}
	return m
}
