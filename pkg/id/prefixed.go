package id

import (
	"strings"

	"github.com/google/uuid"
)

// Prefixes for identifiers that cross the API boundary.
const (
	PrefixBorrowRequest    = "br"
	PrefixCampaign         = "c"
	PrefixDocument         = "doc"
	PrefixContribution     = "ctb"
	PrefixRepaymentPayment = "rp"
	PrefixRepaymentSetup   = "rs"
	PrefixScheduleItem     = "rsi"
)

// New returns a random (v4) uuid string used as a primary key.
func New() string { return uuid.NewString() }

// Prefixed returns "{prefix}_{raw}". An empty raw id stays empty.
func Prefixed(prefix, raw string) string {
	if raw == "" {
		return ""
	}
	return prefix + "_" + raw
}

// PrefixedPtr is Prefixed for nullable references.
func PrefixedPtr(prefix string, raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	s := Prefixed(prefix, *raw)
	return &s
}

// ParsePrefixed strips "{prefix}_" when present and otherwise returns value
// unchanged. It does not validate the remainder.
func ParsePrefixed(prefix, value string) string {
	return strings.TrimPrefix(value, prefix+"_")
}

// ParsePrefixedUUID parses value as a prefixed uuid. ok is false for any
// malformed input; callers report that as a client error.
func ParsePrefixedUUID(prefix, value string) (u uuid.UUID, ok bool) {
	raw := strings.TrimSpace(ParsePrefixed(prefix, strings.TrimSpace(value)))
	if raw == "" {
		return uuid.Nil, false
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return u, true
}

// ParseRef parses a prefixed uuid into the canonical key form.
func ParseRef(prefix, value string) (string, bool) {
	u, ok := ParsePrefixedUUID(prefix, value)
	if !ok {
		return "", false
	}
	return u.String(), true
}
