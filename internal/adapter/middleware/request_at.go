package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var errRequestAtFormat = errors.New("X-Request-At must be epoch (s/ms) or RFC3339 with timezone")

// parseRequestAt reads X-Request-At as epoch seconds, epoch milliseconds or
// RFC3339 with an explicit zone. Values above 1e12 are milliseconds.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing X-Request-At")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	// RFC3339Nano also accepts values without fractional seconds
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errRequestAtFormat
	}
	return t.UTC(), nil
}
