package storage

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Presigner issues time-limited upload URLs.
type Presigner interface {
	Name() string
	// Placeholder reports that URLs are not real upload targets.
	Placeholder() bool
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
}

// DocumentKey is "{prefix}/{borrowRequestID}/{random}_{fileName}", without
// the prefix segment when prefix is empty.
func DocumentKey(prefix, borrowRequestID, fileName string) string {
	key := borrowRequestID + "/" + uuid.NewString() + "_" + fileName
	if p := strings.Trim(prefix, "/"); p != "" {
		key = p + "/" + key
	}
	return key
}
