package storage

import (
	"strings"
	"testing"
)

func TestDocumentKey(t *testing.T) {
	tests := []struct {
		name, prefix, wantPrefix string
	}{
		{"no prefix", "", "br1/"},
		{"trimmed prefix", "/uploads/", "uploads/br1/"},
		{"nested prefix", "a/b", "a/b/br1/"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			k := DocumentKey(tt.prefix, "br1", "id card.pdf")
			if !strings.HasPrefix(k, tt.wantPrefix) {
				t.Fatalf("key %q does not start with %q", k, tt.wantPrefix)
			}
			if !strings.HasSuffix(k, "_id card.pdf") {
				t.Fatalf("key %q lost file name", k)
			}
		})
	}
	if DocumentKey("", "br1", "a.pdf") == DocumentKey("", "br1", "a.pdf") {
		t.Fatal("keys must be randomised")
	}
}
