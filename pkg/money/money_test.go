package money

import "testing"

func TestFundingProgressPct(t *testing.T) {
	tests := []struct {
		name           string
		pooled, needed int64
		want           int
	}{
		{"needed zero", 500, 0, 0},
		{"needed negative", 500, -1, 0},
		{"nothing pooled", 0, 10000, 0},
		{"negative pooled", -10, 10000, 0},
		{"floors", 3333, 10000, 33},
		{"just under", 9999, 10000, 99},
		{"exact", 10000, 10000, 100},
		{"over clamps", 15000, 10000, 100},
		{"large values", 9_000_000_000_000, 10_000_000_000_000, 90},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := FundingProgressPct(tt.pooled, tt.needed); got != tt.want {
				t.Fatalf("FundingProgressPct(%d,%d) = %d, want %d", tt.pooled, tt.needed, got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	if got := Remaining(10000, 6000); got != 4000 {
		t.Fatalf("want 4000, got %d", got)
	}
	if got := Remaining(10000, 12000); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
}

func TestParseCurrency(t *testing.T) {
	if c, err := ParseCurrency("eur"); err != nil || c != EUR {
		t.Fatalf("want EUR, got %q err=%v", c, err)
	}
	if _, err := ParseCurrency("USD"); err == nil {
		t.Fatal("want error for USD")
	}
	if _, err := ParseCurrency(""); err == nil {
		t.Fatal("want error for empty")
	}
	if EUR.Lower() != "eur" {
		t.Fatalf("Lower = %q", EUR.Lower())
	}
}
