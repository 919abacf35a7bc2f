package sanitizer

import (
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Dupont", "Dupont"},
		{"surrounding whitespace", "  Dupont  ", "Dupont"},
		{"inner whitespace collapsed", "Jean \t Pierre", "Jean Pierre"},
		{"newlines", "Jean\nPierre", "Jean Pierre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jean.Dupont@Example.COM "); got != "jean.dupont@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		country  string
		expected string
	}{
		{"already e164", "+33612345678", "FR", "+33612345678"},
		{"national with region", "0612345678", "FR", "+33612345678"},
		{"empty", "", "FR", ""},
		{"garbage kept verbatim", "call me", "", "call me"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.phone, tt.country); got != tt.expected {
				t.Errorf("NormalizePhone(%q, %q) = %q, want %q", tt.phone, tt.country, got, tt.expected)
			}
		})
	}
}
