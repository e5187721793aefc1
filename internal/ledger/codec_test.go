package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
)

func TestEncodeCurrencyThreeLetterPassthrough(t *testing.T) {
	for _, code := range []string{"USD", "usd", "BrL"} {
		got, err := EncodeCurrency(code)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", code, err)
		}
		if got != strings.ToUpper(code) {
			t.Fatalf("expected upcased passthrough for %q, got %q", code, got)
		}
	}
}

func TestEncodeCurrencyLongFormRoundTrip(t *testing.T) {
	for _, code := range []string{"RLUSD", "PAYHUBTOKEN", "ABCD"} {
		wire, err := EncodeCurrency(code)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", code, err)
		}
		if len(wire) != 40 {
			t.Fatalf("expected 40 hex chars for %q, got %d", code, len(wire))
		}
		if wire != strings.ToUpper(wire) {
			t.Fatalf("expected upcased hex, got %q", wire)
		}
		decoded, err := DecodeCurrency(wire)
		if err != nil {
			t.Fatalf("decode failed for %q: %v", wire, err)
		}
		if decoded != strings.ToUpper(code) {
			t.Fatalf("round trip mismatch: %q -> %q", code, decoded)
		}
	}
}

func TestEncodeCurrencyRejectsOversizedCode(t *testing.T) {
	_, err := EncodeCurrency(strings.Repeat("X", 21))
	if err == nil {
		t.Fatal("expected error for code over 20 bytes")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRippleTimeOffset(t *testing.T) {
	ref := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := RippleTime(ref); got != 0 {
		t.Fatalf("expected ripple epoch zero at 2000-01-01, got %d", got)
	}

	now := time.Now()
	if got := RippleTime(now); got != now.Unix()-946684800 {
		t.Fatalf("ripple time must equal unix-946684800, got %d", got)
	}
}

func TestXRPToDropsFloors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000"},
		{"0.5", "500000"},
		{"1.2345678", "1234567"},
		{"0.0000001", "0"},
	}
	for _, tt := range tests {
		amount, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := XRPToDrops(amount); got != tt.want {
			t.Fatalf("XRPToDrops(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
