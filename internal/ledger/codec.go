package ledger

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/payhub-br/payhub-backend/pkg/errors"
)

// The XRPL counts seconds from 2000-01-01T00:00:00Z.
const rippleEpochOffset int64 = 946684800

const currencyHexLength = 40

var dropsPerXRP = decimal.NewFromInt(1_000_000)

// EncodeCurrency converts a currency code to the ledger's wire format.
// Three-letter codes pass through upcased; longer symbols are ASCII-encoded
// into the 160-bit hex representation, right-padded with zeroes.
func EncodeCurrency(code string) (string, error) {
	c := strings.ToUpper(code)
	if len(c) == 3 {
		return c, nil
	}
	raw := []byte(c)
	if len(raw) > 20 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "currency code longer than 20 bytes")
	}
	encoded := hex.EncodeToString(raw)
	if pad := currencyHexLength - len(encoded); pad > 0 {
		encoded += strings.Repeat("0", pad)
	}
	return strings.ToUpper(encoded), nil
}

// DecodeCurrency reverses EncodeCurrency for long-form codes. Used mainly in
// diagnostics and tests.
func DecodeCurrency(wire string) (string, error) {
	if len(wire) == 3 {
		return wire, nil
	}
	raw, err := hex.DecodeString(wire)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed currency hex")
	}
	return strings.TrimRight(string(raw), "\x00"), nil
}

// RippleTime converts wall-clock time to seconds since the ripple epoch.
func RippleTime(t time.Time) int64 {
	return t.Unix() - rippleEpochOffset
}

// RippleNow returns the current time in ripple epoch seconds.
func RippleNow() int64 {
	return RippleTime(time.Now())
}

// XRPToDrops converts an XRP amount to the integer drops string the ledger
// expects. Fractional drops are floored, never rounded up.
func XRPToDrops(amount decimal.Decimal) string {
	return amount.Mul(dropsPerXRP).Floor().String()
}
