package payments

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	nonDigits  = regexp.MustCompile(`\D`)
	expiryForm = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2}|\d{4})$`)
)

// validCardNumber runs the Luhn check over the digits of the card number.
// Lengths outside 13..19 are rejected before checksumming.
func validCardNumber(number string) bool {
	cleaned := nonDigits.ReplaceAllString(number, "")
	if len(cleaned) < 13 || len(cleaned) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(cleaned) - 1; i >= 0; i-- {
		digit := int(cleaned[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// validExpiryDate accepts MM/YY or MM/YYYY and rejects dates in the past
// relative to now. The card stays valid through its expiry month.
func validExpiryDate(expiry string, now time.Time) bool {
	match := expiryForm.FindStringSubmatch(strings.TrimSpace(expiry))
	if match == nil {
		return false
	}

	month, _ := strconv.Atoi(match[1])
	year, _ := strconv.Atoi(match[2])
	if year < 100 {
		year += 2000
	}

	if year < now.Year() {
		return false
	}
	if year == now.Year() && month < int(now.Month()) {
		return false
	}
	return true
}
