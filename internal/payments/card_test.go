package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidCardNumber(t *testing.T) {
	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{"visa test number", "4242424242424242", true},
		{"with separators", "4242 4242 4242 4242", true},
		{"luhn failure", "4242424242424241", false},
		{"too short", "424242424242", false},
		{"too long", "42424242424242424242", false},
		{"letters only", "not-a-card", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validCardNumber(tt.number))
		})
	}
}

func TestValidExpiryDate(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry string
		want   bool
	}{
		{"future short year", "12/27", true},
		{"future long year", "12/2027", true},
		{"current month", "06/26", true},
		{"previous month", "05/26", false},
		{"past year", "12/25", false},
		{"month thirteen", "13/27", false},
		{"month zero", "00/27", false},
		{"no slash", "1227", false},
		{"garbage", "soon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validExpiryDate(tt.expiry, now))
		})
	}
}
