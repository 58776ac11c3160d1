package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateAddressChecks(t *testing.T) {
	tests := []struct {
		name         string
		checks       *CardChecks
		wantVerified bool
		wantLevel    string
	}{
		{
			name:         "both pass is full verification",
			checks:       &CardChecks{AddressLine1Check: "pass", AddressPostalCodeCheck: "pass"},
			wantVerified: true,
			wantLevel:    "full",
		},
		{
			name:         "both unavailable treated as international card",
			checks:       &CardChecks{AddressLine1Check: "unavailable", AddressPostalCodeCheck: "unavailable"},
			wantVerified: true,
			wantLevel:    "international",
		},
		{
			name:         "unchecked line1 passes as unchecked",
			checks:       &CardChecks{AddressLine1Check: "unchecked", AddressPostalCodeCheck: "fail"},
			wantVerified: true,
			wantLevel:    "unchecked",
		},
		{
			name:         "unchecked postal passes as unchecked",
			checks:       &CardChecks{AddressLine1Check: "fail", AddressPostalCodeCheck: "unchecked"},
			wantVerified: true,
			wantLevel:    "unchecked",
		},
		{
			name:         "single pass flagged for review",
			checks:       &CardChecks{AddressLine1Check: "pass", AddressPostalCodeCheck: "fail"},
			wantVerified: true,
			wantLevel:    "partial",
		},
		{
			name:         "both fail rejects",
			checks:       &CardChecks{AddressLine1Check: "fail", AddressPostalCodeCheck: "fail"},
			wantVerified: false,
			wantLevel:    "failed",
		},
		{
			name:         "mixed fail and unavailable falls back to lenient",
			checks:       &CardChecks{AddressLine1Check: "fail", AddressPostalCodeCheck: "unavailable"},
			wantVerified: true,
			wantLevel:    "lenient",
		},
		{
			name:         "nil checks are lenient",
			checks:       nil,
			wantVerified: true,
			wantLevel:    "lenient",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAddressChecks(tt.checks)
			assert.Equal(t, tt.wantVerified, got.Verified)
			assert.Equal(t, tt.wantLevel, got.Level)
		})
	}
}
