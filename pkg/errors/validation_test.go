package errors

import (
	"strings"
	"testing"
)

func TestValidateChipName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"74-series", "74LS00", false},
		{"cpu", "W65C02", false},
		{"with space", "BLANK 24", false},
		{"unicode", "74HCµ", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("7", 65), true},
		{"control char", "74LS\x0000", true},
		{"newline", "74LS00\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChipName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChipName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateChipName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}
