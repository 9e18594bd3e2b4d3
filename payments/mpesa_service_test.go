package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMpesaNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"local 07 format", "0712345678", "254712345678", false},
		{"local 01 format", "0112345678", "254112345678", false},
		{"bare 7 prefix", "712345678", "254712345678", false},
		{"already international", "254712345678", "254712345678", false},
		{"with punctuation", "+254 712-345-678", "254712345678", false},
		{"too short", "07123", "", true},
		{"not a kenyan number", "447912345678", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeMpesaNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
