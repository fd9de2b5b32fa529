package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"us number without prefix", "(415) 555-2671", "+14155552671", false},
		{"already e164", "+14155552671", "+14155552671", false},
		{"international number", "+44 20 7946 0958", "+442079460958", false},
		{"whitespace trimmed", "  415-555-2671  ", "+14155552671", false},
		{"empty", "", "", true},
		{"letters", "call me", "", true},
		{"too short", "123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("+14155552671"))
	assert.False(t, Valid("not a number"))
}
