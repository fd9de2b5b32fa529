package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maherraissi/MedFlow/internal/domain"
)

func TestInvitationUsable(t *testing.T) {
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)

	tests := []struct {
		name   string
		status domain.UserStatus
		expiry *time.Time
		want   bool
	}{
		{"pending with future expiry", domain.UserStatusInvited, &future, true},
		{"expired token is invalid even on exact match", domain.UserStatusInvited, &past, false},
		{"expiry equal to now is expired", domain.UserStatusInvited, &now, false},
		{"already active account", domain.UserStatusActive, &future, false},
		{"no expiry recorded", domain.UserStatusInvited, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &domain.User{Status: tt.status, InviteExpiry: tt.expiry}
			assert.Equal(t, tt.want, invitationUsable(u, now))
		})
	}
}
