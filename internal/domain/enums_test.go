package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{"booked to confirmed", AppointmentBooked, AppointmentConfirmed, true},
		{"booked to cancelled", AppointmentBooked, AppointmentCancelled, true},
		{"booked cannot skip to completed", AppointmentBooked, AppointmentCompleted, false},
		{"booked cannot no-show", AppointmentBooked, AppointmentNoShow, false},
		{"confirmed to in progress", AppointmentConfirmed, AppointmentInProgress, true},
		{"confirmed to no-show", AppointmentConfirmed, AppointmentNoShow, true},
		{"confirmed cannot go back to booked", AppointmentConfirmed, AppointmentBooked, false},
		{"in progress to completed", AppointmentInProgress, AppointmentCompleted, true},
		{"in progress to cancelled", AppointmentInProgress, AppointmentCancelled, true},
		{"completed is terminal", AppointmentCompleted, AppointmentCancelled, false},
		{"cancelled is terminal", AppointmentCancelled, AppointmentBooked, false},
		{"no-show is terminal", AppointmentNoShow, AppointmentConfirmed, false},
		{"no self transition", AppointmentBooked, AppointmentBooked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.False(t, AppointmentBooked.Terminal())
	assert.False(t, AppointmentConfirmed.Terminal())
	assert.False(t, AppointmentInProgress.Terminal())
	assert.True(t, AppointmentCompleted.Terminal())
	assert.True(t, AppointmentCancelled.Terminal())
	assert.True(t, AppointmentNoShow.Terminal())
}

func TestKnownRoles(t *testing.T) {
	assert.True(t, KnownRoles[RoleAdmin])
	assert.True(t, KnownRoles[RolePatient])
	assert.False(t, KnownRoles[Role("SUPERUSER")])
	assert.False(t, KnownRoles[Role("")])
}

func TestInvoiceStatusPayable(t *testing.T) {
	assert.True(t, InvoiceDraft.Payable())
	assert.True(t, InvoiceSent.Payable())
	assert.True(t, InvoiceOverdue.Payable())
	assert.False(t, InvoicePaid.Payable())
	assert.False(t, InvoiceCancelled.Payable())
}
