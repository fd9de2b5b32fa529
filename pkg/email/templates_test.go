package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildInvitationEmail(t *testing.T) {
	msg := BuildInvitationEmail(InvitationEmailData{
		Name:          "Ada Osei",
		Email:         "ada@example.com",
		ClinicName:    "Riverside Clinic",
		Role:          "DOCTOR",
		InvitationURL: "https://app.example.com/auth/set-password?token=abc",
		ExpiresInHrs:  72,
	})

	assert.Equal(t, []string{"ada@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "Riverside Clinic")
	assert.Contains(t, msg.TextBody, "https://app.example.com/auth/set-password?token=abc")
	assert.Contains(t, msg.TextBody, "72 hours")
	assert.Contains(t, msg.HTMLBody, "https://app.example.com/auth/set-password?token=abc")
	assert.Contains(t, msg.TextBody, "DOCTOR")
}

func TestBuildInvitationEmailFallbacks(t *testing.T) {
	msg := BuildInvitationEmail(InvitationEmailData{
		Email:      "new@example.com",
		ClinicName: "Riverside Clinic",
	})

	assert.Contains(t, msg.TextBody, "Hi there")
	assert.Contains(t, msg.Subject, "MedFlow")
}

func TestBuildAppointmentConfirmationEmail(t *testing.T) {
	msg := BuildAppointmentConfirmationEmail(AppointmentEmailData{
		PatientName: "John Smith",
		Email:       "john@example.com",
		ClinicName:  "Riverside Clinic",
		DoctorName:  "Dr. Ada Osei",
		ServiceName: "General consultation",
		StartAt:     time.Date(2026, 3, 16, 9, 30, 0, 0, time.UTC),
	})

	assert.Equal(t, []string{"john@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "Riverside Clinic")
	assert.Contains(t, msg.TextBody, "Dr. Ada Osei")
	assert.Contains(t, msg.TextBody, "Monday, 16 March 2026 at 09:30")
	assert.Contains(t, msg.HTMLBody, "General consultation")
}

func TestBuildPaymentReceiptEmail(t *testing.T) {
	msg := BuildPaymentReceiptEmail(ReceiptEmailData{
		PatientName: "John Smith",
		Email:       "john@example.com",
		ClinicName:  "Riverside Clinic",
		InvoiceID:   "inv-42",
		Total:       95.50,
		PaidAt:      time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, []string{"john@example.com"}, msg.To)
	assert.Contains(t, msg.TextBody, "inv-42")
	assert.Contains(t, msg.TextBody, "95.50")
}
