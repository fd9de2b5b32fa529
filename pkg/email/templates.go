package email

import (
	"fmt"
	"time"
)

// InvitationEmailData contains the data needed for staff invitation emails.
type InvitationEmailData struct {
	Name          string
	Email         string
	ClinicName    string
	Role          string
	InvitationURL string
	ExpiresInHrs  int
	AppName       string
}

// BuildInvitationEmail creates the email sent to newly invited staff members.
func BuildInvitationEmail(data InvitationEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "MedFlow"
	}

	name := data.Name
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("You've been invited to join %s on %s", data.ClinicName, appName)

	textBody := fmt.Sprintf(`Hi %s,

You've been invited to join %s on %s as %s.

Click the link below to set your password and activate your account:
%s

This invitation expires in %d hours.

Thanks,
The %s Team`,
		name, data.ClinicName, appName, data.Role, data.InvitationURL, data.ExpiresInHrs, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>You've been invited to join <strong>%s</strong> on %s as <strong>%s</strong>.</p>
    <p>Click the button below to set your password and activate your account:</p>
    <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="background-color: #16a34a; color: white; padding: 14px 28px; text-decoration: none; border-radius: 6px; display: inline-block; font-size: 16px;">Accept Invitation</a>
    </p>
    <p style="color: #6b7280; font-size: 14px;"><em>This invitation expires in %d hours.</em></p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, data.ClinicName, appName, data.Role, data.InvitationURL, data.ExpiresInHrs, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// AppointmentEmailData contains the data needed for appointment emails.
type AppointmentEmailData struct {
	PatientName string
	Email       string
	ClinicName  string
	DoctorName  string
	ServiceName string
	StartAt     time.Time
	AppName     string
}

// BuildAppointmentConfirmationEmail creates the booking confirmation sent to patients.
func BuildAppointmentConfirmationEmail(data AppointmentEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "MedFlow"
	}

	name := data.PatientName
	if name == "" {
		name = "there"
	}

	when := data.StartAt.Format("Monday, 2 January 2006 at 15:04")
	subject := fmt.Sprintf("Your appointment at %s is booked", data.ClinicName)

	textBody := fmt.Sprintf(`Hi %s,

Your appointment has been booked.

Clinic:  %s
Doctor:  %s
Service: %s
When:    %s

If you need to reschedule, please contact the clinic.

Thanks,
The %s Team`,
		name, data.ClinicName, data.DoctorName, data.ServiceName, when, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your appointment has been booked.</p>
    <table style="border-collapse: collapse; margin: 20px 0;">
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">Clinic</td><td><strong>%s</strong></td></tr>
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">Doctor</td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">Service</td><td>%s</td></tr>
        <tr><td style="padding: 4px 12px 4px 0; color: #6b7280;">When</td><td>%s</td></tr>
    </table>
    <p style="color: #6b7280; font-size: 14px;">If you need to reschedule, please contact the clinic.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, data.ClinicName, data.DoctorName, data.ServiceName, when, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// ReceiptEmailData contains the data needed for payment receipt emails.
type ReceiptEmailData struct {
	PatientName string
	Email       string
	ClinicName  string
	InvoiceID   string
	Total       float64
	PaidAt      time.Time
	AppName     string
}

// BuildPaymentReceiptEmail creates the receipt sent after an invoice is paid.
func BuildPaymentReceiptEmail(data ReceiptEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "MedFlow"
	}

	name := data.PatientName
	if name == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Payment received — %s", data.ClinicName)

	textBody := fmt.Sprintf(`Hi %s,

We've received your payment.

Invoice: %s
Amount:  %.2f
Paid at: %s

Thanks,
The %s Team`,
		name, data.InvoiceID, data.Total, data.PaidAt.Format("2 January 2006 15:04"), appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #16a34a;">Hi %s,</h2>
    <p>We've received your payment.</p>
    <p style="background-color: #f3f4f6; padding: 15px; border-radius: 6px;">
        Invoice <strong>%s</strong><br>
        Amount <strong>%.2f</strong><br>
        Paid at %s
    </p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		name, data.InvoiceID, data.Total, data.PaidAt.Format("2 January 2006 15:04"), appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
