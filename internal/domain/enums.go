package domain

// Role is the single role a user holds inside their clinic.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
	RolePatient      Role = "PATIENT"
)

// KnownRoles maps every valid role for cheap membership checks.
var KnownRoles = map[Role]bool{
	RoleAdmin:        true,
	RoleDoctor:       true,
	RoleReceptionist: true,
	RolePatient:      true,
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var KnownGenders = map[Gender]bool{
	GenderMale:   true,
	GenderFemale: true,
	GenderOther:  true,
}

type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusInvited UserStatus = "INVITED"
)

type AppointmentStatus string

const (
	AppointmentBooked     AppointmentStatus = "BOOKED"
	AppointmentConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentCompleted  AppointmentStatus = "COMPLETED"
	AppointmentCancelled  AppointmentStatus = "CANCELLED"
	AppointmentNoShow     AppointmentStatus = "NO_SHOW"
)

// appointmentTransitions lists the allowed next statuses per current status.
// COMPLETED, CANCELLED and NO_SHOW are terminal.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentBooked:     {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed:  {AppointmentInProgress, AppointmentCancelled, AppointmentNoShow},
	AppointmentInProgress: {AppointmentCompleted, AppointmentCancelled},
}

// CanTransition reports whether an appointment may move from one status to another.
func (s AppointmentStatus) CanTransition(to AppointmentStatus) bool {
	for _, next := range appointmentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status change is allowed.
func (s AppointmentStatus) Terminal() bool {
	return len(appointmentTransitions[s]) == 0
}

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "DRAFT"
	InvoiceSent      InvoiceStatus = "SENT"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceOverdue   InvoiceStatus = "OVERDUE"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Payable reports whether an invoice in this status can still accept money.
func (s InvoiceStatus) Payable() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoiceOverdue:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSucceeded PaymentStatus = "SUCCEEDED"
	PaymentFailed    PaymentStatus = "FAILED"
)
