// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AppointmentsBooked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medflow_appointments_booked_total",
		Help: "Appointments booked, by entry path (staff or portal).",
	}, []string{"source"})

	AppointmentConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medflow_appointment_conflicts_total",
		Help: "Booking attempts rejected because the doctor slot overlapped.",
	})

	InvoicesPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medflow_invoices_paid_total",
		Help: "Invoices marked paid, by path (manual or webhook).",
	}, []string{"via"})

	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medflow_login_failures_total",
		Help: "Failed login attempts.",
	})

	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medflow_stripe_webhook_events_total",
		Help: "Stripe webhook deliveries, by outcome.",
	}, []string{"outcome"})
)
