package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPrescription(t *testing.T) {
	data, err := RenderPrescription(PrescriptionDoc{
		ClinicName:  "Riverside Clinic",
		DoctorName:  "Dr. Ada Osei",
		PatientName: "John Smith",
		IssuedAt:    time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Items: []PrescriptionLine{
			{Name: "Amoxicillin 500mg", Dosage: "1 capsule 3x daily", Duration: "7 days"},
			{Name: "Ibuprofen 400mg", Dosage: "1 tablet as needed", Duration: "5 days", Instructions: "Take with food"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderInvoice(t *testing.T) {
	data, err := RenderInvoice(InvoiceDoc{
		ClinicName:  "Riverside Clinic",
		PatientName: "John Smith",
		InvoiceID:   "6cf2a7f0-0000-0000-0000-000000000000",
		Status:      "SENT",
		IssuedAt:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Total:       95,
		Lines: []InvoiceLine{
			{Description: "General consultation", Quantity: 1, UnitPrice: 60},
			{Description: "Follow-up visit", Quantity: 1, UnitPrice: 35},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderPrescriptionEmptyItems(t *testing.T) {
	data, err := RenderPrescription(PrescriptionDoc{
		ClinicName:  "Riverside Clinic",
		DoctorName:  "Dr. Ada Osei",
		PatientName: "John Smith",
		IssuedAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
