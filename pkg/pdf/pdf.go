// Package pdf renders printable prescription and invoice documents.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

type PrescriptionDoc struct {
	ClinicName  string
	DoctorName  string
	PatientName string
	IssuedAt    time.Time
	Items       []PrescriptionLine
}

type PrescriptionLine struct {
	Name         string
	Dosage       string
	Duration     string
	Instructions string
}

// RenderPrescription produces a single-page prescription PDF.
func RenderPrescription(doc PrescriptionDoc) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	p.AddPage()

	header(p, doc.ClinicName, "Prescription")

	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, 7, fmt.Sprintf("Patient: %s", doc.PatientName), "", 1, "L", false, 0, "")
	p.CellFormat(0, 7, fmt.Sprintf("Prescriber: %s", doc.DoctorName), "", 1, "L", false, 0, "")
	p.CellFormat(0, 7, fmt.Sprintf("Date: %s", doc.IssuedAt.Format("2 January 2006")), "", 1, "L", false, 0, "")
	p.Ln(4)

	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(240, 240, 240)
	p.CellFormat(70, 8, "Medication", "1", 0, "L", true, 0, "")
	p.CellFormat(40, 8, "Dosage", "1", 0, "L", true, 0, "")
	p.CellFormat(35, 8, "Duration", "1", 0, "L", true, 0, "")
	p.CellFormat(45, 8, "Instructions", "1", 1, "L", true, 0, "")

	p.SetFont("Helvetica", "", 10)
	for _, item := range doc.Items {
		p.CellFormat(70, 8, item.Name, "1", 0, "L", false, 0, "")
		p.CellFormat(40, 8, item.Dosage, "1", 0, "L", false, 0, "")
		p.CellFormat(35, 8, item.Duration, "1", 0, "L", false, 0, "")
		p.CellFormat(45, 8, item.Instructions, "1", 1, "L", false, 0, "")
	}

	return output(p)
}

type InvoiceDoc struct {
	ClinicName  string
	PatientName string
	InvoiceID   string
	Status      string
	IssuedAt    time.Time
	Total       float64
	Lines       []InvoiceLine
}

type InvoiceLine struct {
	Description string
	Quantity    int
	UnitPrice   float64
}

// RenderInvoice produces a single-page invoice PDF.
func RenderInvoice(doc InvoiceDoc) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	p.AddPage()

	header(p, doc.ClinicName, "Invoice")

	p.SetFont("Helvetica", "", 11)
	p.CellFormat(0, 7, fmt.Sprintf("Invoice: %s", doc.InvoiceID), "", 1, "L", false, 0, "")
	p.CellFormat(0, 7, fmt.Sprintf("Billed to: %s", doc.PatientName), "", 1, "L", false, 0, "")
	p.CellFormat(0, 7, fmt.Sprintf("Issued: %s", doc.IssuedAt.Format("2 January 2006")), "", 1, "L", false, 0, "")
	p.CellFormat(0, 7, fmt.Sprintf("Status: %s", doc.Status), "", 1, "L", false, 0, "")
	p.Ln(4)

	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(240, 240, 240)
	p.CellFormat(95, 8, "Description", "1", 0, "L", true, 0, "")
	p.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	p.CellFormat(35, 8, "Unit price", "1", 0, "R", true, 0, "")
	p.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	p.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		p.CellFormat(95, 8, line.Description, "1", 0, "L", false, 0, "")
		p.CellFormat(25, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		p.CellFormat(35, 8, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		p.CellFormat(35, 8, fmt.Sprintf("%.2f", float64(line.Quantity)*line.UnitPrice), "1", 1, "R", false, 0, "")
	}

	p.SetFont("Helvetica", "B", 11)
	p.CellFormat(155, 9, "Total", "1", 0, "R", false, 0, "")
	p.CellFormat(35, 9, fmt.Sprintf("%.2f", doc.Total), "1", 1, "R", false, 0, "")

	return output(p)
}

func header(p *fpdf.Fpdf, clinicName, title string) {
	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(0, 10, clinicName, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 12)
	p.SetTextColor(100, 100, 100)
	p.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	p.SetTextColor(0, 0, 0)
	p.Ln(4)
}

func output(p *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
