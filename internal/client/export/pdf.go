// Package export renders one prescription record into a printable PDF
// document. The layout is fixed: header band, two-column patient/prescriber
// info, diagnosis line, a medicine table, an optional notes block and a
// trailing integrity-hash line. Rendering is pure and deterministic given
// its inputs.
package export

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/ehealth/portal/internal/client/models"
)

// ErrMalformedRecord is returned when the record cannot identify itself; a
// document without an ID and hash would not be verifiable.
var ErrMalformedRecord = errors.New("prescription record is malformed")

const (
	pageWidth  = 210.0 // A4 portrait, mm
	marginLeft = 14.0
	bandHeight = 40.0
)

// WritePrescriptionPDF renders p into dir and returns the written file path.
// patientName comes from the session identity; the record itself does not
// carry it.
func WritePrescriptionPDF(p models.Prescription, patientName, dir string) (string, error) {
	if p.ID == "" {
		return "", ErrMalformedRecord
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	// Header band.
	doc.SetFillColor(13, 148, 136)
	doc.Rect(0, 0, pageWidth, bandHeight, "F")
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 22)
	doc.SetXY(0, 12)
	doc.CellFormat(pageWidth, 10, "MEDICAL PRESCRIPTION", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(pageWidth, 6, "Official Medical Document", "", 1, "C", false, 0, "")

	// Patient column.
	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 12)
	doc.SetXY(marginLeft, 46)
	doc.CellFormat(90, 6, "PATIENT INFORMATION", "", 2, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	name := patientName
	if name == "" {
		name = "N/A"
	}
	doc.CellFormat(90, 6, "Name: "+name, "", 2, "L", false, 0, "")
	doc.CellFormat(90, 6, "Date Issued: "+p.CreatedAt.Format("02 Jan 2006"), "", 2, "L", false, 0, "")

	// Prescriber column.
	doc.SetFont("Helvetica", "B", 12)
	doc.SetXY(120, 46)
	doc.CellFormat(80, 6, "PRESCRIBED BY", "", 2, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doctor := p.DoctorName
	if doctor == "" {
		doctor = "Unknown"
	}
	doc.CellFormat(80, 6, "Dr. "+doctor, "", 2, "L", false, 0, "")
	if p.DoctorSpecialization != "" {
		doc.CellFormat(80, 6, p.DoctorSpecialization, "", 2, "L", false, 0, "")
	}
	if p.HospitalName != "" {
		doc.CellFormat(80, 6, p.HospitalName, "", 2, "L", false, 0, "")
	}

	// Diagnosis line.
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(13, 148, 136)
	doc.SetXY(marginLeft, 78)
	doc.CellFormat(0, 8, "DIAGNOSIS: "+p.Diagnosis, "", 1, "L", false, 0, "")

	writeMedicineTable(doc, p.Medicines)

	// Notes block.
	if p.Notes != "" {
		doc.Ln(6)
		doc.SetFont("Helvetica", "B", 11)
		doc.SetTextColor(0, 0, 0)
		doc.SetX(marginLeft)
		doc.CellFormat(0, 6, "DOCTOR'S NOTES:", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 9)
		doc.SetX(marginLeft)
		doc.MultiCell(180, 5, p.Notes, "", "L", false)
	}

	// Integrity trailer.
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 7)
	doc.SetTextColor(100, 100, 100)
	doc.SetX(marginLeft)
	doc.CellFormat(0, 4, "Verification Hash: "+p.Hash, "", 1, "L", false, 0, "")
	doc.SetX(marginLeft)
	doc.CellFormat(0, 4, "Document ID: "+p.ID, "", 1, "L", false, 0, "")

	path := filepath.Join(dir, fmt.Sprintf("Prescription_%s.pdf", p.ID))
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

func writeMedicineTable(doc *fpdf.Fpdf, medicines []models.Medicine) {
	doc.SetXY(marginLeft, 88)

	headers := []string{"Medicine", "Dosage", "Frequency", "Duration"}
	widths := []float64{60, 40, 42, 40}

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(13, 148, 136)
	doc.SetTextColor(255, 255, 255)
	for i, h := range headers {
		doc.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	for _, m := range medicines {
		duration := m.Duration
		if duration == "" {
			duration = "-"
		}
		doc.SetX(marginLeft)
		doc.CellFormat(widths[0], 7, m.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 7, m.Dosage, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], 7, m.Frequency, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[3], 7, duration, "1", 1, "L", false, 0, "")
	}
}
