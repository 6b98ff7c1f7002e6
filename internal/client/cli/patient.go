package cli

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ehealth/portal/internal/client/export"
	"github.com/ehealth/portal/internal/client/models"
	"github.com/ehealth/portal/internal/client/views"
)

// writePDF is a seam so tests can intercept the file write.
var writePDF = export.WritePrescriptionPDF

// patientLoop drives the patient dashboard.
func (a *App) patientLoop(ctx context.Context) bool {
	ov, ok := a.loadPatientOverview(ctx)
	if !ok {
		return false
	}

	for {
		line, err := a.promptLine("patient")
		if err != nil {
			return true
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: overview, book, prescriptions, export <n>, logout, exit")

		case "overview":
			if ov, ok = a.loadPatientOverview(ctx); !ok {
				return false
			}

		case "book":
			done := a.book(ctx, ov.Hospitals)
			if !done {
				return false
			}
			if ov, ok = a.loadPatientOverview(ctx); !ok {
				return false
			}

		case "prescriptions":
			renderPrescriptions(ov.Prescriptions)

		case "export":
			if len(parts) < 2 {
				printlnFn("Usage: export <n>")
				continue
			}
			a.exportPrescription(ov.Prescriptions, parts[1])

		case "logout":
			a.Logout(ctx)
			return false

		case "exit", "quit":
			printlnFn("Bye!")
			return true

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}

func (a *App) loadPatientOverview(ctx context.Context) (views.PatientOverview, bool) {
	cctx, cancel := a.cmdCtx(ctx)
	defer cancel()

	ov, err := a.patient.Load(cctx)
	if a.checkAuth(ctx, err) {
		return views.PatientOverview{}, false
	}
	if err != nil {
		notify("Failed to load dashboard: %v", err)
		return views.PatientOverview{}, true
	}

	renderPatientAppointments(ov.Appointments)
	renderPrescriptions(ov.Prescriptions)
	return ov, true
}

// book walks the booking form: hospital, then a doctor at that hospital,
// then a slot. Everything is validated client-side before the request goes
// out. Returns false only on session teardown.
func (a *App) book(ctx context.Context, hospitals []models.Hospital) bool {
	if len(hospitals) == 0 {
		notify("No hospitals available")
		return true
	}

	renderHospitals(hospitals)
	sel, err := getSimpleText(a.reader, "Hospital #", os.Stdout)
	if err != nil {
		return true
	}
	hIdx, err := strconv.Atoi(sel)
	if err != nil || hIdx < 1 || hIdx > len(hospitals) {
		notify("No such hospital")
		return true
	}
	hospital := hospitals[hIdx-1]

	cctx, cancel := a.cmdCtx(ctx)
	doctors, err := a.patient.DoctorsAt(cctx, hospital.HospitalID)
	cancel()
	if err != nil {
		notify("Could not fetch doctors for this hospital")
		return true
	}
	if len(doctors) == 0 {
		notify("No doctors at this hospital")
		return true
	}

	renderDoctors("Doctors", doctors)
	sel, err = getSimpleText(a.reader, "Doctor #", os.Stdout)
	if err != nil {
		return true
	}
	dIdx, err := strconv.Atoi(sel)
	if err != nil || dIdx < 1 || dIdx > len(doctors) {
		notify("No such doctor")
		return true
	}
	doctor := doctors[dIdx-1]

	slotText, err := getSimpleText(a.reader, "Slot (2006-01-02 15:04)", os.Stdout)
	if err != nil {
		return true
	}
	slot, err := time.ParseInLocation("2006-01-02 15:04", slotText, time.Local)
	if err != nil {
		notify("Please fill in all fields")
		return true
	}

	req := models.BookingRequest{
		HospitalID: hospital.HospitalID,
		DoctorID:   doctor.ID,
		Slot:       slot.UTC(),
	}

	cctx, cancel = a.cmdCtx(ctx)
	defer cancel()

	err = a.patient.Book(cctx, req)
	if a.checkAuth(ctx, err) {
		return false
	}
	if err != nil {
		notify("Booking failed: %v", err)
		return true
	}
	success("Appointment requested successfully!")
	return true
}

// exportPrescription renders one prescription to a PDF in the configured
// export directory. A malformed record is reported and changes nothing.
func (a *App) exportPrescription(prescriptions []models.Prescription, arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(prescriptions) {
		notify("No such prescription")
		return
	}

	ident, _ := a.session.Identity()
	path, err := writePDF(prescriptions[n-1], ident.Name, a.cfg.ExportDir)
	if err != nil {
		notify("Could not generate PDF: %v", err)
		return
	}
	success("Saved %s", path)
}
