package cli

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/ehealth/portal/internal/client/models"
	"github.com/ehealth/portal/internal/client/views"
)

// doctorLoop drives the doctor dashboard. The schedule is re-fetched after
// every successful mutation; there are no incremental updates.
func (a *App) doctorLoop(ctx context.Context) bool {
	sched, ok := a.loadSchedule(ctx)
	if !ok {
		return false
	}

	for {
		line, err := a.promptLine("doctor")
		if err != nil {
			return true
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: schedule, accept <n>, prescribe, logout, exit")

		case "schedule":
			if sched, ok = a.loadSchedule(ctx); !ok {
				return false
			}

		case "accept":
			if len(parts) < 2 {
				printlnFn("Usage: accept <n>")
				continue
			}
			appt, found := pick(sched.Pending, parts[1])
			if !found {
				notify("No such pending appointment")
				continue
			}
			cctx, cancel := a.cmdCtx(ctx)
			err := a.doctor.Accept(cctx, appt.ID)
			cancel()
			if a.checkAuth(ctx, err) {
				return false
			}
			if err != nil {
				notify("Failed to accept appointment: %v", err)
				continue
			}
			success("Appointment confirmed")
			if sched, ok = a.loadSchedule(ctx); !ok {
				return false
			}

		case "prescribe":
			done := a.prescribe(ctx, sched)
			if !done {
				return false
			}
			if sched, ok = a.loadSchedule(ctx); !ok {
				return false
			}

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

// loadSchedule fetches and renders the partitioned schedule. ok=false means
// the session was torn down and the caller must fall back to login.
func (a *App) loadSchedule(ctx context.Context) (views.SchedulePartition, bool) {
	cctx, cancel := a.cmdCtx(ctx)
	defer cancel()

	sched, err := a.doctor.Load(cctx)
	if a.checkAuth(ctx, err) {
		return views.SchedulePartition{}, false
	}
	if err != nil {
		notify("Failed to load schedule: %v", err)
		return views.SchedulePartition{}, true
	}

	renderDoctorAppointments("Pending requests", sched.Pending)
	renderDoctorAppointments("Today", sched.Today)
	renderDoctorAppointments("Upcoming", sched.Upcoming)
	return sched, true
}

// prescribe walks the prescription form against the approved appointment
// selector. Returns false only on session teardown.
func (a *App) prescribe(ctx context.Context, sched views.SchedulePartition) bool {
	if len(sched.Approved) == 0 {
		notify("No accepted appointments to prescribe for")
		return true
	}

	renderDoctorAppointments("Accepted appointments", sched.Approved)
	sel, err := getSimpleText(a.reader, "Appointment #", os.Stdout)
	if err != nil {
		return true
	}
	appt, found := pick(sched.Approved, sel)
	if !found {
		notify("No such appointment")
		return true
	}

	diagnosis, err := getSimpleText(a.reader, "Diagnosis", os.Stdout)
	if err != nil {
		return true
	}

	medicines := a.collectMedicines()

	notes, err := getSimpleText(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		return true
	}

	req := models.PrescriptionCreate{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		Diagnosis:     diagnosis,
		Medicines:     medicines,
		Notes:         notes,
	}

	cctx, cancel := a.cmdCtx(ctx)
	defer cancel()

	err = a.doctor.Prescribe(cctx, req)
	if a.checkAuth(ctx, err) {
		return false
	}
	if err != nil {
		notify("Failed to create prescription: %v", err)
		return true
	}
	success("Prescription created")
	return true
}

// collectMedicines reads medicine lines until an empty name is entered.
func (a *App) collectMedicines() []models.Medicine {
	var out []models.Medicine
	for {
		name, err := getSimpleText(a.reader, "Medicine name (empty to finish)", os.Stdout)
		if err != nil || name == "" {
			return out
		}
		m := models.Medicine{Name: name}
		m.Dosage, _ = getSimpleText(a.reader, "Dosage", os.Stdout)
		m.Frequency, _ = getSimpleText(a.reader, "Frequency", os.Stdout)
		m.Duration, _ = getSimpleText(a.reader, "Duration (optional)", os.Stdout)
		out = append(out, m)
	}
}

// pick resolves a 1-based table index against a rendered list.
func pick(list []models.Appointment, arg string) (models.Appointment, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(list) {
		return models.Appointment{}, false
	}
	return list[n-1], true
}
