package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ehealth/portal/internal/client/models"
)

func TestPatientLoop_BookWalksSelectors(t *testing.T) {
	captureOutput(t)

	fc := &fakeClient{
		hospitals: []models.Hospital{
			{HospitalID: "h1", HospitalName: "General", City: "Riga"},
			{HospitalID: "h2", HospitalName: "Central", City: "Riga"},
		},
		hospitalDoctors: []models.Doctor{
			{ID: "d1", Name: "Dr. Grey", Specialization: "Cardiology"},
		},
	}
	a := loggedInApp(t, fc, models.RolePatient, "Bob")

	scriptInputs(t,
		"book",
		"2",                // hospital selector
		"1",                // doctor selector
		"2026-09-15 10:30", // slot
		"exit",
	)
	a.patientLoop(context.Background())

	require.Len(t, fc.booked, 1)
	req := fc.booked[0]
	require.Equal(t, "h2", req.HospitalID)
	require.Equal(t, "d1", req.DoctorID)
	want := time.Date(2026, 9, 15, 10, 30, 0, 0, time.Local).UTC()
	require.True(t, req.Slot.Equal(want), "slot %v, want %v", req.Slot, want)
}

func TestPatientLoop_BookBadHospitalIndex(t *testing.T) {
	out := captureOutput(t)

	fc := &fakeClient{
		hospitals: []models.Hospital{{HospitalID: "h1", HospitalName: "General"}},
	}
	a := loggedInApp(t, fc, models.RolePatient, "Bob")

	scriptInputs(t, "book", "9", "exit")
	a.patientLoop(context.Background())

	require.Contains(t, out.String(), "No such hospital")
	require.Empty(t, fc.booked)
}

func TestPatientLoop_ExportWritesPDF(t *testing.T) {
	out := captureOutput(t)

	fc := &fakeClient{
		patientPrescs: []models.Prescription{
			{ID: "rx1", Diagnosis: "Sinusitis", DoctorID: "d1", HospitalID: "h1"},
		},
		hospitals: []models.Hospital{{HospitalID: "h1", HospitalName: "General"}},
		profile:   models.Doctor{ID: "d1", Name: "Dr. Grey", Specialization: "ENT"},
	}
	a := loggedInApp(t, fc, models.RolePatient, "Bob")

	var gotID, gotPatient, gotDir string
	orig := writePDF
	writePDF = func(p models.Prescription, patientName, dir string) (string, error) {
		gotID, gotPatient, gotDir = p.ID, patientName, dir
		return dir + "/Prescription_rx1.pdf", nil
	}
	t.Cleanup(func() { writePDF = orig })

	scriptInputs(t, "export 1", "exit")
	a.patientLoop(context.Background())

	require.Equal(t, "rx1", gotID)
	require.Equal(t, "Bob", gotPatient)
	require.Equal(t, a.cfg.ExportDir, gotDir)
	require.Contains(t, out.String(), "Saved")
}

func TestPatientLoop_ExportBadIndex(t *testing.T) {
	out := captureOutput(t)

	a := loggedInApp(t, &fakeClient{}, models.RolePatient, "Bob")

	scriptInputs(t, "export 1", "exit")
	a.patientLoop(context.Background())

	require.Contains(t, out.String(), "No such prescription")
}
