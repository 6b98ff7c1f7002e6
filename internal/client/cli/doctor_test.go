package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

func TestDoctorLoop_AcceptRefetchesSchedule(t *testing.T) {
	captureOutput(t)

	fc := &fakeClient{
		appts: []models.Appointment{
			{ID: "a1", PatientName: "Bob", Slot: time.Now().Add(48 * time.Hour), Status: models.AppointmentRequested},
		},
	}
	a := loggedInApp(t, fc, models.RoleDoctor, "Dr. Grey")

	scriptInputs(t, "accept 1", "exit")
	quit := a.doctorLoop(context.Background())

	require.True(t, quit)
	require.Equal(t, []string{"a1"}, fc.accepted)
}

func TestDoctorLoop_AcceptBadIndex(t *testing.T) {
	out := captureOutput(t)

	fc := &fakeClient{}
	a := loggedInApp(t, fc, models.RoleDoctor, "Dr. Grey")

	scriptInputs(t, "accept 3", "exit")
	a.doctorLoop(context.Background())

	require.Contains(t, out.String(), "No such pending appointment")
	require.Empty(t, fc.accepted)
}

func TestDoctorLoop_PrescribeSubmitsForm(t *testing.T) {
	captureOutput(t)

	fc := &fakeClient{
		appts: []models.Appointment{
			{ID: "a1", PatientID: "p1", PatientName: "Bob", Slot: time.Now().Add(time.Hour), Status: models.AppointmentAccepted},
		},
	}
	a := loggedInApp(t, fc, models.RoleDoctor, "Dr. Grey")

	scriptInputs(t,
		"prescribe",
		"1",           // appointment selector
		"Sinusitis",   // diagnosis
		"Amoxicillin", // medicine name
		"500mg",
		"3x daily",
		"7 days",
		"", // ends the medicine loop
		"Plenty of rest",
		"exit",
	)
	a.doctorLoop(context.Background())

	require.Len(t, fc.prescs, 1)
	p := fc.prescs[0]
	require.Equal(t, "a1", p.AppointmentID)
	require.Equal(t, "p1", p.PatientID)
	require.Equal(t, "Sinusitis", p.Diagnosis)
	require.Equal(t, "Plenty of rest", p.Notes)
	require.Len(t, p.Medicines, 1)
	require.Equal(t, models.Medicine{Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"}, p.Medicines[0])
}

func TestDoctorLoop_UnauthorizedTearsDownSession(t *testing.T) {
	out := captureOutput(t)

	fc := &fakeClient{apptsErr: api.ErrUnauthorized}
	a := loggedInApp(t, fc, models.RoleDoctor, "Dr. Grey")

	scriptInputs(t)
	quit := a.doctorLoop(context.Background())

	require.False(t, quit, "teardown must fall back to the login prompt")
	require.Contains(t, out.String(), "Session expired")
	if _, ok := a.session.Identity(); ok {
		t.Fatal("identity survived teardown")
	}
}
