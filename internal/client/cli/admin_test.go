package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ehealth/portal/internal/client/models"
)

func adminFake() *fakeClient {
	return &fakeClient{
		overview: models.Overview{HospitalName: "General", City: "Riga", PendingApprovals: 1},
		doctors: []models.Doctor{
			{ID: "d1", Name: "Dr. Grey", Specialization: "Cardiology", Status: models.ApprovalApproved},
			{ID: "d2", Name: "Dr. Shepherd", Specialization: "Neurology", Status: models.ApprovalPending},
		},
	}
}

func TestAdminLoop_ApprovePendingDoctor(t *testing.T) {
	captureOutput(t)

	fc := adminFake()
	a := loggedInApp(t, fc, models.RoleHospitalAdmin, "Admin")

	// only d2 is pending, so index 1 resolves to it
	scriptInputs(t, "approve 1", "exit")
	a.adminLoop(context.Background())

	require.Equal(t, []string{"d2"}, fc.approved)
	require.Empty(t, fc.rejected)
}

func TestAdminLoop_RejectBadIndex(t *testing.T) {
	out := captureOutput(t)

	fc := adminFake()
	a := loggedInApp(t, fc, models.RoleHospitalAdmin, "Admin")

	scriptInputs(t, "reject 5", "exit")
	a.adminLoop(context.Background())

	require.Contains(t, out.String(), "No such pending doctor")
	require.Empty(t, fc.rejected)
}

func TestAdminLoop_DoctorsFilter(t *testing.T) {
	out := captureOutput(t)

	fc := adminFake()
	a := loggedInApp(t, fc, models.RoleHospitalAdmin, "Admin")

	scriptInputs(t, "doctors neuro", "exit")
	a.adminLoop(context.Background())

	require.Contains(t, out.String(), "Dr. Shepherd")
}

func TestAdminLoop_OverviewHeader(t *testing.T) {
	out := captureOutput(t)

	fc := adminFake()
	a := loggedInApp(t, fc, models.RoleHospitalAdmin, "Admin")

	scriptInputs(t, "exit")
	a.adminLoop(context.Background())

	// no state seeded, so the header ends at the city
	require.Contains(t, out.String(), "General, Riga\n")
}

func TestAdminLoop_OverviewHeaderWithState(t *testing.T) {
	out := captureOutput(t)

	fc := adminFake()
	fc.overview.State = "Vidzeme"
	a := loggedInApp(t, fc, models.RoleHospitalAdmin, "Admin")

	scriptInputs(t, "exit")
	a.adminLoop(context.Background())

	require.Contains(t, out.String(), "General, Riga, Vidzeme\n")
}

func TestAdminLoop_FilterScopesDecisionIndex(t *testing.T) {
	captureOutput(t)

	fc := adminFake()
	fc.doctors = append(fc.doctors, models.Doctor{
		ID: "d3", Name: "Dr. Bailey", Specialization: "Surgery", Status: models.ApprovalPending,
	})
	a := loggedInApp(t, fc, models.RoleHospitalAdmin, "Admin")

	// filtering narrows the pending list, so index 1 now means Dr. Bailey
	scriptInputs(t, "doctors bailey", "approve 1", "exit")
	a.adminLoop(context.Background())

	require.Equal(t, []string{"d3"}, fc.approved)
}
