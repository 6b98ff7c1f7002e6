package cli

import (
	"bufio"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

func TestRegister_DoctorCollectsExtraFields(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "secret1")

	fc := &fakeClient{}
	a := newTestApp(t, fc, &memStore{})

	scriptInputs(t,
		"doctor",
		"Meredith Grey",
		"grey@example.org",
		"+371 20000000",
		"HOSP-1", // hospital code
		"Cardiology",
		"LIC-42",
	)
	require.NoError(t, a.Register(context.Background()))

	require.NotNil(t, fc.registered)
	p := *fc.registered
	require.Equal(t, "doctor", p.Role)
	require.Equal(t, "Meredith Grey", p.Name)
	require.Equal(t, "grey@example.org", p.Email)
	require.Equal(t, "secret1", p.Password)
	require.Equal(t, "HOSP-1", p.HospitalID)
	require.Equal(t, "Cardiology", p.Specialization)
	require.Equal(t, "LIC-42", p.LicenseNumber)
}

func TestRegister_PatientSkipsDoctorFields(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "secret1")

	fc := &fakeClient{}
	a := newTestApp(t, fc, &memStore{})

	scriptInputs(t,
		"patient",
		"Bob",
		"bob@example.org",
		"", // phone optional
	)
	require.NoError(t, a.Register(context.Background()))

	require.NotNil(t, fc.registered)
	require.Equal(t, "patient", fc.registered.Role)
	require.Empty(t, fc.registered.HospitalID)
	require.Empty(t, fc.registered.LicenseNumber)
}

func TestRegister_DoesNotLogIn(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "secret1")

	store := &memStore{}
	a := newTestApp(t, &fakeClient{}, store)

	scriptInputs(t, "patient", "Bob", "bob@example.org", "")
	require.NoError(t, a.Register(context.Background()))

	require.Empty(t, store.token)
	if _, ok := a.session.Identity(); ok {
		t.Fatal("registration must not establish a session")
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	out := captureOutput(t)

	fc := &fakeClient{}
	a := loggedInApp(t, fc, models.RolePatient, "Bob")

	a.Logout(context.Background())

	require.Contains(t, out.String(), "Logged out")
	require.Empty(t, fc.token)
	if _, ok := a.session.Identity(); ok {
		t.Fatal("identity survived logout")
	}
}

func TestRun_ResumesPersistedSession(t *testing.T) {
	out := captureOutput(t)

	fc := &fakeClient{}
	store := &memStore{token: signedToken(t, "u1", models.RolePatient, "Bob", time.Now().Add(time.Hour))}
	a := newTestApp(t, fc, store)

	// straight into the patient dashboard, then quit
	scriptInputs(t, "exit")
	require.NoError(t, a.Run(context.Background()))

	require.Contains(t, out.String(), "Logged in as Bob")
}

func TestRun_ExpiredCredentialFallsToPrompt(t *testing.T) {
	out := captureOutput(t)

	store := &memStore{token: signedToken(t, "u1", models.RolePatient, "Bob", time.Now().Add(-time.Hour))}
	a := newTestApp(t, &fakeClient{}, store)

	scriptInputs(t, "exit")
	require.NoError(t, a.Run(context.Background()))

	require.NotContains(t, out.String(), "Logged in as")
	require.Empty(t, store.token, "expired credential must be discarded")
}

func TestLoginPromptEOFPropagates(t *testing.T) {
	captureOutput(t)

	a := newTestApp(t, &fakeClient{}, &memStore{})

	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return "", io.EOF }
	t.Cleanup(func() { getSimpleText = orig })

	err := a.Login(context.Background(), api.AudienceUser)
	require.ErrorIs(t, err, io.EOF)
}
