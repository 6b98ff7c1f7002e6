package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

// memStore is an in-memory CredentialStore for tests.
type memStore struct {
	token   string
	getErr  error
	setErr  error
	clrErr  error
	cleared int
}

func (m *memStore) Get(context.Context) (string, error) { return m.token, m.getErr }
func (m *memStore) Set(_ context.Context, t string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.token = t
	return nil
}
func (m *memStore) Clear(context.Context) error {
	m.cleared++
	if m.clrErr != nil {
		return m.clrErr
	}
	m.token = ""
	return nil
}

// fakeClient satisfies api.Client; only the members a test cares about are
// wired up.
type fakeClient struct {
	loginToken string
	loginErr   error
	loginAud   api.Audience

	regProfile models.RegisterProfile
	regErr     error

	token      string
	setCalls   int
	clearCalls int
}

func (f *fakeClient) Login(_ context.Context, _ models.Credentials, aud api.Audience) (string, error) {
	f.loginAud = aud
	return f.loginToken, f.loginErr
}
func (f *fakeClient) Register(_ context.Context, p models.RegisterProfile) error {
	f.regProfile = p
	return f.regErr
}
func (f *fakeClient) MyAppointments(context.Context) ([]models.Appointment, error) { return nil, nil }
func (f *fakeClient) AcceptAppointment(context.Context, string) error              { return nil }
func (f *fakeClient) CreatePrescription(context.Context, models.PrescriptionCreate) error {
	return nil
}
func (f *fakeClient) Overview(context.Context) (models.Overview, error) {
	return models.Overview{}, nil
}
func (f *fakeClient) Doctors(context.Context) ([]models.Doctor, error)    { return nil, nil }
func (f *fakeClient) ApproveDoctor(context.Context, string) error         { return nil }
func (f *fakeClient) RejectDoctor(context.Context, string) error          { return nil }
func (f *fakeClient) PatientAppointments(context.Context) ([]models.Appointment, error) {
	return nil, nil
}
func (f *fakeClient) PatientPrescriptions(context.Context) ([]models.Prescription, error) {
	return nil, nil
}
func (f *fakeClient) Hospitals(context.Context) ([]models.Hospital, error) { return nil, nil }
func (f *fakeClient) HospitalDoctors(context.Context, string) ([]models.Doctor, error) {
	return nil, nil
}
func (f *fakeClient) BookAppointment(context.Context, models.BookingRequest) error { return nil }
func (f *fakeClient) DoctorProfile(context.Context, string) (models.Doctor, error) {
	return models.Doctor{}, nil
}
func (f *fakeClient) SetToken(t string) { f.token = t; f.setCalls++ }
func (f *fakeClient) ClearToken()       { f.token = ""; f.clearCalls++ }

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, userID, role, name string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"name":    name,
		"exp":     exp.Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newTestSession(store CredentialStore, client api.Client) *Session {
	s := New(store, client, zerolog.Nop())
	s.now = func() time.Time { return testNow }
	return s
}

func TestInitialize_NoCredential(t *testing.T) {
	st := &memStore{}
	fc := &fakeClient{}
	s := newTestSession(st, fc)

	require.NoError(t, s.Initialize(context.Background()))

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Zero(t, fc.setCalls)
}

func TestInitialize_ExpiredCredentialClearedSilently(t *testing.T) {
	st := &memStore{token: signedToken(t, "u1", "PATIENT", "Pat", testNow.Add(-time.Hour))}
	fc := &fakeClient{}
	s := newTestSession(st, fc)

	require.NoError(t, s.Initialize(context.Background()))

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Empty(t, st.token, "expired credential must be discarded")
	assert.Equal(t, 1, st.cleared)
	assert.Zero(t, fc.setCalls)
}

func TestInitialize_MalformedCredentialTreatedLikeExpired(t *testing.T) {
	st := &memStore{token: "not-a-jwt"}
	fc := &fakeClient{}
	s := newTestSession(st, fc)

	require.NoError(t, s.Initialize(context.Background()))

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Equal(t, 1, st.cleared)
}

func TestInitialize_ValidCredentialPopulatesIdentity(t *testing.T) {
	tok := signedToken(t, "u42", "DOCTOR", "Greg", testNow.Add(time.Hour))
	st := &memStore{token: tok}
	fc := &fakeClient{}
	s := newTestSession(st, fc)

	require.NoError(t, s.Initialize(context.Background()))

	ident, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, models.Identity{ID: "u42", Role: models.RoleDoctor, Name: "Greg"}, ident)
	assert.Equal(t, tok, fc.token, "bearer token must be armed")
}

func TestLogin_Success(t *testing.T) {
	tok := signedToken(t, "u7", "HOSPITAL_ADMIN", "Ana", testNow.Add(time.Hour))
	st := &memStore{}
	fc := &fakeClient{loginToken: tok}
	s := newTestSession(st, fc)

	ident, err := s.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "pw"}, api.AudienceHospitalAdmin)
	require.NoError(t, err)

	assert.Equal(t, api.AudienceHospitalAdmin, fc.loginAud)
	assert.Equal(t, models.RoleHospitalAdmin, ident.Role)
	assert.Equal(t, tok, st.token, "token must be persisted")
	assert.Equal(t, tok, fc.token, "bearer token must be armed")

	got, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, ident, got)
}

func TestLogin_FailureMutatesNothing(t *testing.T) {
	st := &memStore{}
	fc := &fakeClient{loginErr: &api.APIError{Status: 400, Detail: "Invalid credentials"}}
	s := newTestSession(st, fc)

	_, err := s.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "pw"}, api.AudienceUser)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Detail)

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Empty(t, st.token)
	assert.Zero(t, fc.setCalls)
}

func TestLogin_RejectsEmptyCredentialsBeforeNetwork(t *testing.T) {
	st := &memStore{}
	fc := &fakeClient{loginToken: "should-not-be-used"}
	s := newTestSession(st, fc)

	_, err := s.Login(context.Background(), models.Credentials{}, api.AudienceUser)
	require.Error(t, err)
	assert.Equal(t, api.Audience(""), fc.loginAud, "no network call expected")
}

func TestLoginThenLogout_RoundTripToEmpty(t *testing.T) {
	tok := signedToken(t, "u1", "PATIENT", "Pat", testNow.Add(time.Hour))
	st := &memStore{}
	fc := &fakeClient{loginToken: tok}
	s := newTestSession(st, fc)

	_, err := s.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "pw"}, api.AudienceUser)
	require.NoError(t, err)

	s.Logout(context.Background())

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Empty(t, st.token, "storage back to empty")
	assert.Empty(t, fc.token, "bearer config back to empty")
}

func TestLogout_StorageFailureIsSwallowed(t *testing.T) {
	st := &memStore{clrErr: errors.New("disk gone")}
	fc := &fakeClient{}
	s := newTestSession(st, fc)

	assert.NotPanics(t, func() { s.Logout(context.Background()) })
	assert.Empty(t, fc.token)
}

func TestRegister_DoesNotTouchSessionState(t *testing.T) {
	st := &memStore{}
	fc := &fakeClient{}
	s := newTestSession(st, fc)

	profile := models.RegisterProfile{
		Name: "Pat", Email: "pat@example.org", Password: "secret1", Role: "patient",
	}
	require.NoError(t, s.Register(context.Background(), profile))
	assert.Equal(t, profile, fc.regProfile)

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Empty(t, st.token)
}

func TestRegister_DoctorRequiresLicenseAndHospital(t *testing.T) {
	s := newTestSession(&memStore{}, &fakeClient{})

	err := s.Register(context.Background(), models.RegisterProfile{
		Name: "Greg", Email: "greg@example.org", Password: "secret1", Role: "doctor",
	})
	require.Error(t, err, "doctor profile without specialization/license/hospital must fail validation")
}

func TestHandleUnauthorized_ExactlyOnce(t *testing.T) {
	tok := signedToken(t, "u1", "PATIENT", "Pat", testNow.Add(time.Hour))
	st := &memStore{}
	fc := &fakeClient{loginToken: tok}
	s := newTestSession(st, fc)

	_, err := s.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "pw"}, api.AudienceUser)
	require.NoError(t, err)

	assert.True(t, s.HandleUnauthorized(context.Background()), "first 401 tears down")
	assert.False(t, s.HandleUnauthorized(context.Background()), "second 401 is a no-op")

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Empty(t, st.token)

	// A fresh login re-arms the guard.
	_, err = s.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "pw"}, api.AudienceUser)
	require.NoError(t, err)
	assert.True(t, s.HandleUnauthorized(context.Background()))
}
