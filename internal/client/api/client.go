// Package api is the REST client for the e-health backend. It exposes one
// method per backend endpoint and normalises failures to sentinel errors so
// the views can decide between "log in again" and "show a notification"
// without inspecting status codes.
package api

import (
	"context"

	"github.com/ehealth/portal/internal/client/models"
)

// Audience selects which of the three login endpoints a credential exchange
// goes to. This is routing, not a different protocol.
type Audience string

const (
	AudienceUser          Audience = "user"
	AudienceHospitalAdmin Audience = "hospital-admin"
	AudienceSystemAdmin   Audience = "system-admin"
)

// loginPaths is a total mapping; unknown audiences fall back to the default
// end-user endpoint.
var loginPaths = map[Audience]string{
	AudienceUser:          "/login",
	AudienceHospitalAdmin: "/login/hospital-admin",
	AudienceSystemAdmin:   "/login/system-admin",
}

// LoginPath returns the endpoint for an audience.
func LoginPath(a Audience) string {
	if p, ok := loginPaths[a]; ok {
		return p
	}
	return loginPaths[AudienceUser]
}

// registerPaths maps the profile role tag to its registration endpoint.
var registerPaths = map[string]string{
	"patient":        "/register/patient",
	"doctor":         "/register/doctor",
	"hospital-admin": "/register/hospital-admin",
}

// RegisterPath returns the endpoint for a profile role, defaulting to the
// patient endpoint.
func RegisterPath(role string) string {
	if p, ok := registerPaths[role]; ok {
		return p
	}
	return registerPaths["patient"]
}

// Client is the backend surface the rest of the program sees. The session
// store is the only caller of SetToken/ClearToken.
type Client interface {
	// auth exchange
	Login(ctx context.Context, creds models.Credentials, audience Audience) (string, error)
	Register(ctx context.Context, profile models.RegisterProfile) error

	// doctor dashboard
	MyAppointments(ctx context.Context) ([]models.Appointment, error)
	AcceptAppointment(ctx context.Context, appointmentID string) error
	CreatePrescription(ctx context.Context, p models.PrescriptionCreate) error

	// hospital admin dashboard
	Overview(ctx context.Context) (models.Overview, error)
	Doctors(ctx context.Context) ([]models.Doctor, error)
	ApproveDoctor(ctx context.Context, doctorID string) error
	RejectDoctor(ctx context.Context, doctorID string) error

	// patient dashboard
	PatientAppointments(ctx context.Context) ([]models.Appointment, error)
	PatientPrescriptions(ctx context.Context) ([]models.Prescription, error)
	Hospitals(ctx context.Context) ([]models.Hospital, error)
	HospitalDoctors(ctx context.Context, hospitalID string) ([]models.Doctor, error)
	BookAppointment(ctx context.Context, req models.BookingRequest) error
	DoctorProfile(ctx context.Context, doctorID string) (models.Doctor, error)

	// bearer configuration
	SetToken(token string)
	ClearToken()
}
