// Package models defines the resource types exchanged with the e-health
// backend. Field tags follow the backend's JSON contract verbatim; the
// structures themselves carry no behaviour.
package models

import "time"

// Role tags carried in token claims. The set is closed on the backend side;
// anything unrecognised is treated as a patient by the router.
type Role string

const (
	RolePatient       Role = "PATIENT"
	RoleDoctor        Role = "DOCTOR"
	RoleHospitalAdmin Role = "HOSPITAL_ADMIN"
	RoleSystemAdmin   Role = "SYSTEM_ADMIN"
)

// Identity is the decoded view of the bearer token. It is owned by the
// session store; everything else only reads it.
type Identity struct {
	ID   string
	Role Role
	Name string
}

// AppointmentStatus is the lifecycle tag the backend assigns to an
// appointment. Transitions happen server-side only.
type AppointmentStatus string

const (
	AppointmentRequested AppointmentStatus = "REQUESTED"
	AppointmentAccepted  AppointmentStatus = "ACCEPTED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// Appointment as returned by the backend. Doctor- and hospital-facing fields
// are only populated on the endpoints that join them in.
type Appointment struct {
	ID             string            `json:"_id"`
	PatientID      string            `json:"patientId,omitempty"`
	PatientName    string            `json:"patientName,omitempty"`
	PatientEmail   string            `json:"patientEmail,omitempty"`
	DoctorID       string            `json:"doctorId,omitempty"`
	HospitalID     string            `json:"hospitalId,omitempty"`
	Slot           time.Time         `json:"slot"`
	Status         AppointmentStatus `json:"status"`
	DoctorName     string            `json:"doctorName,omitempty"`
	Specialization string            `json:"specialization,omitempty"`
	HospitalName   string            `json:"hospitalName,omitempty"`
	HospitalCity   string            `json:"hospitalCity,omitempty"`
}

// Medicine is one line of a prescription.
type Medicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration,omitempty"`
}

// Prescription as returned by the backend. DoctorName, DoctorSpecialization
// and HospitalName are filled in client-side by the patient view's
// enrichment pass, not by the backend.
type Prescription struct {
	ID         string     `json:"_id"`
	PatientID  string     `json:"patientId,omitempty"`
	DoctorID   string     `json:"doctorId"`
	HospitalID string     `json:"hospitalId"`
	Diagnosis  string     `json:"diagnosis"`
	Medicines  []Medicine `json:"medicines"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"createdAt"`
	Hash       string     `json:"hash"`

	DoctorName           string `json:"doctorName,omitempty"`
	DoctorSpecialization string `json:"doctorSpecialization,omitempty"`
	HospitalName         string `json:"hospitalName,omitempty"`
}

// ApprovalStatus of a doctor registration, owned by the hospital admin flow.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Doctor is the hospital-admin's and directory view of a doctor account.
type Doctor struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Email          string         `json:"email,omitempty"`
	Specialization string         `json:"specialization"`
	LicenseNumber  string         `json:"licenseNumber,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Status         ApprovalStatus `json:"status,omitempty"`
	CreatedAt      time.Time      `json:"createdAt,omitempty"`
}

// Hospital is one directory entry.
type Hospital struct {
	HospitalID   string `json:"hospitalId"`
	HospitalName string `json:"hospitalName"`
	City         string `json:"city"`
}

// Overview is the hospital admin's dashboard header.
type Overview struct {
	HospitalName     string    `json:"hospitalName"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	Coordinates      []float64 `json:"coordinates"`
	PendingApprovals int       `json:"pendingApprovals"`
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterProfile is the registration form payload. Role selects the
// registration endpoint; the doctor- and admin-only fields ride along empty
// for patients.
type RegisterProfile struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	Phone          string  `json:"phone,omitempty"`
	Role           string  `json:"role" validate:"required,oneof=patient doctor hospital-admin"`
	Specialization string  `json:"specialization,omitempty" validate:"required_if=Role doctor"`
	LicenseNumber  string  `json:"licenseNumber,omitempty" validate:"required_if=Role doctor"`
	HospitalID     string  `json:"hospitalId,omitempty" validate:"required_if=Role doctor,required_if=Role hospital-admin"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
}

// BookingRequest is the patient's appointment request payload. All three
// fields must be present before any network call is made.
type BookingRequest struct {
	HospitalID string    `json:"hospitalId" validate:"required"`
	DoctorID   string    `json:"doctorId" validate:"required"`
	Slot       time.Time `json:"slot" validate:"required"`
}

// PrescriptionCreate is the doctor's prescription submission payload.
type PrescriptionCreate struct {
	AppointmentID string     `json:"appointmentId" validate:"required"`
	PatientID     string     `json:"patientId" validate:"required"`
	Diagnosis     string     `json:"diagnosis" validate:"required"`
	Medicines     []Medicine `json:"medicines"`
	Notes         string     `json:"notes,omitempty"`
}
