// Package stub is an in-memory stand-in for the e-health backend, used for
// local development and the client's end-to-end tests. State lives in maps
// behind one mutex and is gone when the process exits.
package stub

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ehealth/portal/internal/client/models"
)

type account struct {
	ID             string
	Name           string
	Email          string
	Password       string
	Phone          string
	Role           models.Role
	HospitalID     string
	Specialization string
	LicenseNumber  string
	Status         models.ApprovalStatus
	CreatedAt      time.Time
}

type appointment struct {
	ID         string
	PatientID  string
	DoctorID   string
	HospitalID string
	Slot       time.Time
	Status     models.AppointmentStatus
}

type prescription struct {
	ID            string
	AppointmentID string
	PatientID     string
	DoctorID      string
	HospitalID    string
	Diagnosis     string
	Medicines     []models.Medicine
	Notes         string
	CreatedAt     time.Time
	Hash          string
}

// store holds all backend state. now is swappable for tests.
type store struct {
	mu            sync.Mutex
	accounts      map[string]*account // keyed by ID
	byEmail       map[string]string   // email -> ID
	appointments  map[string]*appointment
	prescriptions map[string]*prescription
	hospitals     []models.Hospital

	now func() time.Time
}

func newStore() *store {
	return &store{
		accounts:      make(map[string]*account),
		byEmail:       make(map[string]string),
		appointments:  make(map[string]*appointment),
		prescriptions: make(map[string]*prescription),
		hospitals: []models.Hospital{
			{HospitalID: "HOSP-1", HospitalName: "City General Hospital", City: "Riga"},
			{HospitalID: "HOSP-2", HospitalName: "St. Mary Medical Center", City: "Daugavpils"},
		},
		now: time.Now,
	}
}

func (s *store) createAccount(a *account) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[a.Email]; exists {
		return false
	}
	a.ID = uuid.NewString()
	a.CreatedAt = s.now()
	s.accounts[a.ID] = a
	s.byEmail[a.Email] = a.ID
	return true
}

func (s *store) findByEmail(email string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, false
	}
	return s.accounts[id], true
}

func (s *store) findByID(id string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	return a, ok
}

func (s *store) hospital(id string) (models.Hospital, bool) {
	for _, h := range s.hospitals {
		if h.HospitalID == id {
			return h, true
		}
	}
	return models.Hospital{}, false
}

// hospitalDoctors lists approved doctors attached to a hospital.
func (s *store) hospitalDoctors(hospitalID string) []models.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Doctor
	for _, a := range s.accounts {
		if a.Role == models.RoleDoctor && a.HospitalID == hospitalID && a.Status == models.ApprovalApproved {
			out = append(out, doctorView(a))
		}
	}
	sortDoctors(out)
	return out
}

// doctorsOf lists every doctor of a hospital regardless of approval status,
// for the admin's management view.
func (s *store) doctorsOf(hospitalID string) []models.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Doctor
	for _, a := range s.accounts {
		if a.Role == models.RoleDoctor && a.HospitalID == hospitalID {
			out = append(out, doctorView(a))
		}
	}
	sortDoctors(out)
	return out
}

func (s *store) pendingCount(hospitalID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.accounts {
		if a.Role == models.RoleDoctor && a.HospitalID == hospitalID && a.Status == models.ApprovalPending {
			n++
		}
	}
	return n
}

func (s *store) setDoctorStatus(doctorID string, status models.ApprovalStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[doctorID]
	if !ok || a.Role != models.RoleDoctor {
		return false
	}
	a.Status = status
	return true
}

func (s *store) createAppointment(patientID, doctorID, hospitalID string, slot time.Time) *appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt := &appointment{
		ID:         uuid.NewString(),
		PatientID:  patientID,
		DoctorID:   doctorID,
		HospitalID: hospitalID,
		Slot:       slot,
		Status:     models.AppointmentRequested,
	}
	s.appointments[appt.ID] = appt
	return appt
}

// acceptAppointment flips a requested appointment to accepted. It fails when
// the appointment does not exist, belongs to another doctor, or already left
// the requested state.
func (s *store) acceptAppointment(appointmentID, doctorID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[appointmentID]
	if !ok || appt.DoctorID != doctorID || appt.Status != models.AppointmentRequested {
		return false
	}
	appt.Status = models.AppointmentAccepted
	return true
}

func (s *store) appointmentsWhere(match func(*appointment) bool) []*appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*appointment
	for _, a := range s.appointments {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot.Before(out[j].Slot) })
	return out
}

func (s *store) appointment(id string) (*appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	return a, ok
}

func (s *store) createPrescription(p *prescription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p.Hash = recordHash(p)
	s.prescriptions[p.ID] = p
}

func (s *store) prescriptionsFor(patientID string) []*prescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*prescription
	for _, p := range s.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// recordHash is a sha256 over the canonical JSON of the record's immutable
// fields. The real backend anchors this hash elsewhere; here it only has to
// be stable and verifiable.
func recordHash(p *prescription) string {
	canonical := struct {
		AppointmentID string            `json:"appointmentId"`
		PatientID     string            `json:"patientId"`
		DoctorID      string            `json:"doctorId"`
		HospitalID    string            `json:"hospitalId"`
		Diagnosis     string            `json:"diagnosis"`
		Medicines     []models.Medicine `json:"medicines"`
		Notes         string            `json:"notes"`
		CreatedAt     time.Time         `json:"createdAt"`
	}{p.AppointmentID, p.PatientID, p.DoctorID, p.HospitalID, p.Diagnosis, p.Medicines, p.Notes, p.CreatedAt}

	b, _ := json.Marshal(canonical)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func doctorView(a *account) models.Doctor {
	return models.Doctor{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Specialization: a.Specialization,
		LicenseNumber:  a.LicenseNumber,
		Phone:          a.Phone,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
	}
}

func sortDoctors(list []models.Doctor) {
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
}
