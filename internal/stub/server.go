package stub

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ehealth/portal/internal/client/models"
)

// Server is the in-memory backend. One instance carries its own state and
// signing secret, so tests can run several side by side.
type Server struct {
	echo     *echo.Echo
	store    *store
	secret   string
	validate *validator.Validate
	log      zerolog.Logger
}

// New builds the server with seeded hospitals and empty accounts.
func New(secret string, log zerolog.Logger) *Server {
	s := &Server{
		echo:     echo.New(),
		store:    newStore(),
		secret:   secret,
		validate: validator.New(),
		log:      log,
	}
	s.echo.HideBanner = true
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	e.POST("/login", s.login(models.RolePatient, models.RoleDoctor))
	e.POST("/login/hospital-admin", s.login(models.RoleHospitalAdmin))
	e.POST("/login/system-admin", s.login(models.RoleSystemAdmin))
	e.POST("/register/patient", s.register(models.RolePatient))
	e.POST("/register/doctor", s.register(models.RoleDoctor))
	e.POST("/register/hospital-admin", s.register(models.RoleHospitalAdmin))
	e.GET("/hospitals/", s.listHospitals)
	e.GET("/appointments/hospitals/:id/doctors", s.listHospitalDoctors)
	e.GET("/users/doctor/:id", s.doctorProfile)

	auth := e.Group("", bearerAuth(s.secret))

	doctor := auth.Group("", requireRole(models.RoleDoctor))
	doctor.GET("/appointments/doctor/my-appointments", s.doctorAppointments)
	doctor.POST("/appointments/doctor/:id/accept", s.acceptAppointment)
	doctor.POST("/prescriptions/doctor", s.createPrescription)

	patient := auth.Group("", requireRole(models.RolePatient))
	patient.GET("/appointments/patient", s.patientAppointments)
	patient.GET("/prescriptions/patient", s.patientPrescriptions)
	patient.POST("/appointments/request", s.requestAppointment)

	admin := auth.Group("/hospital-admin", requireRole(models.RoleHospitalAdmin))
	admin.GET("/overview", s.adminOverview)
	admin.GET("/doctors", s.adminDoctors)
	admin.POST("/approve/:id", s.decideDoctor(models.ApprovalApproved))
	admin.POST("/reject/:id", s.decideDoctor(models.ApprovalRejected))
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving on addr.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// detail mirrors the backend's error envelope, which the client unwraps into
// its APIError.
func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"detail": msg})
}

// ------------ auth ------------

func (s *Server) login(allowed ...models.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var creds models.Credentials
		if err := c.Bind(&creds); err != nil {
			return detail(c, http.StatusBadRequest, "malformed request")
		}

		acct, ok := s.store.findByEmail(creds.Email)
		if !ok || acct.Password != creds.Password {
			return detail(c, http.StatusBadRequest, "invalid email or password")
		}

		permitted := false
		for _, r := range allowed {
			if acct.Role == r {
				permitted = true
				break
			}
		}
		if !permitted {
			return detail(c, http.StatusBadRequest, "wrong login portal for this account")
		}

		// A doctor stays locked out until a hospital admin approves the
		// registration.
		if acct.Role == models.RoleDoctor && acct.Status != models.ApprovalApproved {
			return echo.NewHTTPError(http.StatusForbidden, "account not approved")
		}

		token, err := issueToken(s.secret, acct, s.store.now())
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "token signing failed")
		}

		s.log.Info().Str("user_id", acct.ID).Str("role", string(acct.Role)).Msg("login")
		return c.JSON(http.StatusOK, map[string]string{
			"access_token": token,
			"role":         string(acct.Role),
			"name":         acct.Name,
		})
	}
}

func (s *Server) register(role models.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var profile models.RegisterProfile
		if err := c.Bind(&profile); err != nil {
			return detail(c, http.StatusBadRequest, "malformed request")
		}
		if err := s.validate.Struct(profile); err != nil {
			return detail(c, http.StatusBadRequest, "missing required fields")
		}

		acct := &account{
			Name:           profile.Name,
			Email:          profile.Email,
			Password:       profile.Password,
			Phone:          profile.Phone,
			Role:           role,
			HospitalID:     profile.HospitalID,
			Specialization: profile.Specialization,
			LicenseNumber:  profile.LicenseNumber,
		}

		switch role {
		case models.RoleDoctor:
			if _, ok := s.store.hospital(profile.HospitalID); !ok {
				return detail(c, http.StatusBadRequest, "unknown hospital")
			}
			acct.Status = models.ApprovalPending
		case models.RoleHospitalAdmin:
			if _, ok := s.store.hospital(profile.HospitalID); !ok {
				return detail(c, http.StatusBadRequest, "unknown hospital")
			}
		}

		if !s.store.createAccount(acct) {
			return detail(c, http.StatusConflict, "email already registered")
		}

		s.log.Info().Str("user_id", acct.ID).Str("role", string(role)).Msg("registered")
		return c.JSON(http.StatusCreated, map[string]string{"id": acct.ID})
	}
}

// ------------ directory ------------

func (s *Server) listHospitals(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.hospitals)
}

func (s *Server) listHospitalDoctors(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.hospitalDoctors(c.Param("id")))
}

func (s *Server) doctorProfile(c echo.Context) error {
	acct, ok := s.store.findByID(c.Param("id"))
	if !ok || acct.Role != models.RoleDoctor {
		return detail(c, http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, doctorView(acct))
}

// ------------ doctor ------------

func (s *Server) doctorAppointments(c echo.Context) error {
	doctorID := callerID(c)
	appts := s.store.appointmentsWhere(func(a *appointment) bool {
		return a.DoctorID == doctorID
	})

	out := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		v := models.Appointment{
			ID:         a.ID,
			PatientID:  a.PatientID,
			DoctorID:   a.DoctorID,
			HospitalID: a.HospitalID,
			Slot:       a.Slot,
			Status:     a.Status,
		}
		if p, ok := s.store.findByID(a.PatientID); ok {
			v.PatientName = p.Name
			v.PatientEmail = p.Email
		}
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) acceptAppointment(c echo.Context) error {
	if !s.store.acceptAppointment(c.Param("id"), callerID(c)) {
		return detail(c, http.StatusConflict, "appointment cannot be accepted")
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) createPrescription(c echo.Context) error {
	var req models.PrescriptionCreate
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request")
	}
	if err := s.validate.Struct(req); err != nil {
		return detail(c, http.StatusBadRequest, "missing required fields")
	}

	appt, ok := s.store.appointment(req.AppointmentID)
	if !ok || appt.DoctorID != callerID(c) {
		return detail(c, http.StatusNotFound, "appointment not found")
	}
	if appt.Status != models.AppointmentAccepted {
		return detail(c, http.StatusConflict, "appointment not accepted")
	}

	p := &prescription{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		HospitalID:    appt.HospitalID,
		Diagnosis:     req.Diagnosis,
		Medicines:     req.Medicines,
		Notes:         req.Notes,
	}
	s.store.createPrescription(p)

	s.log.Info().Str("prescription_id", p.ID).Str("doctor_id", p.DoctorID).Msg("prescription created")
	return c.JSON(http.StatusCreated, map[string]string{"id": p.ID, "hash": p.Hash})
}

// ------------ patient ------------

func (s *Server) patientAppointments(c echo.Context) error {
	patientID := callerID(c)
	appts := s.store.appointmentsWhere(func(a *appointment) bool {
		return a.PatientID == patientID
	})

	out := make([]models.Appointment, 0, len(appts))
	for _, a := range appts {
		v := models.Appointment{
			ID:         a.ID,
			DoctorID:   a.DoctorID,
			HospitalID: a.HospitalID,
			Slot:       a.Slot,
			Status:     a.Status,
		}
		if d, ok := s.store.findByID(a.DoctorID); ok {
			v.DoctorName = d.Name
			v.Specialization = d.Specialization
		}
		if h, ok := s.store.hospital(a.HospitalID); ok {
			v.HospitalName = h.HospitalName
			v.HospitalCity = h.City
		}
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) patientPrescriptions(c echo.Context) error {
	prescs := s.store.prescriptionsFor(callerID(c))

	out := make([]models.Prescription, 0, len(prescs))
	for _, p := range prescs {
		out = append(out, models.Prescription{
			ID:         p.ID,
			PatientID:  p.PatientID,
			DoctorID:   p.DoctorID,
			HospitalID: p.HospitalID,
			Diagnosis:  p.Diagnosis,
			Medicines:  p.Medicines,
			Notes:      p.Notes,
			CreatedAt:  p.CreatedAt,
			Hash:       p.Hash,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) requestAppointment(c echo.Context) error {
	var req models.BookingRequest
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "malformed request")
	}
	if err := s.validate.Struct(req); err != nil {
		return detail(c, http.StatusBadRequest, "missing required fields")
	}

	if _, ok := s.store.hospital(req.HospitalID); !ok {
		return detail(c, http.StatusBadRequest, "unknown hospital")
	}
	doc, ok := s.store.findByID(req.DoctorID)
	if !ok || doc.Role != models.RoleDoctor || doc.HospitalID != req.HospitalID || doc.Status != models.ApprovalApproved {
		return detail(c, http.StatusBadRequest, "doctor not available at this hospital")
	}

	appt := s.store.createAppointment(callerID(c), req.DoctorID, req.HospitalID, req.Slot)
	s.log.Info().Str("appointment_id", appt.ID).Msg("appointment requested")
	return c.JSON(http.StatusCreated, map[string]string{"id": appt.ID})
}

// ------------ hospital admin ------------

// adminHospital resolves the caller's hospital.
func (s *Server) adminHospital(c echo.Context) (models.Hospital, bool) {
	acct, ok := s.store.findByID(callerID(c))
	if !ok {
		return models.Hospital{}, false
	}
	return s.store.hospital(acct.HospitalID)
}

func (s *Server) adminOverview(c echo.Context) error {
	h, ok := s.adminHospital(c)
	if !ok {
		return detail(c, http.StatusNotFound, "hospital not found")
	}
	return c.JSON(http.StatusOK, models.Overview{
		HospitalName:     h.HospitalName,
		City:             h.City,
		PendingApprovals: s.store.pendingCount(h.HospitalID),
	})
}

func (s *Server) adminDoctors(c echo.Context) error {
	h, ok := s.adminHospital(c)
	if !ok {
		return detail(c, http.StatusNotFound, "hospital not found")
	}
	return c.JSON(http.StatusOK, s.store.doctorsOf(h.HospitalID))
}

func (s *Server) decideDoctor(status models.ApprovalStatus) echo.HandlerFunc {
	return func(c echo.Context) error {
		h, ok := s.adminHospital(c)
		if !ok {
			return detail(c, http.StatusNotFound, "hospital not found")
		}
		doc, ok := s.store.findByID(c.Param("id"))
		if !ok || doc.Role != models.RoleDoctor || doc.HospitalID != h.HospitalID {
			return detail(c, http.StatusNotFound, "doctor not found")
		}
		s.store.setDoctorStatus(doc.ID, status)

		s.log.Info().Str("doctor_id", doc.ID).Str("status", string(status)).Msg("doctor decision")
		return c.NoContent(http.StatusOK)
	}
}
