package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

// Placeholder text for prescriptions whose secondary lookups failed. The
// record still renders; only these fields degrade.
const (
	UnknownDoctor         = "Unknown Doctor"
	UnknownSpecialization = "N/A"
	UnknownHospital       = "Unknown Hospital"
)

// PatientOverview is the patient dashboard's joined dataset.
type PatientOverview struct {
	Appointments  []models.Appointment
	Prescriptions []models.Prescription
	Hospitals     []models.Hospital
}

// PatientView serves the patient dashboard.
type PatientView struct {
	client   api.Client
	validate *validator.Validate

	booking inflight
}

// NewPatientView builds the patient dashboard service.
func NewPatientView(client api.Client) *PatientView {
	return &PatientView{
		client:   client,
		validate: validator.New(),
	}
}

// Load fans out the three independent fetches, joins them, then enriches
// each prescription with the issuing doctor's name/specialization and the
// hospital's display name. A failure in the joined batch fails the whole
// load; a failure in a per-record enrichment lookup degrades only that
// record to placeholder text.
func (v *PatientView) Load(ctx context.Context) (PatientOverview, error) {
	var (
		appts     []models.Appointment
		prescs    []models.Prescription
		hospitals []models.Hospital
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = v.client.PatientAppointments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		prescs, err = v.client.PatientPrescriptions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		hospitals, err = v.client.Hospitals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return PatientOverview{}, fmt.Errorf("load dashboard: %w", err)
	}

	v.enrichPrescriptions(ctx, prescs, hospitals)

	return PatientOverview{
		Appointments:  appts,
		Prescriptions: prescs,
		Hospitals:     hospitals,
	}, nil
}

// enrichPrescriptions is a collection of independent result-or-placeholder
// computations joined afterwards; it never fails as a whole.
func (v *PatientView) enrichPrescriptions(ctx context.Context, prescs []models.Prescription, hospitals []models.Hospital) {
	byID := make(map[string]models.Hospital, len(hospitals))
	for _, h := range hospitals {
		byID[h.HospitalID] = h
	}

	var wg sync.WaitGroup
	for i := range prescs {
		wg.Add(1)
		go func(p *models.Prescription) {
			defer wg.Done()

			if h, ok := byID[p.HospitalID]; ok {
				p.HospitalName = h.HospitalName
			} else {
				p.HospitalName = UnknownHospital
			}

			doc, err := v.client.DoctorProfile(ctx, p.DoctorID)
			if err != nil {
				p.DoctorName = UnknownDoctor
				p.DoctorSpecialization = UnknownSpecialization
				return
			}
			p.DoctorName = doc.Name
			p.DoctorSpecialization = doc.Specialization
		}(&prescs[i])
	}
	wg.Wait()
}

// DoctorsAt lists the doctors taking appointments at a hospital, for the
// booking selector.
func (v *PatientView) DoctorsAt(ctx context.Context, hospitalID string) ([]models.Doctor, error) {
	return v.client.HospitalDoctors(ctx, hospitalID)
}

// Book requests an appointment. Hospital, doctor and slot must all be set;
// the request is rejected client-side before any network call otherwise.
func (v *PatientView) Book(ctx context.Context, req models.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return fmt.Errorf("incomplete booking: %w", err)
	}
	if !v.booking.begin() {
		return ErrActionInFlight
	}
	defer v.booking.end()

	return v.client.BookAppointment(ctx, req)
}
