// Package views implements the role dashboards as services over the API
// client: each fetches its role-scoped resources and computes derived,
// filtered views over them. Mutating actions are plain request/response
// calls; on success the caller re-fetches the full dataset rather than
// patching state incrementally.
package views

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

// DoctorView serves the doctor dashboard.
type DoctorView struct {
	client   api.Client
	validate *validator.Validate
	now      func() time.Time

	accepting   inflight
	prescribing inflight
}

// NewDoctorView builds the doctor dashboard service.
func NewDoctorView(client api.Client) *DoctorView {
	return &DoctorView{
		client:   client,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Load fetches the doctor's appointments and partitions them.
func (v *DoctorView) Load(ctx context.Context) (SchedulePartition, error) {
	appts, err := v.client.MyAppointments(ctx)
	if err != nil {
		return SchedulePartition{}, fmt.Errorf("load schedule: %w", err)
	}
	return PartitionAppointments(appts, v.now()), nil
}

// Accept confirms a requested appointment.
func (v *DoctorView) Accept(ctx context.Context, appointmentID string) error {
	if !v.accepting.begin() {
		return ErrActionInFlight
	}
	defer v.accepting.end()

	return v.client.AcceptAppointment(ctx, appointmentID)
}

// Prescribe submits a new prescription. The record is validated client-side
// before any network call: a selected appointment and a diagnosis are
// mandatory.
func (v *DoctorView) Prescribe(ctx context.Context, p models.PrescriptionCreate) error {
	if err := v.validate.Struct(p); err != nil {
		return fmt.Errorf("incomplete prescription: %w", err)
	}
	if !v.prescribing.begin() {
		return ErrActionInFlight
	}
	defer v.prescribing.end()

	return v.client.CreatePrescription(ctx, p)
}
