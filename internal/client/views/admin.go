package views

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

// AdminOverview is the hospital admin dashboard's joined dataset.
type AdminOverview struct {
	Stats   models.Overview
	Doctors []models.Doctor
}

// AdminView serves the hospital admin dashboard.
type AdminView struct {
	client api.Client

	deciding inflight
}

// NewAdminView builds the hospital admin dashboard service.
func NewAdminView(client api.Client) *AdminView {
	return &AdminView{client: client}
}

// Load fans out the overview and doctor list fetches and joins them; either
// failure fails the batch.
func (v *AdminView) Load(ctx context.Context) (AdminOverview, error) {
	var out AdminOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Stats, err = v.client.Overview(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Doctors, err = v.client.Doctors(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminOverview{}, fmt.Errorf("load dashboard: %w", err)
	}
	return out, nil
}

// Approve accepts a pending doctor registration.
func (v *AdminView) Approve(ctx context.Context, doctorID string) error {
	if !v.deciding.begin() {
		return ErrActionInFlight
	}
	defer v.deciding.end()

	return v.client.ApproveDoctor(ctx, doctorID)
}

// Reject declines a pending doctor registration.
func (v *AdminView) Reject(ctx context.Context, doctorID string) error {
	if !v.deciding.begin() {
		return ErrActionInFlight
	}
	defer v.deciding.end()

	return v.client.RejectDoctor(ctx, doctorID)
}
