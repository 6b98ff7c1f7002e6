package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/models"
)

func isUnauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}

// Login prompts for credentials and authenticates against the endpoint
// selected by audience. On failure the prompt stays usable and nothing in
// the session changes.
func (a *App) Login(ctx context.Context, audience api.Audience) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	cctx, cancel := a.cmdCtx(ctx)
	defer cancel()

	ident, err := a.session.Login(cctx, models.Credentials{Email: email, Password: password}, audience)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			notify("Login failed: %s", apiErr.Detail)
		} else {
			notify("Login failed: %v", err)
		}
		return err
	}

	success("Welcome back, %s!", ident.Name)
	return nil
}

// Register walks the registration form. The role answer decides which extra
// fields are collected; success does not log the user in.
func (a *App) Register(ctx context.Context) error {
	role, err := getSimpleText(a.reader, "Register as (patient/doctor/hospital-admin)", os.Stdout)
	if err != nil {
		return err
	}
	role = strings.ToLower(strings.TrimSpace(role))

	profile := models.RegisterProfile{Role: role}
	if profile.Name, err = getSimpleText(a.reader, "Full name", os.Stdout); err != nil {
		return err
	}
	if profile.Email, err = getSimpleText(a.reader, "Email", os.Stdout); err != nil {
		return err
	}
	if profile.Password, err = getPassword(os.Stdout); err != nil {
		return err
	}
	if profile.Phone, err = getSimpleText(a.reader, "Phone (optional)", os.Stdout); err != nil {
		return err
	}

	switch role {
	case "doctor":
		if profile.HospitalID, err = getSimpleText(a.reader, "Hospital code", os.Stdout); err != nil {
			return err
		}
		if profile.Specialization, err = getSimpleText(a.reader, "Specialization", os.Stdout); err != nil {
			return err
		}
		if profile.LicenseNumber, err = getSimpleText(a.reader, "License number", os.Stdout); err != nil {
			return err
		}
	case "hospital-admin":
		if profile.HospitalID, err = getSimpleText(a.reader, "Hospital code", os.Stdout); err != nil {
			return err
		}
	}

	cctx, cancel := a.cmdCtx(ctx)
	defer cancel()

	if err := a.session.Register(cctx, profile); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			notify("Registration failed: %s", apiErr.Detail)
		} else {
			notify("Registration failed: %v", err)
		}
		return err
	}

	success("Registration submitted. You can log in once your account is active.")
	return nil
}

// Logout clears the session; it cannot fail.
func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	success("Logged out")
}
