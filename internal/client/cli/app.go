// Package cli is the interactive terminal front of the portal. It owns no
// business rules: commands collect input, call the session or a dashboard
// view, render the result and report failures as one-line notifications.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/config"
	"github.com/ehealth/portal/internal/client/session"
	"github.com/ehealth/portal/internal/client/views"

	_ "modernc.org/sqlite"
)

// App wires the session, the API client and the dashboard views together
// behind a REPL.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	session *session.Session
	store   *session.SQLiteStore
	doctor  *views.DoctorView
	patient *views.PatientView
	admin   *views.AdminView
	reader  *bufio.Reader
}

// NewApp builds the application from configuration.
func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := session.OpenStore(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	client := api.NewRESTClient(cfg.APIBaseURL)
	sess := session.New(store, client, log)

	return &App{
		cfg:     cfg,
		log:     log,
		session: sess,
		store:   store,
		doctor:  views.NewDoctorView(client),
		patient: views.NewPatientView(client),
		admin:   views.NewAdminView(client),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Close releases the credential store.
func (a *App) Close() error {
	return a.store.Close()
}

// Run initializes the session from the persisted credential and enters the
// REPL. It returns when the user quits or stdin closes.
func (a *App) Run(ctx context.Context) error {
	if err := a.session.Initialize(ctx); err != nil {
		return err
	}

	printlnFn("Welcome to the e-health portal (type 'help' for commands)")

	// A credential that survived initialization drops the user straight
	// into their dashboard.
	if ident, ok := a.session.Identity(); ok {
		printlnFn(fmt.Sprintf("Logged in as %s", ident.Name))
		if quit := a.enterDashboard(ctx); quit {
			return nil
		}
	}

	a.rootLoop(ctx)
	return nil
}

// cmdCtx bounds one user-triggered command, covering every request it fans
// out.
func (a *App) cmdCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.RequestTimeout)
}

// checkAuth inspects a command error for an authorization failure. On the
// first 401 the session is torn down and the user is told to log in again;
// the return value tells the calling loop to fall back to the login prompt.
func (a *App) checkAuth(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if !isUnauthorized(err) {
		return false
	}
	if a.session.HandleUnauthorized(ctx) {
		notify("Session expired, please log in again")
	}
	return true
}

// notify prints a single-line transient notification.
func notify(format string, args ...any) {
	printlnFn(fmt.Sprintf("! "+format, args...))
}

func success(format string, args ...any) {
	printlnFn(fmt.Sprintf(format, args...))
}
