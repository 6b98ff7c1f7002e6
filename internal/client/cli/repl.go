package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ehealth/portal/internal/client/api"
	"github.com/ehealth/portal/internal/client/session"
)

// rootLoop is the unauthenticated prompt. A successful login hands control
// to the role's dashboard loop; when that loop ends with a logout the user
// lands back here.
func (a *App) rootLoop(ctx context.Context) {
	for {
		line, err := a.promptLine("portal")
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: login, login-hospital-admin, login-system-admin, register, exit")

		case "login":
			if a.Login(ctx, api.AudienceUser) == nil {
				if quit := a.enterDashboard(ctx); quit {
					return
				}
			}

		case "login-hospital-admin":
			if a.Login(ctx, api.AudienceHospitalAdmin) == nil {
				if quit := a.enterDashboard(ctx); quit {
					return
				}
			}

		case "login-system-admin":
			if a.Login(ctx, api.AudienceSystemAdmin) == nil {
				if quit := a.enterDashboard(ctx); quit {
					return
				}
			}

		case "register":
			_ = a.Register(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}

// enterDashboard routes the logged-in identity to its dashboard loop. The
// returned bool reports that the user wants to quit the program entirely,
// as opposed to logging out.
func (a *App) enterDashboard(ctx context.Context) bool {
	ident, ok := a.session.Identity()
	if !ok {
		return false
	}

	switch session.RouteForRole(ident.Role) {
	case session.RouteDoctorDashboard:
		return a.doctorLoop(ctx)
	case session.RouteHospitalAdminDashboard:
		return a.adminLoop(ctx)
	case session.RouteSystemAdminDashboard:
		return a.systemAdminLoop(ctx)
	default:
		return a.patientLoop(ctx)
	}
}

// systemAdminLoop is intentionally bare: the backend exposes no system-admin
// resources yet, so the dashboard offers only session commands.
func (a *App) systemAdminLoop(ctx context.Context) bool {
	for {
		line, err := a.promptLine("system-admin")
		if err != nil {
			return true
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: whoami, logout, exit")
		case "whoami":
			if ident, ok := a.session.Identity(); ok {
				printlnFn(fmt.Sprintf("%s (%s)", ident.Name, ident.Role))
			}
		case "logout":
			a.Logout(ctx)
			return false
		case "exit", "quit":
			printlnFn("Bye!")
			return true
		default:
			printlnFn("Unknown command:", parts[0])
		}
	}
}
