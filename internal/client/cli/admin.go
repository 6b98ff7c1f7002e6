package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ehealth/portal/internal/client/models"
	"github.com/ehealth/portal/internal/client/views"
)

// adminLoop drives the hospital admin dashboard. Approvals and rejections
// operate on the pending list as last rendered; the list is re-fetched after
// every decision.
func (a *App) adminLoop(ctx context.Context) bool {
	ov, ok := a.loadAdminOverview(ctx)
	if !ok {
		return false
	}
	pending := views.FilterDoctors(ov.Doctors, models.ApprovalPending, "")

	for {
		line, err := a.promptLine("hospital-admin")
		if err != nil {
			return true
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: overview, doctors [filter], approve <n>, reject <n>, logout, exit")

		case "overview":
			if ov, ok = a.loadAdminOverview(ctx); !ok {
				return false
			}
			pending = views.FilterDoctors(ov.Doctors, models.ApprovalPending, "")

		case "doctors":
			term := strings.Join(parts[1:], " ")
			renderDoctors("Approved doctors", views.FilterDoctors(ov.Doctors, models.ApprovalApproved, term))
			pending = views.FilterDoctors(ov.Doctors, models.ApprovalPending, term)
			renderDoctors("Pending approval", pending)

		case "approve":
			if !a.decide(ctx, pending, parts, a.admin.Approve, "Doctor approved") {
				return false
			}
			if ov, ok = a.loadAdminOverview(ctx); !ok {
				return false
			}
			pending = views.FilterDoctors(ov.Doctors, models.ApprovalPending, "")

		case "reject":
			if !a.decide(ctx, pending, parts, a.admin.Reject, "Doctor rejected") {
				return false
			}
			if ov, ok = a.loadAdminOverview(ctx); !ok {
				return false
			}
			pending = views.FilterDoctors(ov.Doctors, models.ApprovalPending, "")

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

func (a *App) loadAdminOverview(ctx context.Context) (views.AdminOverview, bool) {
	cctx, cancel := a.cmdCtx(ctx)
	defer cancel()

	ov, err := a.admin.Load(cctx)
	if a.checkAuth(ctx, err) {
		return views.AdminOverview{}, false
	}
	if err != nil {
		notify("Failed to load dashboard: %v", err)
		return views.AdminOverview{}, true
	}

	header := fmt.Sprintf("%s, %s", ov.Stats.HospitalName, ov.Stats.City)
	if ov.Stats.State != "" {
		header += ", " + ov.Stats.State
	}
	printlnFn(header)
	printlnFn(fmt.Sprintf("Pending approvals: %d", ov.Stats.PendingApprovals))
	renderDoctors("Pending approval", views.FilterDoctors(ov.Doctors, models.ApprovalPending, ""))
	return ov, true
}

// decide applies one approve/reject action to a 1-based index into the
// pending list. Returns false only on session teardown.
func (a *App) decide(ctx context.Context, pending []models.Doctor, parts []string, action func(context.Context, string) error, done string) bool {
	if len(parts) < 2 {
		printlnFn(fmt.Sprintf("Usage: %s <n>", parts[0]))
		return true
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 1 || n > len(pending) {
		notify("No such pending doctor")
		return true
	}

	cctx, cancel := a.cmdCtx(ctx)
	defer cancel()

	err = action(cctx, pending[n-1].ID)
	if a.checkAuth(ctx, err) {
		return false
	}
	if err != nil {
		notify("Decision failed: %v", err)
		return true
	}
	success("%s", done)
	return true
}
