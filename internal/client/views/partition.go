package views

import (
	"strings"
	"time"

	"github.com/ehealth/portal/internal/client/models"
)

// SchedulePartition is the doctor dashboard's derived view over the raw
// appointment list.
type SchedulePartition struct {
	// Pending holds appointments still waiting for the doctor's decision.
	Pending []models.Appointment
	// Today holds accepted appointments whose slot falls on today's
	// calendar date.
	Today []models.Appointment
	// Upcoming holds accepted appointments on a strictly later calendar
	// date. Today and Upcoming are disjoint by construction.
	Upcoming []models.Appointment
	// Approved holds every accepted appointment and feeds the
	// prescription-issuance selector.
	Approved []models.Appointment
}

// PartitionAppointments buckets appointments by (status, slot date, now).
// The comparison is calendar-date based in now's location, so an accepted
// slot later today counts as "today", never as "upcoming".
func PartitionAppointments(appts []models.Appointment, now time.Time) SchedulePartition {
	var p SchedulePartition

	nowY, nowM, nowD := now.Date()
	today := time.Date(nowY, nowM, nowD, 0, 0, 0, 0, now.Location())

	for _, a := range appts {
		switch a.Status {
		case models.AppointmentRequested:
			p.Pending = append(p.Pending, a)
		case models.AppointmentAccepted:
			p.Approved = append(p.Approved, a)
			y, m, d := a.Slot.In(now.Location()).Date()
			slotDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
			if slotDay.Equal(today) {
				p.Today = append(p.Today, a)
			} else if slotDay.After(today) {
				p.Upcoming = append(p.Upcoming, a)
			}
		}
	}
	return p
}

// FilterDoctors returns the doctors in the given approval status whose name
// or specialization contains term, case-insensitively. An empty term matches
// everything.
func FilterDoctors(doctors []models.Doctor, status models.ApprovalStatus, term string) []models.Doctor {
	out := make([]models.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if d.Status != status {
			continue
		}
		if term != "" && !containsFold(d.Name, term) && !containsFold(d.Specialization, term) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
