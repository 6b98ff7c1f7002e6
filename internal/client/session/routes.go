package session

import "github.com/ehealth/portal/internal/client/models"

// Dashboard routes, one per recognised role.
const (
	RoutePatientDashboard       = "/patient/dashboard"
	RouteDoctorDashboard        = "/doctor/dashboard"
	RouteHospitalAdminDashboard = "/hospital-admin/dashboard"
	RouteSystemAdminDashboard   = "/system-admin/dashboard"
)

// dashboardRoutes is a total mapping; the patient dashboard is the
// deliberate default for anything unrecognised.
var dashboardRoutes = map[models.Role]string{
	models.RolePatient:       RoutePatientDashboard,
	models.RoleDoctor:        RouteDoctorDashboard,
	models.RoleHospitalAdmin: RouteHospitalAdminDashboard,
	models.RoleSystemAdmin:   RouteSystemAdminDashboard,
}

// RouteForRole maps a decoded role to its landing route after login.
func RouteForRole(role models.Role) string {
	if r, ok := dashboardRoutes[role]; ok {
		return r
	}
	return RoutePatientDashboard
}
