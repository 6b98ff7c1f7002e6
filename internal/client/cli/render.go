package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ehealth/portal/internal/client/models"
)

// tableOut is where rendered tables go; tests point it at a buffer.
var tableOut io.Writer = os.Stdout

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(tableOut, 2, 4, 2, ' ', 0)
}

func renderDoctorAppointments(title string, list []models.Appointment) {
	printlnFn(title)
	if len(list) == 0 {
		printlnFn("  (none)")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "  #\tPATIENT\tEMAIL\tSLOT\tSTATUS")
	for i, a := range list {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n",
			i+1, a.PatientName, a.PatientEmail, a.Slot.Format("Mon 02 Jan 15:04"), a.Status)
	}
	w.Flush()
}

func renderPatientAppointments(list []models.Appointment) {
	printlnFn("Appointments")
	if len(list) == 0 {
		printlnFn("  (none)")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "  #\tDOCTOR\tSPECIALIZATION\tHOSPITAL\tSLOT\tSTATUS")
	for i, a := range list {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, a.DoctorName, a.Specialization, a.HospitalName, a.Slot.Format("Mon 02 Jan 15:04"), a.Status)
	}
	w.Flush()
}

func renderPrescriptions(list []models.Prescription) {
	printlnFn("Prescriptions")
	if len(list) == 0 {
		printlnFn("  (none)")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "  #\tDATE\tDIAGNOSIS\tDOCTOR\tHOSPITAL\tMEDICINES")
	for i, p := range list {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%d\n",
			i+1, p.CreatedAt.Format("02 Jan 2006"), p.Diagnosis, p.DoctorName, p.HospitalName, len(p.Medicines))
	}
	w.Flush()
}

func renderDoctors(title string, list []models.Doctor) {
	printlnFn(title)
	if len(list) == 0 {
		printlnFn("  (none)")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "  #\tNAME\tSPECIALIZATION\tLICENSE\tEMAIL")
	for i, d := range list {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\n", i+1, d.Name, d.Specialization, d.LicenseNumber, d.Email)
	}
	w.Flush()
}

func renderHospitals(list []models.Hospital) {
	printlnFn("Hospitals")
	w := newTable()
	fmt.Fprintln(w, "  #\tNAME\tCITY")
	for i, h := range list {
		fmt.Fprintf(w, "  %d\t%s\t%s\n", i+1, h.HospitalName, h.City)
	}
	w.Flush()
}
