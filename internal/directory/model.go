// Package directory holds the staff and department records the clinical
// assistant consults. It is the only mutable state the responder reads,
// and it hands out copies so callers can never change a snapshot in place.
package directory

// StaffStatus is a staff member's current availability.
type StaffStatus string

const (
	StatusOnDuty  StaffStatus = "on-duty"
	StatusOnCall  StaffStatus = "on-call"
	StatusOnBreak StaffStatus = "on-break"
	StatusOffDuty StaffStatus = "off-duty"
)

// Valid reports whether s is a known status.
func (s StaffStatus) Valid() bool {
	switch s {
	case StatusOnDuty, StatusOnCall, StatusOnBreak, StatusOffDuty:
		return true
	}
	return false
}

// StaffMember is a directory entry for a clinician or support worker.
type StaffMember struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Role       string      `json:"role" yaml:"role"`
	Department string      `json:"department" yaml:"department"`
	Phone      string      `json:"phone" yaml:"phone"`
	Email      string      `json:"email" yaml:"email"`
	Status     StaffStatus `json:"status" yaml:"status"`
}

// Department is a ward or service line with its current load.
type Department struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	StaffCount   int    `json:"staff_count" yaml:"staff_count"`
	ActiveStaff  int    `json:"active_staff" yaml:"active_staff"`
	PatientCount int    `json:"patient_count" yaml:"patient_count"`
	Coverage     string `json:"coverage" yaml:"coverage"`
	Head         string `json:"head" yaml:"head"`
}

// Snapshot is a point-in-time copy of the directory.
type Snapshot struct {
	Staff       []StaffMember
	Departments []Department
}
