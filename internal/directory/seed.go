package directory

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the initial directory content.
type Seed struct {
	Staff       []StaffMember `yaml:"staff"`
	Departments []Department  `yaml:"departments"`
}

// LoadSeed reads a directory seed from a YAML file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read directory seed: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Seed{}, fmt.Errorf("parse directory seed %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return Seed{}, fmt.Errorf("directory seed %s: %w", path, err)
	}
	return s, nil
}

func (s Seed) validate() error {
	var errs []error
	for i, m := range s.Staff {
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("staff[%d]: name is required", i))
		}
		if m.Status != "" && !m.Status.Valid() {
			errs = append(errs, fmt.Errorf("staff[%d] %q: unknown status %q", i, m.Name, m.Status))
		}
	}
	for i, d := range s.Departments {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("departments[%d]: name is required", i))
		}
	}
	return errors.Join(errs...)
}

// DefaultSeed is the built-in directory used when no seed file is configured.
func DefaultSeed() Seed {
	return Seed{
		Staff: []StaffMember{
			{Name: "Dr. Sarah Chen", Role: "Chief of Cardiology", Department: "Cardiology", Phone: "ext. 4401", Email: "s.chen@hospital.org", Status: StatusOnDuty},
			{Name: "Dr. Michael Rodriguez", Role: "Emergency Physician", Department: "Emergency", Phone: "ext. 2210", Email: "m.rodriguez@hospital.org", Status: StatusOnDuty},
			{Name: "Dr. Emily Watson", Role: "Neurologist", Department: "Neurology", Phone: "ext. 3305", Email: "e.watson@hospital.org", Status: StatusOnCall},
			{Name: "Nurse James Park", Role: "Charge Nurse", Department: "Emergency", Phone: "ext. 2214", Email: "j.park@hospital.org", Status: StatusOnDuty},
			{Name: "Dr. Aisha Okafor", Role: "Paediatrician", Department: "Paediatrics", Phone: "ext. 5120", Email: "a.okafor@hospital.org", Status: StatusOnBreak},
			{Name: "Dr. Lukas Berg", Role: "Anaesthesiologist", Department: "Surgery", Phone: "ext. 6032", Email: "l.berg@hospital.org", Status: StatusOffDuty},
			{Name: "Maria Santos", Role: "Clinical Pharmacist", Department: "Pharmacy", Phone: "ext. 1187", Email: "m.santos@hospital.org", Status: StatusOnDuty},
		},
		Departments: []Department{
			{Name: "Emergency", Description: "24/7 emergency and trauma care", StaffCount: 24, ActiveStaff: 18, PatientCount: 32, Coverage: "24/7", Head: "Dr. Michael Rodriguez"},
			{Name: "Cardiology", Description: "Heart and vascular care", StaffCount: 15, ActiveStaff: 11, PatientCount: 21, Coverage: "08:00-20:00, on-call overnight", Head: "Dr. Sarah Chen"},
			{Name: "Neurology", Description: "Brain, spine and nervous system", StaffCount: 10, ActiveStaff: 6, PatientCount: 14, Coverage: "08:00-18:00, on-call overnight", Head: "Dr. Emily Watson"},
			{Name: "Paediatrics", Description: "Care for infants, children and adolescents", StaffCount: 12, ActiveStaff: 8, PatientCount: 17, Coverage: "24/7", Head: "Dr. Aisha Okafor"},
			{Name: "Surgery", Description: "General and specialist surgery", StaffCount: 20, ActiveStaff: 14, PatientCount: 19, Coverage: "07:00-21:00, emergency theatre 24/7", Head: "Dr. Lukas Berg"},
			{Name: "Internal Medicine", Description: "Adult inpatient medicine", StaffCount: 18, ActiveStaff: 13, PatientCount: 38, Coverage: "24/7", Head: "Dr. Hannah Fischer"},
		},
	}
}
