package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestNewStore_AssignsIDsAndDefaults(t *testing.T) {
	t.Parallel()

	s := NewStore(Seed{Staff: []StaffMember{
		{ID: "fixed", Name: "A", Status: StatusOnDuty},
		{Name: "B"},
	}})
	staff := s.Staff(context.Background())

	if staff[0].ID != "fixed" {
		t.Errorf("explicit ID replaced: %q", staff[0].ID)
	}
	if _, err := uuid.Parse(staff[1].ID); err != nil {
		t.Errorf("generated ID %q is not a UUID: %v", staff[1].ID, err)
	}
	if staff[1].Status != StatusOffDuty {
		t.Errorf("default status = %q, want %q", staff[1].Status, StatusOffDuty)
	}
}

func TestNewStore_DoesNotAliasSeed(t *testing.T) {
	t.Parallel()

	seed := Seed{Staff: []StaffMember{{ID: "a", Name: "A", Status: StatusOnDuty}}}
	s := NewStore(seed)
	seed.Staff[0].Name = "changed"

	if got := s.Staff(context.Background())[0].Name; got != "A" {
		t.Errorf("store aliased seed slice: name = %q", got)
	}
}

func TestSnapshot_IsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(DefaultSeed())
	snap := s.Snapshot(ctx)
	snap.Staff[0].Name = "mutated"
	snap.Departments[0].PatientCount = -1

	again := s.Snapshot(ctx)
	if again.Staff[0].Name == "mutated" {
		t.Error("staff snapshot shares memory with store")
	}
	if again.Departments[0].PatientCount == -1 {
		t.Error("department snapshot shares memory with store")
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(Seed{Staff: []StaffMember{{ID: "n1", Name: "Nurse", Status: StatusOnDuty}}})

	got, err := s.UpdateStatus(ctx, "n1", StatusOnBreak)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != StatusOnBreak {
		t.Errorf("returned status = %q", got.Status)
	}
	if s.Staff(ctx)[0].Status != StatusOnBreak {
		t.Error("status not persisted")
	}

	if _, err := s.UpdateStatus(ctx, "missing", StatusOnDuty); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateStatus(ctx, "n1", "asleep"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: err = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatus_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(DefaultSeed())
	staff := s.Staff(ctx)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := staff[i%len(staff)]
			_, _ = s.UpdateStatus(ctx, m.ID, StatusOnCall)
			_ = s.Snapshot(ctx)
		}()
	}
	wg.Wait()

	for _, m := range s.Staff(ctx) {
		if m.Status != StatusOnCall {
			t.Errorf("%s status = %q, want on-call", m.Name, m.Status)
		}
	}
}

func TestLoadSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "directory.yaml")
	data := `
staff:
  - name: Dr. Test
    role: Radiologist
    department: Radiology
    phone: ext. 1
    email: test@hospital.org
    status: on-call
departments:
  - name: Radiology
    description: Imaging
    staff_count: 4
    active_staff: 2
    patient_count: 9
    coverage: 24/7
    head: Dr. Test
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	want := Seed{
		Staff: []StaffMember{{
			Name: "Dr. Test", Role: "Radiologist", Department: "Radiology",
			Phone: "ext. 1", Email: "test@hospital.org", Status: StatusOnCall,
		}},
		Departments: []Department{{
			Name: "Radiology", Description: "Imaging", StaffCount: 4, ActiveStaff: 2,
			PatientCount: 9, Coverage: "24/7", Head: "Dr. Test",
		}},
	}
	if diff := cmp.Diff(want, seed); diff != "" {
		t.Errorf("seed mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSeed_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"missing name", "staff:\n  - role: Nurse\n"},
		{"bad status", "staff:\n  - name: X\n    status: sleeping\n"},
		{"department without name", "departments:\n  - head: Someone\n"},
		{"not yaml", "staff: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "seed.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSeed(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
