package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no staff member has the given ID.
	ErrNotFound = errors.New("staff member not found")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid staff status")
)

// Store is an in-memory directory. It is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	staff       []StaffMember
	departments []Department
}

// NewStore builds a directory from a seed. Staff without an ID get a
// random UUID; staff without a status are off duty.
func NewStore(seed Seed) *Store {
	s := &Store{
		staff:       make([]StaffMember, len(seed.Staff)),
		departments: append([]Department(nil), seed.Departments...),
	}
	copy(s.staff, seed.Staff)
	for i := range s.staff {
		if s.staff[i].ID == "" {
			s.staff[i].ID = uuid.NewString()
		}
		if s.staff[i].Status == "" {
			s.staff[i].Status = StatusOffDuty
		}
	}
	return s
}

// Staff returns a copy of every staff member in seed order.
func (s *Store) Staff(_ context.Context) []StaffMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StaffMember(nil), s.staff...)
}

// Departments returns a copy of every department in seed order.
func (s *Store) Departments(_ context.Context) []Department {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Department(nil), s.departments...)
}

// Snapshot returns staff and departments taken under a single lock.
func (s *Store) Snapshot(_ context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Staff:       append([]StaffMember(nil), s.staff...),
		Departments: append([]Department(nil), s.departments...),
	}
}

// UpdateStatus changes a staff member's availability and returns the
// updated entry.
func (s *Store) UpdateStatus(_ context.Context, id string, status StaffStatus) (StaffMember, error) {
	if !status.Valid() {
		return StaffMember{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.staff {
		if s.staff[i].ID == id {
			s.staff[i].Status = status
			return s.staff[i], nil
		}
	}
	return StaffMember{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
