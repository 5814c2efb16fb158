package pgstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/caduceus/internal/triage"
	"github.com/linnemanlabs/caduceus/internal/triage/pgstore"
)

func openStore(t *testing.T) *pgstore.Store {
	t.Helper()
	dsn := os.Getenv("CADUCEUS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CADUCEUS_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)

	s, err := pgstore.New(ctx, pool)
	if err != nil {
		t.Fatalf("pgstore.New: %v", err)
	}
	return s
}

func intPtr(v int) *int { return &v }

func TestPutAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond).UTC()
	temp := 39.2
	r := &triage.Record{
		ID:          ulid.Make().String(),
		PatientName: "Jane Roe",
		Age:         70,
		Gender:      triage.GenderFemale,
		Symptoms:    "chest pain and sweating",
		Vitals: &triage.VitalSigns{
			Temperature:      &temp,
			HeartRate:        intPtr(128),
			OxygenSaturation: intPtr(91),
		},
		Assessment: triage.Assessment{
			PriorityScore:         10,
			PriorityLevel:         triage.PriorityCritical,
			PriorityColor:         "red",
			RecommendedDepartment: "Cardiology",
			Category:              "cardiac",
			MatchedSymptoms:       []string{"chest pain"},
			Reasoning:             []string{"Symptom detected: chest pain (severity 9/10, cardiac)"},
			Alerts:                []string{"IMMEDIATE ATTENTION REQUIRED"},
			ConfidencePercent:     90,
		},
		Status:    triage.StatusWaiting,
		CreatedAt: now,
	}

	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false, want true")
	}

	assertEqual(t, "PatientName", r.PatientName, got.PatientName)
	assertEqual(t, "Age", r.Age, got.Age)
	assertEqual(t, "Gender", r.Gender, got.Gender)
	assertEqual(t, "Symptoms", r.Symptoms, got.Symptoms)
	assertEqual(t, "Status", r.Status, got.Status)
	if !got.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, r.CreatedAt)
	}
	assertEqual(t, "PriorityScore", 10, got.Assessment.PriorityScore)
	assertEqual(t, "RecommendedDepartment", "Cardiology", got.Assessment.RecommendedDepartment)

	if got.Vitals == nil || got.Vitals.HeartRate == nil || *got.Vitals.HeartRate != 128 {
		t.Errorf("Vitals.HeartRate mismatch: got %+v", got.Vitals)
	}
	if got.Vitals.RespiratoryRate != nil {
		t.Errorf("RespiratoryRate = %v, want nil", *got.Vitals.RespiratoryRate)
	}
	if len(got.Assessment.Alerts) != 1 || got.Assessment.Alerts[0] != "IMMEDIATE ATTENTION REQUIRED" {
		t.Errorf("Alerts mismatch: got %v", got.Assessment.Alerts)
	}
	if !got.SeenAt.IsZero() {
		t.Errorf("SeenAt = %v, want zero", got.SeenAt)
	}
}

func TestGetMissing(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Get(context.Background(), "nonexistent-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get returned ok=true for nonexistent ID")
	}
}

func TestUpsertMarksSeen(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond).UTC()
	r := &triage.Record{
		ID:         ulid.Make().String(),
		Age:        30,
		Gender:     triage.GenderUnknown,
		Symptoms:   "sprain",
		Assessment: triage.Assessment{PriorityScore: 3, PriorityLevel: triage.PriorityLow},
		Status:     triage.StatusWaiting,
		CreatedAt:  now,
	}
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put initial: %v", err)
	}

	r.Status = triage.StatusSeen
	r.SeenAt = now.Add(time.Hour)
	if err := s.Put(ctx, r); err != nil {
		t.Fatalf("Put update: %v", err)
	}

	got, ok, err := s.Get(ctx, r.ID)
	if err != nil || !ok {
		t.Fatalf("Get after upsert: ok=%v err=%v", ok, err)
	}
	assertEqual(t, "Status", triage.StatusSeen, got.Status)
	if !got.SeenAt.Equal(r.SeenAt) {
		t.Errorf("SeenAt: got %v, want %v", got.SeenAt, r.SeenAt)
	}

	waiting, err := s.ListWaiting(ctx, 0)
	if err != nil {
		t.Fatalf("ListWaiting: %v", err)
	}
	for _, w := range waiting {
		if w.ID == r.ID {
			t.Fatal("seen record still listed as waiting")
		}
	}
}

func TestListWaitingOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	// scores above the scorer's range so these rows sort ahead of anything
	// left behind by other runs
	t0 := time.Now().Truncate(time.Microsecond).UTC()
	mk := func(score int, offset time.Duration) *triage.Record {
		return &triage.Record{
			ID:         ulid.Make().String(),
			Gender:     triage.GenderUnknown,
			Symptoms:   "queue order",
			Assessment: triage.Assessment{PriorityScore: score},
			Status:     triage.StatusWaiting,
			CreatedAt:  t0.Add(offset),
		}
	}
	late := mk(1001, time.Minute)
	early := mk(1001, 0)
	top := mk(1002, 2*time.Minute)
	for _, r := range []*triage.Record{late, early, top} {
		if err := s.Put(ctx, r); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := s.ListWaiting(ctx, 3)
	if err != nil {
		t.Fatalf("ListWaiting: %v", err)
	}
	want := []string{top.ID, early.ID, late.ID}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		assertEqual(t, "ID", want[i], got[i].ID)
	}

	for _, r := range []*triage.Record{late, early, top} {
		r.Status = triage.StatusSeen
		_ = s.Put(ctx, r)
	}
}

func assertEqual[T comparable](t *testing.T, field string, want, got T) {
	t.Helper()
	if want != got {
		t.Errorf("%s: got %v, want %v", field, got, want)
	}
}
