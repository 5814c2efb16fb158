// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/caduceus/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists triage records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on pool and returns a ready Store. The caller owns
// the pool and closes it.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const recordColumns = `id, patient_name, age, gender, symptoms, vitals, assessment, status, created_at, seen_at`

func startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", op),
	))
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Get retrieves a record by ID.
func (s *Store) Get(ctx context.Context, id string) (*triage.Record, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.Get", "SELECT")
	defer span.End()

	query := `SELECT ` + recordColumns + ` FROM triage_records WHERE id = $1`
	r, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		fail(span, err)
		return nil, false, err
	}
	if r == nil {
		return nil, false, nil
	}
	return r, true, nil
}

// Put inserts or updates a record.
func (s *Store) Put(ctx context.Context, r *triage.Record) error {
	ctx, span := startSpan(ctx, "pgstore.Put", "UPSERT")
	defer span.End()

	assessmentJSON, err := json.Marshal(r.Assessment)
	if err != nil {
		fail(span, err)
		return fmt.Errorf("marshal assessment: %w", err)
	}
	var vitalsJSON []byte
	if r.Vitals != nil {
		if vitalsJSON, err = json.Marshal(r.Vitals); err != nil {
			fail(span, err)
			return fmt.Errorf("marshal vitals: %w", err)
		}
	}

	var seenAt *time.Time
	if !r.SeenAt.IsZero() {
		seenAt = &r.SeenAt
	}

	query := `INSERT INTO triage_records (
		id, patient_name, age, gender, symptoms, vitals, assessment, priority, status, created_at, seen_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	ON CONFLICT (id) DO UPDATE SET
		patient_name = EXCLUDED.patient_name,
		age          = EXCLUDED.age,
		gender       = EXCLUDED.gender,
		symptoms     = EXCLUDED.symptoms,
		vitals       = EXCLUDED.vitals,
		assessment   = EXCLUDED.assessment,
		priority     = EXCLUDED.priority,
		status       = EXCLUDED.status,
		seen_at      = EXCLUDED.seen_at`

	_, err = s.pool.Exec(ctx, query,
		r.ID, r.PatientName, r.Age, string(r.Gender), r.Symptoms, vitalsJSON, assessmentJSON,
		r.Assessment.PriorityScore, string(r.Status), r.CreatedAt, seenAt,
	)
	if err != nil {
		fail(span, err)
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// ListWaiting returns waiting records in queue order. limit <= 0 means no limit.
func (s *Store) ListWaiting(ctx context.Context, limit int) ([]*triage.Record, error) {
	ctx, span := startSpan(ctx, "pgstore.ListWaiting", "SELECT")
	defer span.End()

	query := `SELECT ` + recordColumns + ` FROM triage_records
		WHERE status = $1
		ORDER BY priority DESC, created_at ASC, id ASC`
	args := []any{string(triage.StatusWaiting)}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("query waiting: %w", err)
	}
	defer rows.Close()

	var out []*triage.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			fail(span, err)
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		fail(span, err)
		return nil, fmt.Errorf("iterate waiting: %w", err)
	}
	span.SetAttributes(attribute.Int("caduceus.queue.length", len(out)))
	return out, nil
}

// scanRecord returns (nil, nil) when no row is found.
func scanRecord(row pgx.Row) (*triage.Record, error) {
	var (
		r              triage.Record
		gender, status string
		vitalsJSON     []byte
		assessmentJSON []byte
		seenAt         *time.Time
	)

	err := row.Scan(
		&r.ID, &r.PatientName, &r.Age, &gender, &r.Symptoms,
		&vitalsJSON, &assessmentJSON, &status, &r.CreatedAt, &seenAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	r.Gender = triage.Gender(gender)
	r.Status = triage.Status(status)
	r.CreatedAt = r.CreatedAt.UTC()
	if seenAt != nil {
		r.SeenAt = seenAt.UTC()
	}

	if len(vitalsJSON) > 0 {
		r.Vitals = &triage.VitalSigns{}
		if err := json.Unmarshal(vitalsJSON, r.Vitals); err != nil {
			return nil, fmt.Errorf("unmarshal vitals: %w", err)
		}
	}
	if err := json.Unmarshal(assessmentJSON, &r.Assessment); err != nil {
		return nil, fmt.Errorf("unmarshal assessment: %w", err)
	}

	return &r, nil
}
