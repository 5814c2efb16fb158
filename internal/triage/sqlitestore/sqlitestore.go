// Package sqlitestore provides a file-backed SQLite implementation of
// triage.Store for single-binary use.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

// fixed width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = `id, patient_name, age, gender, symptoms, vitals, assessment, status, created_at, seen_at`

// Store persists triage records in a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS triage_records (
		id           TEXT PRIMARY KEY,
		patient_name TEXT NOT NULL DEFAULT '',
		age          INTEGER NOT NULL,
		gender       TEXT NOT NULL,
		symptoms     TEXT NOT NULL,
		vitals       TEXT,
		assessment   TEXT NOT NULL,
		priority     INTEGER NOT NULL,
		status       TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		seen_at      TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_triage_queue ON triage_records(status, priority DESC, created_at);
	`)
	return err
}

// Get retrieves a record by ID.
func (s *Store) Get(ctx context.Context, id string) (*triage.Record, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM triage_records WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// Put inserts or replaces a record.
func (s *Store) Put(ctx context.Context, r *triage.Record) error {
	assessment, err := json.Marshal(r.Assessment)
	if err != nil {
		return fmt.Errorf("marshal assessment: %w", err)
	}
	var vitals *string
	if r.Vitals != nil {
		b, err := json.Marshal(r.Vitals)
		if err != nil {
			return fmt.Errorf("marshal vitals: %w", err)
		}
		v := string(b)
		vitals = &v
	}
	var seenAt *string
	if !r.SeenAt.IsZero() {
		v := r.SeenAt.UTC().Format(timeLayout)
		seenAt = &v
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO triage_records (`+recordColumns+`, priority)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			patient_name = excluded.patient_name,
			age          = excluded.age,
			gender       = excluded.gender,
			symptoms     = excluded.symptoms,
			vitals       = excluded.vitals,
			assessment   = excluded.assessment,
			priority     = excluded.priority,
			status       = excluded.status,
			seen_at      = excluded.seen_at`,
		r.ID, r.PatientName, r.Age, string(r.Gender), r.Symptoms, vitals, string(assessment),
		string(r.Status), r.CreatedAt.UTC().Format(timeLayout), seenAt, r.Assessment.PriorityScore,
	)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// ListWaiting returns waiting records in queue order. limit <= 0 means no limit.
func (s *Store) ListWaiting(ctx context.Context, limit int) ([]*triage.Record, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM triage_records
		 WHERE status = ?
		 ORDER BY priority DESC, created_at ASC, id ASC
		 LIMIT ?`,
		string(triage.StatusWaiting), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query waiting: %w", err)
	}
	defer rows.Close()

	var out []*triage.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*triage.Record, error) {
	var (
		r                  triage.Record
		gender, status     string
		vitals, seenAt     sql.NullString
		assessment, create string
	)
	if err := row.Scan(&r.ID, &r.PatientName, &r.Age, &gender, &r.Symptoms,
		&vitals, &assessment, &status, &create, &seenAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	r.Gender = triage.Gender(gender)
	r.Status = triage.Status(status)

	var err error
	if r.CreatedAt, err = time.Parse(timeLayout, create); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if seenAt.Valid {
		if r.SeenAt, err = time.Parse(timeLayout, seenAt.String); err != nil {
			return nil, fmt.Errorf("parse seen_at: %w", err)
		}
	}
	if vitals.Valid {
		r.Vitals = &triage.VitalSigns{}
		if err := json.Unmarshal([]byte(vitals.String), r.Vitals); err != nil {
			return nil, fmt.Errorf("unmarshal vitals: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(assessment), &r.Assessment); err != nil {
		return nil, fmt.Errorf("unmarshal assessment: %w", err)
	}
	return &r, nil
}
