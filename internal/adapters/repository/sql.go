package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/pkg/metrics"
)

// Supported store drivers. OpenSQLStore accepts the SQL ones.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
  id           TEXT PRIMARY KEY,
  candidate_id TEXT NOT NULL DEFAULT '',
  job_id       TEXT NOT NULL DEFAULT '',
  status       TEXT NOT NULL,
  result_json  TEXT,
  error        TEXT NOT NULL DEFAULT '',
  submitted_at BIGINT NOT NULL,
  scored_at    BIGINT
)`

const (
	upsertSQL = `INSERT INTO evaluations
  (id, candidate_id, job_id, status, result_json, error, submitted_at, scored_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  candidate_id = excluded.candidate_id,
  job_id       = excluded.job_id,
  status       = excluded.status,
  result_json  = excluded.result_json,
  error        = excluded.error,
  submitted_at = excluded.submitted_at,
  scored_at    = excluded.scored_at`

	selectSQL = `SELECT id, candidate_id, job_id, status, result_json, error, submitted_at, scored_at
FROM evaluations WHERE id = ?`

	deleteSQL = `DELETE FROM evaluations WHERE id = ?`
	countSQL  = `SELECT COUNT(*) FROM evaluations`
)

// SQLStore keeps records in SQLite or PostgreSQL through database/sql.
// Results are stored as JSON and timestamps as unix nanoseconds.
type SQLStore struct {
	db           *sql.DB
	driver       string
	maxOpenConns int

	upsert, get, del string
}

// OpenSQLStore opens the database, verifies connectivity and ensures the schema exists.
func OpenSQLStore(ctx context.Context, driver, dsn string, opts ...SQLOption) (*SQLStore, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "file:fitscore.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	s := &SQLStore{driver: driver}
	for _, opt := range opts {
		opt(s)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if s.maxOpenConns > 0 {
		db.SetMaxOpenConns(s.maxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: schema: %w", err)
	}

	s.db = db
	s.upsert = s.rebind(upsertSQL)
	s.get = s.rebind(selectSQL)
	s.del = s.rebind(deleteSQL)

	if n, err := s.Count(ctx); err == nil {
		metrics.UpdateStoreRecords(n)
	}
	return s, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *SQLStore) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save implements Store.Save.
func (s *SQLStore) Save(ctx context.Context, rec model.EvaluationRecord) error { //nolint:gocritic // hugeParam: mirrors Store
	if rec.ID == "" {
		return ErrInvalidID
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var result sql.NullString
	if rec.Result != nil {
		raw, err := json.Marshal(rec.Result)
		if err != nil {
			return fmt.Errorf("store: encode result %s: %w", rec.ID, err)
		}
		result = sql.NullString{String: string(raw), Valid: true}
	}
	var scoredAt sql.NullInt64
	if rec.ScoredAt != nil {
		scoredAt = sql.NullInt64{Int64: rec.ScoredAt.UnixNano(), Valid: true}
	}

	if _, err := s.db.ExecContext(ctx, s.upsert,
		rec.ID, rec.CandidateID, rec.JobID, string(rec.Status),
		result, rec.Error, rec.SubmittedAt.UnixNano(), scoredAt,
	); err != nil {
		return fmt.Errorf("store: save %s: %w", rec.ID, err)
	}
	return nil
}

// Get implements Store.Get.
func (s *SQLStore) Get(ctx context.Context, id string) (model.EvaluationRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreReadLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var (
		rec       model.EvaluationRecord
		status    string
		result    sql.NullString
		submitted int64
		scoredAt  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, s.get, id).Scan(
		&rec.ID, &rec.CandidateID, &rec.JobID, &status, &result, &rec.Error, &submitted, &scoredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EvaluationRecord{}, ErrNotFound
	}
	if err != nil {
		return model.EvaluationRecord{}, fmt.Errorf("store: get %s: %w", id, err)
	}

	rec.Status = model.EvaluationStatus(status)
	rec.SubmittedAt = time.Unix(0, submitted).UTC()
	if scoredAt.Valid {
		t := time.Unix(0, scoredAt.Int64).UTC()
		rec.ScoredAt = &t
	}
	if result.Valid {
		var r model.ScoringResult
		if err := json.Unmarshal([]byte(result.String), &r); err != nil {
			return model.EvaluationRecord{}, fmt.Errorf("store: decode result %s: %w", id, err)
		}
		rec.Result = &r
	}
	return rec, nil
}

// Delete implements Store.Delete.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.del, id); err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// Count implements Store.Count.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
