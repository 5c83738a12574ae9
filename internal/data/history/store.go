package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName     = "sqlite"
	maxAttempts    = 5
	defaultProject = "default"

	// Fixed width keeps lexical order equal to time order.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts when watch mode and ad-hoc
	// stats runs share a database.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores run and its field counts in one transaction and returns
// the run id, generating one when run.ID is empty.
func (s *Store) SaveRun(run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.Project = normalizeProject(run.Project)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.Exec(`
INSERT INTO runs (
  id, project_key, ts_utc, schema_path, documents_path, type_count, operation_count, operation_errors
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.Project,
			run.Timestamp.UTC().Format(timestampLayout),
			run.SchemaPath,
			run.DocumentsPath,
			run.TypeCount,
			run.OperationCount,
			run.OperationErrors,
		); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
INSERT INTO field_counts (run_id, type_name, field_name, signature, count)
VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range run.Counts {
			if _, err := stmt.Exec(run.ID, c.Type, c.Field, c.Signature, c.Count); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// LoadRuns returns the newest runs of a project first. A non-positive limit
// returns every run.
func (s *Store) LoadRuns(project string, limit int) ([]RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT
  r.id, r.project_key, r.ts_utc, r.schema_path, r.documents_path, r.type_count,
  r.operation_count, r.operation_errors,
  COUNT(c.field_name),
  COALESCE(SUM(CASE WHEN c.count = 0 THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(c.count), 0)
FROM runs r
LEFT JOIN field_counts c ON c.run_id = r.id
WHERE r.project_key = ?
GROUP BY r.id
ORDER BY r.ts_utc DESC, r.id ASC`
	args := []any{normalizeProject(project)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var (
			tsRaw string
			run   RunSummary
		)
		if err := rows.Scan(
			&run.ID,
			&run.Project,
			&tsRaw,
			&run.SchemaPath,
			&run.DocumentsPath,
			&run.Types,
			&run.Operations,
			&run.OperationErrors,
			&run.Fields,
			&run.Unused,
			&run.Selections,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(timestampLayout, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

// LoadCounts returns the field counts of one run ordered by type and field.
func (s *Store) LoadCounts(runID string) ([]FieldCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows *sql.Rows
	err := s.withRetry("load counts", func() error {
		var qErr error
		rows, qErr = s.db.Query(`
SELECT type_name, field_name, signature, count
FROM field_counts
WHERE run_id = ?
ORDER BY type_name ASC, field_name ASC`, runID)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]FieldCount, 0)
	for rows.Next() {
		var c FieldCount
		if err := rows.Scan(&c.Type, &c.Field, &c.Signature, &c.Count); err != nil {
			return nil, fmt.Errorf("scan field count row: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field count rows: %w", err)
	}
	if len(counts) == 0 {
		var exists int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("lookup run %q: %w", runID, err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("run %q: %w", runID, ErrRunNotFound)
		}
	}
	return counts, nil
}

var ErrRunNotFound = errors.New("run not found")

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func normalizeProject(project string) string {
	project = strings.TrimSpace(project)
	if project == "" {
		return defaultProject
	}
	return project
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}
