package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"

	"github.com/bnema/shrink/internal/domain"
	"github.com/bnema/shrink/internal/port"
)

//go:embed migrations/*.sql
var migrations embed.FS

const dbFileName = "history.db"

type Store struct {
	db *sql.DB
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

// NewStore opens (creating if needed) the run history database in dataDir
// and applies pending migrations.
func NewStore(dataDir string) (*Store, error) {
	registerHook()

	dbPath := filepath.Join(dataDir, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for SQLite (WAL allows concurrent reads but only one writer)
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const insertRun = `
INSERT INTO runs (id, source_dir, dest_dir, settings_json, log_path, status, started_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (s *Store) StartRun(ctx context.Context, r *domain.RunRecord) error {
	settings, err := json.Marshal(r.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, insertRun,
		r.ID, r.SourceDir, r.DestDir, string(settings), r.LogPath, string(r.Status), r.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const finishRun = `
UPDATE runs
SET status = ?, scanned = ?, succeeded = ?, skipped = ?, failed = ?,
    input_bytes = ?, output_bytes = ?, error_message = ?, finished_at = ?
WHERE id = ?`

func (s *Store) FinishRun(ctx context.Context, r *domain.RunRecord) error {
	res, err := s.db.ExecContext(ctx, finishRun,
		string(r.Status), r.Scanned, r.Succeeded, r.Skipped, r.Failed,
		r.InputBytes, r.OutputBytes, r.Error, r.FinishedAt.UTC(), r.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const selectRunColumns = `
SELECT id, source_dir, dest_dir, settings_json, log_path, status,
       scanned, succeeded, skipped, failed, input_bytes, output_bytes,
       error_message, started_at, finished_at
FROM runs`

func (s *Store) GetRun(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, selectRunColumns+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectRunColumns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*domain.RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RunRecord, error) {
	var (
		r        domain.RunRecord
		status   string
		settings string
		finished sql.NullTime
	)
	err := row.Scan(&r.ID, &r.SourceDir, &r.DestDir, &settings, &r.LogPath, &status,
		&r.Scanned, &r.Succeeded, &r.Skipped, &r.Failed, &r.InputBytes, &r.OutputBytes,
		&r.Error, &r.StartedAt, &finished)
	if err != nil {
		return nil, err
	}
	r.Status = domain.RunStatus(status)
	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	if err := json.Unmarshal([]byte(settings), &r.Settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings of run %s: %w", r.ID, err)
	}
	return &r, nil
}

var _ port.RunRecorder = (*Store)(nil)
