package store

import (
	"context"
	"database/sql"
	"time"
)

// History is the durable record of every job the engine has already opened,
// whatever the outcome. It is what keeps restarts from re-applying.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History { return &History{db: db} }

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS history (
  job_id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  attempted INTEGER NOT NULL DEFAULT 0,
  submitted INTEGER NOT NULL DEFAULT 0,
  seen_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_history_seen_at
ON history(seen_at);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// Seen reports whether jobID has ever been processed.
func (h *History) Seen(ctx context.Context, jobID string) (bool, error) {
	var one int
	err := h.db.QueryRowContext(ctx,
		`SELECT 1 FROM history WHERE job_id = ? LIMIT 1;`, jobID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Record upserts one job's outcome. A submitted=1 row is never downgraded by
// a later attempt.
func (h *History) Record(ctx context.Context, jobID, title, company string, attempted, submitted bool, at time.Time) error {
	_, err := h.db.ExecContext(ctx, `
INSERT INTO history(job_id, title, company, attempted, submitted, seen_at)
VALUES(?,?,?,?,?,?)
ON CONFLICT(job_id) DO UPDATE SET
  attempted = MAX(attempted, excluded.attempted),
  submitted = MAX(submitted, excluded.submitted),
  seen_at = excluded.seen_at;`,
		jobID, title, company, boolInt(attempted), boolInt(submitted),
		at.UTC().Format(time.RFC3339))
	return err
}

// Submitted counts successful applications, for the status feed.
func (h *History) Submitted(ctx context.Context) (int, error) {
	var n int
	err := h.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM history WHERE submitted = 1;`).Scan(&n)
	return n, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
