package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ai_diary/internal/models"

	"github.com/google/uuid"
)

type DiarySQLite struct {
	db *sql.DB
}

func NewDiarySQLite(db *sql.DB) *DiarySQLite { return &DiarySQLite{db: db} }

var _ Diaries = (*DiarySQLite)(nil)

const (
	insertDiarySQL = `INSERT INTO diaries (id, username, created_at, content) VALUES (?, ?, ?, ?)`

	// Newest first; created_at is the sort key, id breaks exact ties so
	// the order stays deterministic.
	selectDiariesSQL = `SELECT id, username, created_at, content FROM diaries WHERE username = ? ORDER BY created_at DESC, id`

	updateDiarySQL = `UPDATE diaries SET content = ? WHERE id = ?`
)

// timestampLayout keeps microseconds so entries written within the same
// second still sort newest first.
const timestampLayout = "2006-01-02 15:04:05.000000"

// Append inserts a new entry. Missing ID or CreatedAt are filled in.
func (r *DiarySQLite) Append(ctx context.Context, e models.DiaryEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	} else {
		e.CreatedAt = e.CreatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertDiarySQL,
		e.ID,
		e.Username,
		e.CreatedAt.Format(timestampLayout),
		e.Content,
	)
	if err != nil {
		return fmt.Errorf("insert diary for %q: %w", e.Username, err)
	}
	return nil
}

// List returns the user's entries, newest first.
func (r *DiarySQLite) List(ctx context.Context, username string) ([]models.DiaryEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectDiariesSQL, username)
	if err != nil {
		return nil, fmt.Errorf("select diaries for %q: %w", username, err)
	}
	defer rows.Close()

	out := make([]models.DiaryEntry, 0, 16)
	for rows.Next() {
		var e models.DiaryEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.CreatedAt, &e.Content); err != nil {
			return nil, err
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateContent replaces the text of an existing entry.
func (r *DiarySQLite) UpdateContent(ctx context.Context, id, content string) error {
	res, err := r.db.ExecContext(ctx, updateDiarySQL, content, id)
	if err != nil {
		return fmt.Errorf("update diary %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for diary %q: %w", id, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
