package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"ai_diary/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDiaryRepo(t *testing.T) (*DiarySQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewDiarySQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestDiarySQLite_Append(t *testing.T) {
	created := time.Date(2025, 8, 30, 21, 15, 0, 0, time.UTC)

	t.Run("explicit id and timestamp", func(t *testing.T) {
		repo, mock, cleanup := newMockDiaryRepo(t)
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta(insertDiarySQL)).
			WithArgs("e1", "alice", "2025-08-30 21:15:00.000000", "今日の日記").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Append(context.Background(), models.DiaryEntry{
			ID:        "e1",
			Username:  "alice",
			CreatedAt: created,
			Content:   "今日の日記",
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	})

	t.Run("missing id and timestamp are filled", func(t *testing.T) {
		repo, mock, cleanup := newMockDiaryRepo(t)
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta(insertDiarySQL)).
			WithArgs(sqlmock.AnyArg(), "alice", sqlmock.AnyArg(), "本文").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Append(context.Background(), models.DiaryEntry{
			Username: "alice",
			Content:  "本文",
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	})

	t.Run("same-second inserts keep distinct sort keys", func(t *testing.T) {
		repo, mock, cleanup := newMockDiaryRepo(t)
		defer cleanup()

		first := time.Date(2025, 8, 30, 21, 15, 0, 100_000_000, time.UTC)
		second := first.Add(500 * time.Millisecond)

		mock.ExpectExec(regexp.QuoteMeta(insertDiarySQL)).
			WithArgs("e1", "alice", "2025-08-30 21:15:00.100000", "先の日記").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta(insertDiarySQL)).
			WithArgs("e2", "alice", "2025-08-30 21:15:00.600000", "後の日記").
			WillReturnResult(sqlmock.NewResult(1, 1))

		if err := repo.Append(context.Background(), models.DiaryEntry{ID: "e1", Username: "alice", CreatedAt: first, Content: "先の日記"}); err != nil {
			t.Fatalf("Append first: %v", err)
		}
		if err := repo.Append(context.Background(), models.DiaryEntry{ID: "e2", Username: "alice", CreatedAt: second, Content: "後の日記"}); err != nil {
			t.Fatalf("Append second: %v", err)
		}
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock, cleanup := newMockDiaryRepo(t)
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta(insertDiarySQL)).
			WillReturnError(errors.New("disk full"))

		err := repo.Append(context.Background(), models.DiaryEntry{Username: "alice", Content: "x"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestDiarySQLite_List_NewestFirst(t *testing.T) {
	repo, mock, cleanup := newMockDiaryRepo(t)
	defer cleanup()

	newer := time.Date(2025, 8, 31, 9, 0, 0, 0, time.UTC)
	older := time.Date(2025, 8, 30, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "created_at", "content"}).
		AddRow("e2", "alice", newer, "新しい日記").
		AddRow("e1", "alice", older, "古い日記")

	// the query itself must order by created_at DESC
	mock.ExpectQuery(regexp.QuoteMeta(selectDiariesSQL)).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Fatalf("entries not newest first: %v then %v", got[0].CreatedAt, got[1].CreatedAt)
	}
	if got[0].ID != "e2" || got[1].ID != "e1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestDiarySQLite_List_Empty(t *testing.T) {
	repo, mock, cleanup := newMockDiaryRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectDiariesSQL)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "created_at", "content"}))

	got, err := repo.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}

func TestDiarySQLite_UpdateContent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := newMockDiaryRepo(t)
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta(updateDiarySQL)).
			WithArgs("直した本文", "e1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.UpdateContent(context.Background(), "e1", "直した本文"); err != nil {
			t.Fatalf("UpdateContent: %v", err)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		repo, mock, cleanup := newMockDiaryRepo(t)
		defer cleanup()

		mock.ExpectExec(regexp.QuoteMeta(updateDiarySQL)).
			WithArgs("x", "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateContent(context.Background(), "ghost", "x")
		if !errors.Is(err, sql.ErrNoRows) {
			t.Fatalf("expected sql.ErrNoRows, got %v", err)
		}
	})
}
