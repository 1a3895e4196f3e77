package repository

import (
	"context"
	"database/sql"
	"errors"

	"ai_diary/internal/models"
	"ai_diary/internal/repository/db"
)

// ErrDuplicateUser reports an insert that collided with the username
// UNIQUE constraint.
var ErrDuplicateUser = errors.New("username already taken")

type Users interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Diaries interface {
	Append(ctx context.Context, e models.DiaryEntry) error
	List(ctx context.Context, username string) ([]models.DiaryEntry, error)
	UpdateContent(ctx context.Context, id, content string) error
}

type Repository struct {
	Users   Users
	Diaries Diaries
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:   NewUserSQLite(sqlDB),
		Diaries: NewDiarySQLite(sqlDB),
	}
}

// InitDB is re-exported so main wires everything through this package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
