package service

import (
	"context"
	"time"

	"ai_diary/internal/llm"
	"ai_diary/internal/logger"
	"ai_diary/internal/models"
	"ai_diary/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Workflow drives the guided diary-creation flow. Every call is addressed
// by session id and the authenticated username; sessions created by a
// different user are treated as absent.
type Workflow interface {
	CreateSession(username string) models.SessionSnapshot
	GetSession(sessionID, username string) (models.SessionSnapshot, error)
	SetSummary(sessionID, username, summary string) (models.SessionSnapshot, error)
	GenerateQuestions(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error)
	SetAnswer(sessionID, username string, round, index int, answer string) (models.SessionSnapshot, error)
	GoDeeper(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error)
	ComposeDiary(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error)
	ComposeDirect(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error)
	EditDiary(ctx context.Context, sessionID, username, content string) (models.SessionSnapshot, error)
	ExportDiary(sessionID, username string) (string, error)
	Reset(sessionID, username string) (models.SessionSnapshot, error)
	Discard(sessionID, username string) error
}

// DiaryLog exposes read access over a user's persisted entries.
type DiaryLog interface {
	List(ctx context.Context, username string) ([]models.DiaryEntry, error)
}

// Sweeper evicts expired workflow sessions in the background. Stop via
// context cancellation in main() for graceful shutdown.
type Sweeper interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Authorization
	Workflow
	DiaryLog
	Sweeper
}

// Deps carries everything the service layer needs from main.
type Deps struct {
	Repos      *repository.Repository
	LLM        llm.Client
	Log        *logger.Logger
	SigningKey string
	TokenTTL   time.Duration
	SessionTTL time.Duration
}

func NewService(d Deps) *Service {
	sessions := newSessionStore(d.SessionTTL)
	return &Service{
		Authorization: NewAuthService(d.Repos.Users, d.SigningKey, d.TokenTTL),
		Workflow:      NewWorkflowService(sessions, d.LLM, d.Repos.Diaries, d.Log),
		DiaryLog:      NewDiaryService(d.Repos.Diaries),
		Sweeper:       NewSweeperService(sessions, d.Log),
	}
}
