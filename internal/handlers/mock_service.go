package handlers

import (
	"context"
	"net/http"
	"sync"

	"ai_diary/internal/models"
	"ai_diary/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseUsername string
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseUsername, m.parseErr
}

type mockWorkflow struct {
	snap       models.SessionSnapshot
	err        error
	exportText string

	mu            sync.Mutex // the snapshot stream calls GetSession from another goroutine
	lastSessionID string
	lastUsername  string
	lastSummary   string
	lastContent   string
	lastRound     int
	lastIndex     int
	lastAnswer    string
	calls         []string
}

func (m *mockWorkflow) record(name, sessionID, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	m.lastSessionID = sessionID
	m.lastUsername = username
}

func (m *mockWorkflow) lastCall() (sessionID, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSessionID, m.lastUsername
}

func (m *mockWorkflow) CreateSession(username string) models.SessionSnapshot {
	m.record("create", "", username)
	return m.snap
}
func (m *mockWorkflow) GetSession(sessionID, username string) (models.SessionSnapshot, error) {
	m.record("get", sessionID, username)
	return m.snap, m.err
}
func (m *mockWorkflow) SetSummary(sessionID, username, summary string) (models.SessionSnapshot, error) {
	m.record("summary", sessionID, username)
	m.lastSummary = summary
	return m.snap, m.err
}
func (m *mockWorkflow) GenerateQuestions(_ context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	m.record("questions", sessionID, username)
	return m.snap, m.err
}
func (m *mockWorkflow) SetAnswer(sessionID, username string, round, index int, answer string) (models.SessionSnapshot, error) {
	m.record("answer", sessionID, username)
	m.lastRound, m.lastIndex, m.lastAnswer = round, index, answer
	return m.snap, m.err
}
func (m *mockWorkflow) GoDeeper(_ context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	m.record("deeper", sessionID, username)
	return m.snap, m.err
}
func (m *mockWorkflow) ComposeDiary(_ context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	m.record("compose", sessionID, username)
	return m.snap, m.err
}
func (m *mockWorkflow) ComposeDirect(_ context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	m.record("compose_direct", sessionID, username)
	return m.snap, m.err
}
func (m *mockWorkflow) EditDiary(_ context.Context, sessionID, username, content string) (models.SessionSnapshot, error) {
	m.record("edit", sessionID, username)
	m.lastContent = content
	return m.snap, m.err
}
func (m *mockWorkflow) ExportDiary(sessionID, username string) (string, error) {
	m.record("export", sessionID, username)
	return m.exportText, m.err
}
func (m *mockWorkflow) Reset(sessionID, username string) (models.SessionSnapshot, error) {
	m.record("reset", sessionID, username)
	return m.snap, m.err
}
func (m *mockWorkflow) Discard(sessionID, username string) error {
	m.record("discard", sessionID, username)
	return m.err
}

type mockDiaryLog struct {
	resp         []models.DiaryEntry
	err          error
	lastUsername string
}

func (m *mockDiaryLog) List(_ context.Context, username string) ([]models.DiaryEntry, error) {
	m.lastUsername = username
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
