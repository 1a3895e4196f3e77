package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai_diary/internal/models"
	"ai_diary/internal/service"
)

func TestListDiaries(t *testing.T) {
	newer := time.Date(2025, 8, 31, 9, 0, 0, 0, time.UTC)
	older := time.Date(2025, 8, 30, 9, 0, 0, 0, time.UTC)

	diaryLog := &mockDiaryLog{resp: []models.DiaryEntry{
		{ID: "e2", Username: "alice", CreatedAt: newer, Content: "新しい日記"},
		{ID: "e1", Username: "alice", CreatedAt: older, Content: "古い日記"},
	}}
	auth := &mockAuth{parseUsername: "alice"}
	r := newTestRouter(&service.Service{Authorization: auth, DiaryLog: diaryLog})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/diaries", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if diaryLog.lastUsername != "alice" {
		t.Fatalf("username forwarded = %q", diaryLog.lastUsername)
	}

	var out struct {
		Count   int                 `json:"count"`
		Entries []models.DiaryEntry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Count != 2 || len(out.Entries) != 2 {
		t.Fatalf("count=%d entries=%d", out.Count, len(out.Entries))
	}
	if out.Entries[0].ID != "e2" {
		t.Fatalf("expected newest entry first, got %s", out.Entries[0].ID)
	}
}

func TestListDiaries_StoreError(t *testing.T) {
	diaryLog := &mockDiaryLog{err: errors.New("db down")}
	auth := &mockAuth{parseUsername: "alice"}
	r := newTestRouter(&service.Service{Authorization: auth, DiaryLog: diaryLog})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/diaries", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", w.Code)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var out map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["status"] != "ok" {
		t.Fatalf("body=%s", w.Body.String())
	}
}
