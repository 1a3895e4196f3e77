package service

import (
	"context"

	"ai_diary/internal/models"
	"ai_diary/internal/repository"
)

// DiaryService is the read side over persisted entries.
type DiaryService struct {
	diaries repository.Diaries
}

func NewDiaryService(diaries repository.Diaries) *DiaryService {
	return &DiaryService{diaries: diaries}
}

// List returns the user's entries newest first, timestamps normalized to
// UTC.
func (s *DiaryService) List(ctx context.Context, username string) ([]models.DiaryEntry, error) {
	entries, err := s.diaries.List(ctx, username)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].CreatedAt = entries[i].CreatedAt.UTC()
	}
	return entries, nil
}
