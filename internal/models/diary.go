package models

import "time"

// DiaryEntry is one persisted diary. CreatedAt doubles as the display
// label and the sort key; listings are newest first.
type DiaryEntry struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
}
