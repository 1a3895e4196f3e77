package models

import "time"

// WorkflowState is the stage of the guided diary-creation flow for one
// session. Transitions are owned by the workflow service; handlers never
// branch on raw strings.
type WorkflowState string

const (
	StateInputSummary   WorkflowState = "INPUT_SUMMARY"
	StateFirstQuestions WorkflowState = "FIRST_QUESTIONS"
	StateDeepQuestions  WorkflowState = "DEEP_QUESTIONS"
	StateDiaryReady     WorkflowState = "DIARY_READY"
)

// QA pairs a generated question with the user's answer. Answers live next
// to their question rather than in a parallel list, so a round can never
// hold more answers than questions.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SessionSnapshot is the read-only view of a workflow session returned to
// clients and pushed over the websocket.
type SessionSnapshot struct {
	SessionID   string        `json:"session_id"`
	State       WorkflowState `json:"state"`
	Summary     string        `json:"summary,omitempty"`
	FirstRound  []QA          `json:"first_round,omitempty"`
	SecondRound []QA          `json:"second_round,omitempty"`
	Diary       string        `json:"diary,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
