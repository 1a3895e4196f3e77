package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai_diary/internal/llm"
	"ai_diary/internal/logger"
	"ai_diary/internal/models"
	"ai_diary/internal/repository"

	"github.com/google/uuid"
)

// WorkflowService owns the diary-creation state machine:
//
//	InputSummary → FirstQuestions → DeepQuestions → DiaryReady
//
// with a bypass edge InputSummary → DiaryReady (compose without
// questions) and a reset edge back to InputSummary from anywhere.
// Composition is valid from both question states; the deep round is
// optional. Illegal intents fail with ErrInvalidTransition and leave the
// session untouched.
type WorkflowService struct {
	store   *sessionStore
	llm     llm.Client
	diaries repository.Diaries
	log     *logger.Logger
}

func NewWorkflowService(store *sessionStore, client llm.Client, diaries repository.Diaries, log *logger.Logger) *WorkflowService {
	return &WorkflowService{store: store, llm: client, diaries: diaries, log: log}
}

var _ Workflow = (*WorkflowService)(nil)

func (w *WorkflowService) CreateSession(username string) models.SessionSnapshot {
	s := w.store.create(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (w *WorkflowService) GetSession(sessionID, username string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

// SetSummary stores the day's free-text summary. Whitespace-only input is
// a blocked transition, not a hard error: the session stays as it was.
func (w *WorkflowService) SetSummary(sessionID, username, summary string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateInputSummary {
		return models.SessionSnapshot{}, ErrInvalidTransition
	}
	if strings.TrimSpace(summary) == "" {
		return models.SessionSnapshot{}, ErrEmptyInput
	}
	s.summary = summary
	s.touch()
	return s.snapshot(), nil
}

// GenerateQuestions asks the model for clarifying questions about the
// summary. On success each question gets an empty answer slot and the
// session moves to FirstQuestions. A service error or a response with no
// usable lines leaves the session exactly as it was.
func (w *WorkflowService) GenerateQuestions(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateInputSummary {
		return models.SessionSnapshot{}, ErrInvalidTransition
	}
	if strings.TrimSpace(s.summary) == "" {
		return models.SessionSnapshot{}, ErrEmptyInput
	}

	round, err := w.askQuestions(ctx, buildQuestionPrompt(s.summary))
	if err != nil {
		return models.SessionSnapshot{}, err
	}

	s.firstRound = round
	s.state = models.StateFirstQuestions
	s.touch()
	return s.snapshot(), nil
}

// SetAnswer records an answer positionally. Empty answers are permitted
// and passed through verbatim. Round 1 is editable while collecting
// either round; round 2 only once it exists.
func (w *WorkflowService) SetAnswer(sessionID, username string, round, index int, answer string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var target []models.QA
	switch {
	case round == 1 && (s.state == models.StateFirstQuestions || s.state == models.StateDeepQuestions):
		target = s.firstRound
	case round == 2 && s.state == models.StateDeepQuestions:
		target = s.secondRound
	default:
		return models.SessionSnapshot{}, ErrInvalidTransition
	}
	if index < 0 || index >= len(target) {
		return models.SessionSnapshot{}, fmt.Errorf("%w: round %d has %d questions", ErrAnswerOutOfRange, round, len(target))
	}

	target[index].Answer = answer
	s.touch()
	return s.snapshot(), nil
}

// GoDeeper feeds the answered first round back to the model to produce a
// second, deeper round of questions.
func (w *WorkflowService) GoDeeper(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateFirstQuestions {
		return models.SessionSnapshot{}, ErrInvalidTransition
	}

	transcript := buildTranscript(s.firstRound)
	round, err := w.askQuestions(ctx, buildDeeperPrompt(s.summary, transcript))
	if err != nil {
		return models.SessionSnapshot{}, err
	}

	s.secondRound = round
	s.state = models.StateDeepQuestions
	s.touch()
	return s.snapshot(), nil
}

// ComposeDiary turns the summary and all answered rounds into a diary
// entry and persists it. First-round pairs come first, in their original
// order. Nothing is stored unless the model call succeeds.
func (w *WorkflowService) ComposeDiary(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateFirstQuestions && s.state != models.StateDeepQuestions {
		return models.SessionSnapshot{}, ErrInvalidTransition
	}

	transcript := buildTranscript(s.firstRound, s.secondRound)
	return w.composeAndSave(ctx, s, transcript)
}

// ComposeDirect is the bypass path: a diary straight from the summary,
// with no questions ever generated.
func (w *WorkflowService) ComposeDirect(ctx context.Context, sessionID, username string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateInputSummary {
		return models.SessionSnapshot{}, ErrInvalidTransition
	}
	if strings.TrimSpace(s.summary) == "" {
		return models.SessionSnapshot{}, ErrEmptyInput
	}
	return w.composeAndSave(ctx, s, "")
}

// EditDiary updates the in-memory text and re-saves by replacing the
// entry persisted at composition time, so a session never leaves two
// copies of the same diary behind.
func (w *WorkflowService) EditDiary(ctx context.Context, sessionID, username, content string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateDiaryReady {
		return models.SessionSnapshot{}, ErrInvalidTransition
	}
	if s.savedEntryID != "" {
		if err := w.diaries.UpdateContent(ctx, s.savedEntryID, content); err != nil {
			if w.log != nil {
				w.log.Errorw("diary_resave_failed", "err", err, "entry_id", s.savedEntryID)
			}
			return models.SessionSnapshot{}, ErrPersistenceFailure
		}
	}
	s.diary = content
	s.touch()
	return s.snapshot(), nil
}

// ExportDiary returns the current in-memory diary text for download.
func (w *WorkflowService) ExportDiary(sessionID, username string) (string, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != models.StateDiaryReady {
		return "", ErrInvalidTransition
	}
	return s.diary, nil
}

// Reset discards summary, questions, answers and the in-memory diary and
// returns to summary entry. The entry persisted at composition time, if
// any, stays in the store.
func (w *WorkflowService) Reset(sessionID, username string) (models.SessionSnapshot, error) {
	s, err := w.store.get(sessionID, username)
	if err != nil {
		return models.SessionSnapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.StateInputSummary
	s.summary = ""
	s.firstRound = nil
	s.secondRound = nil
	s.diary = ""
	s.savedEntryID = ""
	s.savedAt = time.Time{}
	s.touch()
	return s.snapshot(), nil
}

func (w *WorkflowService) Discard(sessionID, username string) error {
	if _, err := w.store.get(sessionID, username); err != nil {
		return err
	}
	w.store.delete(sessionID)
	return nil
}

// askQuestions runs one generation call and normalizes the response into
// answer-ready pairs. Zero usable lines counts as a generation failure.
func (w *WorkflowService) askQuestions(ctx context.Context, prompt llm.Prompt) ([]models.QA, error) {
	raw, err := w.llm.Complete(ctx, prompt)
	if err != nil {
		if w.log != nil {
			w.log.Errorw("question_generation_failed", "err", err)
		}
		return nil, ErrGenerationFailure
	}
	questions := parseQuestions(raw)
	if len(questions) == 0 {
		return nil, ErrGenerationFailure
	}

	round := make([]models.QA, len(questions))
	for i, q := range questions {
		round[i] = models.QA{Question: q}
	}
	return round, nil
}

// composeAndSave must be called with s.mu held. Session state is only
// mutated after both the model call and the append succeed.
func (w *WorkflowService) composeAndSave(ctx context.Context, s *session, transcript string) (models.SessionSnapshot, error) {
	text, err := w.llm.Complete(ctx, buildDiaryPrompt(s.summary, transcript))
	if err != nil {
		if w.log != nil {
			w.log.Errorw("diary_generation_failed", "err", err)
		}
		return models.SessionSnapshot{}, ErrGenerationFailure
	}
	if strings.TrimSpace(text) == "" {
		return models.SessionSnapshot{}, ErrGenerationFailure
	}

	entry := models.DiaryEntry{
		ID:        uuid.NewString(),
		Username:  s.username,
		CreatedAt: time.Now().UTC(),
		Content:   text,
	}
	if err := w.diaries.Append(ctx, entry); err != nil {
		if w.log != nil {
			w.log.Errorw("diary_append_failed", "err", err, "username", s.username)
		}
		return models.SessionSnapshot{}, ErrPersistenceFailure
	}

	s.diary = text
	s.savedEntryID = entry.ID
	s.savedAt = entry.CreatedAt
	s.state = models.StateDiaryReady
	s.touch()
	return s.snapshot(), nil
}
