package handlers

import (
	"errors"
	"net/http"

	"ai_diary/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTOs for the workflow endpoints.
type summaryRequest struct {
	Summary string `json:"summary"`
}

type answerRequest struct {
	Round  int    `json:"round" binding:"required"`
	Index  *int   `json:"index" binding:"required"`
	Answer string `json:"answer"`
}

type diaryEditRequest struct {
	Content string `json:"content"`
}

const exportFilename = "my_diary.txt"

// workflowError maps a workflow service error to an HTTP status. Blocked
// transitions and bad input are client errors; the generation service and
// the store failing are not.
func (h *Handler) workflowError(c *gin.Context, logKey string, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, service.ErrGenerationFailure):
		status = http.StatusBadGateway
	case errors.Is(err, service.ErrPersistenceFailure):
		status = http.StatusInternalServerError
	}
	if h.log != nil && status >= http.StatusInternalServerError {
		h.log.Errorw(logKey, "err", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// @Summary      Create a workflow session
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  models.SessionSnapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/sessions [post]
// @Security     BearerAuth
func (h *Handler) createSession(c *gin.Context) {
	snap := h.services.CreateSession(currentUsername(c))
	c.JSON(http.StatusOK, snap)
}

// @Summary      Get the session snapshot
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id} [get]
// @Security     BearerAuth
func (h *Handler) getSession(c *gin.Context) {
	snap, err := h.services.GetSession(c.Param("id"), currentUsername(c))
	if err != nil {
		h.workflowError(c, "session_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Enter the day's summary
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Session ID"
// @Param        body  body  summaryRequest  true  "Summary payload"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/summary [post]
// @Security     BearerAuth
func (h *Handler) setSummary(c *gin.Context) {
	var req summaryRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	snap, err := h.services.SetSummary(c.Param("id"), currentUsername(c), req.Summary)
	if err != nil {
		h.workflowError(c, "session_summary_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Generate clarifying questions
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/questions [post]
// @Security     BearerAuth
func (h *Handler) generateQuestions(c *gin.Context) {
	snap, err := h.services.GenerateQuestions(c.Request.Context(), c.Param("id"), currentUsername(c))
	if err != nil {
		h.workflowError(c, "session_questions_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Record an answer
// @Description  Answers are positional and editable in place; empty answers are allowed.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "Session ID"
// @Param        body  body  answerRequest  true  "Answer payload (round 1 or 2, zero-based index)"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/answers [put]
// @Security     BearerAuth
func (h *Handler) setAnswer(c *gin.Context) {
	var req answerRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	snap, err := h.services.SetAnswer(c.Param("id"), currentUsername(c), req.Round, *req.Index, req.Answer)
	if err != nil {
		h.workflowError(c, "session_answer_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Generate a deeper round of questions
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/deeper [post]
// @Security     BearerAuth
func (h *Handler) goDeeper(c *gin.Context) {
	snap, err := h.services.GoDeeper(c.Request.Context(), c.Param("id"), currentUsername(c))
	if err != nil {
		h.workflowError(c, "session_deeper_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Compose and save the diary from the answered questions
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/diary [post]
// @Security     BearerAuth
func (h *Handler) composeDiary(c *gin.Context) {
	snap, err := h.services.ComposeDiary(c.Request.Context(), c.Param("id"), currentUsername(c))
	if err != nil {
		h.workflowError(c, "session_compose_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Compose and save the diary directly from the summary
// @Description  Bypass path: no questions are ever generated.
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/diary/direct [post]
// @Security     BearerAuth
func (h *Handler) composeDirect(c *gin.Context) {
	snap, err := h.services.ComposeDirect(c.Request.Context(), c.Param("id"), currentUsername(c))
	if err != nil {
		h.workflowError(c, "session_compose_direct_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Edit the composed diary text
// @Description  Re-saves by replacing the entry written at composition time.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "Session ID"
// @Param        body  body  diaryEditRequest  true  "New diary text"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/diary [put]
// @Security     BearerAuth
func (h *Handler) editDiary(c *gin.Context) {
	var req diaryEditRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	snap, err := h.services.EditDiary(c.Request.Context(), c.Param("id"), currentUsername(c), req.Content)
	if err != nil {
		h.workflowError(c, "session_edit_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Download the current diary text
// @Tags         sessions
// @Produce      plain
// @Param        id  path  string  true  "Session ID"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/export [get]
// @Security     BearerAuth
func (h *Handler) exportDiary(c *gin.Context) {
	text, err := h.services.ExportDiary(c.Param("id"), currentUsername(c))
	if err != nil {
		h.workflowError(c, "session_export_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// @Summary      Discard progress and return to summary entry
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  models.SessionSnapshot
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id}/reset [post]
// @Security     BearerAuth
func (h *Handler) resetSession(c *gin.Context) {
	snap, err := h.services.Reset(c.Param("id"), currentUsername(c))
	if err != nil {
		h.workflowError(c, "session_reset_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Discard the session entirely
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/sessions/{id} [delete]
// @Security     BearerAuth
func (h *Handler) discardSession(c *gin.Context) {
	if err := h.services.Discard(c.Param("id"), currentUsername(c)); err != nil {
		h.workflowError(c, "session_discard_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "discarded"})
}
