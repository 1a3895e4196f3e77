package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List past diaries
// @Description  Entries for the authenticated user, newest first.
// @Tags         diaries
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, entries"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/diaries [get]
// @Security     BearerAuth
func (h *Handler) listDiaries(c *gin.Context) {
	username := currentUsername(c)
	entries, err := h.services.List(c.Request.Context(), username)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("diaries_list_failed", "err", err, "username", username)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load diaries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(entries),
		"entries": entries,
	})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
