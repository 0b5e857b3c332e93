package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coinbuddy/internal/services"
)

// ProgressHandler serves the savings XP progress summary.
type ProgressHandler struct {
	progressService services.ProgressServicer
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(progressService services.ProgressServicer) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetProgress returns the authenticated user's level, XP and goal bonuses.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.progressService.GetProgress(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": summary})
}
