package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moodflow/backend/internal/middleware"
	"moodflow/backend/internal/service"
)

type StudyHandler struct {
	studyService *service.StudyService
}

type selectMoodRequest struct {
	Mood *string `json:"mood"`
}

type activityRequest struct {
	MusicPlayed *bool `json:"musicPlayed"`
	TimerUsed   *bool `json:"timerUsed"`
}

func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

func (h *StudyHandler) ListMoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"moods": h.studyService.Moods()})
}

func (h *StudyHandler) RandomQuote(c *gin.Context) {
	quote, apiErr := h.studyService.RandomQuote()
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

func (h *StudyHandler) GetSession(c *gin.Context) {
	view, apiErr := h.studyService.SessionState(middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *StudyHandler) SelectMood(c *gin.Context) {
	var req selectMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	change, apiErr := h.studyService.SelectMood(c.Request.Context(), middleware.UserID(c), req.Mood)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, change)
}

func (h *StudyHandler) EndSession(c *gin.Context) {
	change, apiErr := h.studyService.EndSession(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, change)
}

func (h *StudyHandler) UpdateActivity(c *gin.Context) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	view, apiErr := h.studyService.UpdateActivity(middleware.UserID(c), req.MusicPlayed, req.TimerUsed)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *StudyHandler) ListSessions(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		limit = 50
	}

	sessions, apiErr := h.studyService.History(c.Request.Context(), middleware.UserID(c), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *StudyHandler) Notifications(c *gin.Context) {
	notices, apiErr := h.studyService.DrainNotifications(middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notices})
}
