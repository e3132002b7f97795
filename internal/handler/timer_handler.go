package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moodflow/backend/internal/middleware"
	"moodflow/backend/internal/service"
)

const sseKeepAlive = 25 * time.Second

type TimerHandler struct {
	studyService *service.StudyService
}

func NewTimerHandler(studyService *service.StudyService) *TimerHandler {
	return &TimerHandler{studyService: studyService}
}

func (h *TimerHandler) GetState(c *gin.Context) {
	snapshot, apiErr := h.studyService.TimerState(middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": snapshot})
}

func (h *TimerHandler) Toggle(c *gin.Context) {
	snapshot, apiErr := h.studyService.ToggleTimer(middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": snapshot})
}

func (h *TimerHandler) Reset(c *gin.Context) {
	snapshot, apiErr := h.studyService.ResetTimer(middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timer": snapshot})
}

// Events streams timer events as Server-Sent Events. The first event carries
// the current snapshot. The stream ends when the client goes away or the
// timer is remounted.
func (h *TimerHandler) Events(c *gin.Context) {
	snapshot, events, cancel, apiErr := h.studyService.SubscribeTimer(middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("snapshot", snapshot)
	c.Writer.Flush()

	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
}
