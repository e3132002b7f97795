package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moodflow/backend/internal/middleware"
	"moodflow/backend/internal/service"
)

type RatingHandler struct {
	ratingService *service.RatingService
}

type ratingRequest struct {
	SessionID    string `json:"sessionId"`
	MoodType     string `json:"moodType"`
	Rating       int    `json:"rating"`
	MatchedNeed  *bool  `json:"matchedNeed"`
	HelpedFocus  *bool  `json:"helpedFocus"`
	FeedbackText string `json:"feedbackText"`
}

func NewRatingHandler(ratingService *service.RatingService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

func (h *RatingHandler) Submit(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	rating, apiErr := h.ratingService.Submit(c.Request.Context(), middleware.UserID(c), service.RatingInput{
		SessionID:    req.SessionID,
		MoodType:     req.MoodType,
		Rating:       req.Rating,
		MatchedNeed:  req.MatchedNeed,
		HelpedFocus:  req.HelpedFocus,
		FeedbackText: req.FeedbackText,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rating": rating})
}
