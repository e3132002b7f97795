package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"moodflow/backend/internal/handler"
	"moodflow/backend/internal/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Study     *handler.StudyHandler
	Timer     *handler.TimerHandler
	Rating    *handler.RatingHandler
	Analytics *handler.AnalyticsHandler
}

func New(
	tokens middleware.TokenParser,
	handlers Handlers,
	corsOrigins []string,
	logger *slog.Logger,
) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestLogger(logger), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", handlers.Auth.Register)
	auth.POST("/login", handlers.Auth.Login)

	api.GET("/moods", handlers.Study.ListMoods)
	api.GET("/quote", handlers.Study.RandomQuote)

	private := api.Group("")
	private.Use(middleware.Auth(tokens))

	private.GET("/session", handlers.Study.GetSession)
	private.PUT("/session/mood", handlers.Study.SelectMood)
	private.POST("/session/end", handlers.Study.EndSession)
	private.POST("/session/activity", handlers.Study.UpdateActivity)
	private.GET("/sessions", handlers.Study.ListSessions)
	private.GET("/notifications", handlers.Study.Notifications)

	private.GET("/timer", handlers.Timer.GetState)
	private.POST("/timer/toggle", handlers.Timer.Toggle)
	private.POST("/timer/reset", handlers.Timer.Reset)
	private.GET("/timer/events", handlers.Timer.Events)

	private.POST("/ratings", handlers.Rating.Submit)

	private.GET("/analytics", handlers.Analytics.Summary)
	private.GET("/analytics/export", handlers.Analytics.Export)

	return engine
}
