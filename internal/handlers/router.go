package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openexam/quiz-service/internal/services"
	"github.com/openexam/quiz-service/internal/utils"
)

type HandlerManager struct {
	questionHandler *QuestionHandler
	sessionHandler  *SessionHandler
	resultHandler   *ResultHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler: NewQuestionHandler(serviceManager.Question(), logger),
		sessionHandler:  NewSessionHandler(serviceManager.Quiz(), logger),
		resultHandler:   NewResultHandler(serviceManager.Result(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Question bank routes, paths kept compatible with the original
		// frontend.
		api.GET("/questions/sections", hm.questionHandler.GetSections)
		api.GET("/questions", hm.questionHandler.GetQuestions)
		api.POST("/questions/reload", hm.questionHandler.ReloadQuestions)

		// Results routes
		api.POST("/response", hm.resultHandler.RecordResponse)
		api.POST("/score", hm.resultHandler.LogScore)
		api.GET("/all-responses", hm.resultHandler.GetAllResponses)
		api.GET("/attempts", hm.resultHandler.GetAttempts)
		api.GET("/attemptDetails", hm.resultHandler.GetAttemptDetails)
		api.POST("/delete-response", hm.resultHandler.DeleteResponse)

		// Session routes
		sessions := api.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
			sessions.POST("/:id/answer", hm.sessionHandler.Answer)
			sessions.POST("/:id/clear", hm.sessionHandler.Clear)
			sessions.POST("/:id/skip", hm.sessionHandler.Skip)
			sessions.POST("/:id/mark", hm.sessionHandler.Mark)
			sessions.POST("/:id/goto", hm.sessionHandler.GoTo)
			sessions.POST("/:id/next", hm.sessionHandler.Next)
			sessions.POST("/:id/previous", hm.sessionHandler.Previous)
			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})
}
