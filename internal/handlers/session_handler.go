package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/quiz"
	"github.com/openexam/quiz-service/internal/services"
	"github.com/openexam/quiz-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewSessionHandler(
	quizService services.QuizService,
	logger utils.Logger,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// StartSessionView is the wire shape of a freshly started session.
type StartSessionView struct {
	Session   SessionView `json:"session"`
	Truncated bool        `json:"truncated"`
}

// SubmissionResultView is the wire shape of a finished session's result.
type SubmissionResultView struct {
	Session   SessionView               `json:"session"`
	Payload   *models.SubmissionPayload `json:"payload"`
	NetScore  float64                   `json:"net_score"`
	Persisted bool                      `json:"persisted"`
	Message   string                    `json:"message"`
}

func newSubmissionResultView(result *services.SubmissionResult) SubmissionResultView {
	return SubmissionResultView{
		Session:   newSessionView(&result.Session),
		Payload:   result.Payload,
		NetScore:  result.NetScore,
		Persisted: result.Persisted,
		Message:   result.Message,
	}
}

type goToRequest struct {
	Index int `json:"index"`
}

// StartSession starts a timed session over a random draw from a section
// @Summary Start session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.StartSessionRequest true "Session parameters"
// @Success 201 {object} StartSessionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	h.LogRequest(c, "Starting quiz session")

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.quizService.Start(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StartSessionView{
		Session:   newSessionView(&resp.Session),
		Truncated: resp.Truncated,
	})
}

// GetSession returns the current snapshot of a session
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 404 {object} ErrorResponse
// @Router /api/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := h.quizService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionView(snap))
}

// Answer grades an answer for the session's current question
// @Summary Answer current question
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body services.AnswerRequest true "Answer value"
// @Success 200 {object} SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/answer [post]
func (h *SessionHandler) Answer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.quizService.Answer(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionView(snap))
}

// Clear resets the current question's answer and reverses its score effect
// @Summary Clear current answer
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/clear [post]
func (h *SessionHandler) Clear(c *gin.Context) {
	h.transition(c, h.quizService.Clear)
}

// Skip records a skip for the current question
// @Summary Skip current question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/skip [post]
func (h *SessionHandler) Skip(c *gin.Context) {
	h.transition(c, h.quizService.Skip)
}

// Mark flags the current question for review
// @Summary Mark current question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/mark [post]
func (h *SessionHandler) Mark(c *gin.Context) {
	h.transition(c, h.quizService.Mark)
}

// GoTo moves the question pointer to the given index
// @Summary Jump to question
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param target body goToRequest true "Question index"
// @Success 200 {object} SessionView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/goto [post]
func (h *SessionHandler) GoTo(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req goToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	snap, err := h.quizService.GoTo(c.Request.Context(), id, req.Index)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionView(snap))
}

// Next advances the question pointer, wrapping at the end
// @Summary Next question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/next [post]
func (h *SessionHandler) Next(c *gin.Context) {
	h.transition(c, h.quizService.Next)
}

// Previous moves the question pointer back, wrapping at the start
// @Summary Previous question
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/previous [post]
func (h *SessionHandler) Previous(c *gin.Context) {
	h.transition(c, h.quizService.Previous)
}

// Submit ends the session, persists the results and returns the outcome
// @Summary Submit session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SubmissionResultView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Submitting quiz session", "session_id", id)

	result, err := h.quizService.Submit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSubmissionResultView(result))
}

// GetResult returns the stored result of an ended session
// @Summary Get session result
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SubmissionResultView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	result, err := h.quizService.Result(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSubmissionResultView(result))
}

func (h *SessionHandler) transition(c *gin.Context, op func(ctx context.Context, sessionID string) (*quiz.Snapshot, error)) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	snap, err := op(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionView(snap))
}
