package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/services"
	"github.com/openexam/quiz-service/internal/utils"
)

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
}

func NewResultHandler(
	resultService services.ResultService,
	logger utils.Logger,
) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
	}
}

// RecordResponse persists a submission payload produced by an external client
// @Summary Record submission
// @Tags results
// @Accept json
// @Produce json
// @Param submission body models.SubmissionPayload true "Submission payload"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/response [post]
func (h *ResultHandler) RecordResponse(c *gin.Context) {
	h.LogRequest(c, "Recording submission")

	var payload models.SubmissionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.resultService.RecordSubmission(c.Request.Context(), &payload); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Responses recorded successfully", nil)
}

// LogScore appends one line to the score log
// @Summary Log score
// @Tags results
// @Accept json
// @Produce json
// @Param score body services.LogScoreRequest true "Score line"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/score [post]
func (h *ResultHandler) LogScore(c *gin.Context) {
	var req services.LogScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.resultService.LogScore(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Score logged", nil)
}

// GetAllResponses returns every stored response row
// @Summary List all responses
// @Tags results
// @Produce json
// @Success 200 {array} models.StoredResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/all-responses [get]
func (h *ResultHandler) GetAllResponses(c *gin.Context) {
	responses, err := h.resultService.AllResponses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// GetAttempts lists attempts grouped by submit time and username
// @Summary List attempts
// @Tags results
// @Produce json
// @Success 200 {array} models.AttemptSummary
// @Failure 500 {object} ErrorResponse
// @Router /api/attempts [get]
func (h *ResultHandler) GetAttempts(c *gin.Context) {
	attempts, err := h.resultService.Attempts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}

// GetAttemptDetails returns the rows of one attempt
// @Summary Get attempt details
// @Tags results
// @Produce json
// @Param username query string true "Username"
// @Param timestamp query string true "Attempt timestamp"
// @Success 200 {array} models.StoredResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/attemptDetails [get]
func (h *ResultHandler) GetAttemptDetails(c *gin.Context) {
	username := ParseStringQueryParam(c, "username")
	if username == "" {
		return
	}
	timestamp := ParseStringQueryParam(c, "timestamp")
	if timestamp == "" {
		return
	}

	details, err := h.resultService.AttemptDetails(c.Request.Context(), username, timestamp)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// DeleteResponse deletes every row of one attempt
// @Summary Delete attempt
// @Tags results
// @Accept json
// @Produce json
// @Param attempt body services.DeleteAttemptRequest true "Attempt key"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/delete-response [post]
func (h *ResultHandler) DeleteResponse(c *gin.Context) {
	var req services.DeleteAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Deleting attempt", "username", req.Username, "timestamp", req.Timestamp)

	deleted, err := h.resultService.Delete(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Attempt deleted", gin.H{"deleted_rows": deleted})
}
