package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/openexam/quiz-service/internal/quiz"
	"github.com/openexam/quiz-service/internal/services"
	"github.com/openexam/quiz-service/internal/utils"
)

type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
	}
}

// GetSections lists section names with their question counts
// @Summary List sections
// @Tags questions
// @Produce json
// @Success 200 {array} models.SectionInfo
// @Failure 500 {object} ErrorResponse
// @Router /api/questions/sections [get]
func (h *QuestionHandler) GetSections(c *gin.Context) {
	sections, err := h.questionService.Sections(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sections)
}

// GetQuestions returns a section's questions without answer keys. An
// optional count parameter draws a random subset.
// @Summary Get section questions
// @Tags questions
// @Produce json
// @Param section query string true "Section name"
// @Param count query int false "Number of questions to draw"
// @Success 200 {array} QuestionView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/questions [get]
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	sectionName := ParseStringQueryParam(c, "section")
	if sectionName == "" {
		return
	}

	section, err := h.questionService.Section(c.Request.Context(), sectionName)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	questions := section.Questions
	if countStr := c.Query("count"); countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid count",
				Details: "count must be a positive integer",
			})
			return
		}

		selected, _, err := quiz.Select(questions, count)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		questions = selected
	}

	c.JSON(http.StatusOK, newQuestionViews(questions))
}

// ReloadQuestions rereads the question bank workbook
// @Summary Reload question bank
// @Tags questions
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/questions/reload [post]
func (h *QuestionHandler) ReloadQuestions(c *gin.Context) {
	h.LogRequest(c, "Reloading question bank")

	if err := h.questionService.Reload(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question bank reloaded", nil)
}
