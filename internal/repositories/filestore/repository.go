package filestore

import (
	"log/slog"

	"github.com/openexam/quiz-service/internal/repositories"
	"github.com/openexam/quiz-service/internal/validator"
)

// Config holds the file locations of the store.
type Config struct {
	QuestionBankPath string
	ResponsesPath    string
	ScoreLogPath     string
}

type repository struct {
	question *questionRepository
	response *responseRepository
	scoreLog *scoreLogRepository
}

// NewRepository builds the file-backed store: an Excel question bank, an
// Excel responses workbook and a plain-text score log.
func NewRepository(cfg Config, v *validator.Validator, logger *slog.Logger) repositories.Repository {
	return &repository{
		question: newQuestionRepository(cfg.QuestionBankPath, v, logger),
		response: newResponseRepository(cfg.ResponsesPath, logger),
		scoreLog: newScoreLogRepository(cfg.ScoreLogPath),
	}
}

func (r *repository) Question() repositories.QuestionRepository { return r.question }
func (r *repository) Response() repositories.ResponseRepository { return r.response }
func (r *repository) ScoreLog() repositories.ScoreLogRepository { return r.scoreLog }
