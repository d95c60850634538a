package repositories

import (
	"context"

	"github.com/openexam/quiz-service/internal/models"
)

// Repository aggregates the data stores the service depends on.
type Repository interface {
	Question() QuestionRepository
	Response() ResponseRepository
	ScoreLog() ScoreLogRepository
}

// QuestionRepository reads the question bank, a workbook with one sheet per
// section. Rows missing required type-specific fields are dropped at load
// time, never silently mis-scored.
type QuestionRepository interface {
	Sections(ctx context.Context) ([]models.SectionInfo, error)
	Section(ctx context.Context, name string) (*models.Section, error)
	Reload(ctx context.Context) error
}

// ResponseRepository persists submitted sessions to the results workbook
// and serves the results-dashboard read path.
type ResponseRepository interface {
	Append(ctx context.Context, payload *models.SubmissionPayload) error
	ListAll(ctx context.Context) ([]models.StoredResponse, error)
	Attempts(ctx context.Context) ([]models.AttemptSummary, error)
	AttemptDetails(ctx context.Context, username, timestamp string) ([]models.StoredResponse, error)
	Delete(ctx context.Context, username, timestamp string) (int, error)
}

// ScoreLogRepository appends one score line per finished session to the
// score log file.
type ScoreLogRepository interface {
	Append(ctx context.Context, username string, score, wrong float64) error
}
