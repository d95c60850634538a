package services

import (
	"log/slog"
	"time"

	"github.com/openexam/quiz-service/internal/cache"
	"github.com/openexam/quiz-service/internal/events"
	"github.com/openexam/quiz-service/internal/repositories"
	"github.com/openexam/quiz-service/internal/validator"
)

// ServiceManager provides access to all services
type ServiceManager interface {
	Question() QuestionService
	Quiz() QuizService
	Result() ResultService
	Shutdown()
}

type serviceManager struct {
	questionService QuestionService
	quizService     QuizService
	resultService   ResultService
}

// ManagerConfig carries the tunables the services need.
type ManagerConfig struct {
	PenaltyRate  float64
	CacheTTL     time.Duration
	TickInterval time.Duration
}

// NewServiceManager wires every service over the shared repository,
// cache, event publisher and validator.
func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
	cfg ManagerConfig,
) ServiceManager {
	questionService := NewQuestionService(repo, cacheService, logger, cfg.CacheTTL)
	quizService := NewQuizService(questionService, repo, publisher, v, logger, cfg.PenaltyRate, cfg.TickInterval)
	resultService := NewResultService(repo, publisher, v, logger)

	return &serviceManager{
		questionService: questionService,
		quizService:     quizService,
		resultService:   resultService,
	}
}

func (sm *serviceManager) Question() QuestionService {
	return sm.questionService
}

func (sm *serviceManager) Quiz() QuizService {
	return sm.quizService
}

func (sm *serviceManager) Result() ResultService {
	return sm.resultService
}

// Shutdown stops the session engine's background work.
func (sm *serviceManager) Shutdown() {
	sm.quizService.Shutdown()
}
