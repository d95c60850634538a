package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openexam/quiz-service/internal/events"
	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/repositories"
	"github.com/openexam/quiz-service/internal/validator"
)

// ===== REQUEST SHAPES =====

type LogScoreRequest struct {
	Username string  `json:"username" validate:"required"`
	Score    float64 `json:"score"`
	Wrong    float64 `json:"wrong"`
}

type DeleteAttemptRequest struct {
	Username  string `json:"username" validate:"required"`
	Timestamp string `json:"timestamp" validate:"required"`
}

// ResultService serves the results dashboard over the responses workbook
// and handles externally produced submissions and score lines.
type ResultService interface {
	AllResponses(ctx context.Context) ([]models.StoredResponse, error)
	Attempts(ctx context.Context) ([]models.AttemptSummary, error)
	AttemptDetails(ctx context.Context, username, timestamp string) ([]models.StoredResponse, error)
	Delete(ctx context.Context, req *DeleteAttemptRequest) (int, error)
	RecordSubmission(ctx context.Context, payload *models.SubmissionPayload) error
	LogScore(ctx context.Context, req *LogScoreRequest) error
}

type resultService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
}

func NewResultService(repo repositories.Repository, publisher events.EventPublisher, v *validator.Validator, logger *slog.Logger) ResultService {
	return &resultService{
		repo:      repo,
		publisher: publisher,
		validator: v,
		logger:    logger,
	}
}

func (s *resultService) AllResponses(ctx context.Context) ([]models.StoredResponse, error) {
	responses, err := s.repo.Response().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}
	return responses, nil
}

func (s *resultService) Attempts(ctx context.Context) ([]models.AttemptSummary, error) {
	attempts, err := s.repo.Response().Attempts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *resultService) AttemptDetails(ctx context.Context, username, timestamp string) ([]models.StoredResponse, error) {
	if username == "" || timestamp == "" {
		return nil, ErrValidationFailed
	}

	details, err := s.repo.Response().AttemptDetails(ctx, username, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to read attempt details: %w", err)
	}
	if len(details) == 0 {
		return nil, ErrAttemptNotFound
	}
	return details, nil
}

func (s *resultService) Delete(ctx context.Context, req *DeleteAttemptRequest) (int, error) {
	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}

	deleted, err := s.repo.Response().Delete(ctx, req.Username, req.Timestamp)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attempt: %w", err)
	}
	if deleted == 0 {
		return 0, ErrAttemptNotFound
	}

	s.logger.Info("Attempt deleted",
		"username", req.Username,
		"timestamp", req.Timestamp,
		"rows", deleted)

	return deleted, nil
}

// RecordSubmission persists a submission produced outside the session
// engine, then publishes the completion event for downstream consumers.
func (s *resultService) RecordSubmission(ctx context.Context, payload *models.SubmissionPayload) error {
	if err := s.validator.Validate(payload); err != nil {
		return err
	}

	if err := s.repo.Response().Append(ctx, payload); err != nil {
		s.logger.Error("Failed to persist submission",
			"username", payload.Username,
			"error", err)
		return ErrSubmissionTransport
	}

	event := events.NewSubmissionCompleted(payload)
	if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish submission event",
			"username", payload.Username,
			"error", err)
	}

	return nil
}

// LogScore appends a score line directly, for clients that report their
// score without going through the submission path.
func (s *resultService) LogScore(ctx context.Context, req *LogScoreRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	if err := s.repo.ScoreLog().Append(ctx, req.Username, req.Score, req.Wrong); err != nil {
		return fmt.Errorf("failed to append score line: %w", err)
	}
	return nil
}
