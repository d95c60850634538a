package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openexam/quiz-service/internal/events"
	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/quiz"
	"github.com/openexam/quiz-service/internal/repositories"
	"github.com/openexam/quiz-service/internal/validator"
)

// ===== REQUEST / RESPONSE SHAPES =====

type StartSessionRequest struct {
	Username        string `json:"username" validate:"required,min=1,max=100"`
	Section         string `json:"section" validate:"required"`
	QuestionCount   int    `json:"question_count" validate:"required,min=1"`
	DurationSeconds int    `json:"duration_seconds" validate:"required,min=30,max=14400"`
}

type AnswerRequest struct {
	Choice  *int   `json:"choice,omitempty"`
	Choices []int  `json:"choices,omitempty"`
	Numeric string `json:"numeric,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type StartSessionResponse struct {
	Session quiz.Snapshot `json:"session"`

	// Truncated reports that fewer questions were available than requested
	// and the full section was used instead.
	Truncated bool `json:"truncated"`
}

// SubmissionResult is what callers see after a session ends. Persisted is
// false when the results store could not be reached; the score stands
// regardless.
type SubmissionResult struct {
	Session   quiz.Snapshot             `json:"session"`
	Payload   *models.SubmissionPayload `json:"payload"`
	NetScore  float64                   `json:"net_score"`
	Persisted bool                      `json:"persisted"`
	Message   string                    `json:"message"`
}

// QuizService owns the live quiz sessions and drives every state-machine
// transition on behalf of the HTTP surface.
type QuizService interface {
	Start(ctx context.Context, req *StartSessionRequest) (*StartSessionResponse, error)
	Get(ctx context.Context, sessionID string) (*quiz.Snapshot, error)
	Answer(ctx context.Context, sessionID string, req *AnswerRequest) (*quiz.Snapshot, error)
	Clear(ctx context.Context, sessionID string) (*quiz.Snapshot, error)
	Skip(ctx context.Context, sessionID string) (*quiz.Snapshot, error)
	Mark(ctx context.Context, sessionID string) (*quiz.Snapshot, error)
	GoTo(ctx context.Context, sessionID string, index int) (*quiz.Snapshot, error)
	Next(ctx context.Context, sessionID string) (*quiz.Snapshot, error)
	Previous(ctx context.Context, sessionID string) (*quiz.Snapshot, error)
	Submit(ctx context.Context, sessionID string) (*SubmissionResult, error)
	Result(ctx context.Context, sessionID string) (*SubmissionResult, error)
	Shutdown()
}

type liveSession struct {
	session   *quiz.Session
	countdown *quiz.Countdown

	finalizeOnce sync.Once
	result       *SubmissionResult
}

type quizService struct {
	questions QuestionService
	repo      repositories.Repository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger

	penaltyRate  float64
	tickInterval time.Duration

	mu       sync.RWMutex
	sessions map[string]*liveSession

	runCtx context.Context
	cancel context.CancelFunc
}

func NewQuizService(
	questions QuestionService,
	repo repositories.Repository,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger *slog.Logger,
	penaltyRate float64,
	tickInterval time.Duration,
) QuizService {
	if tickInterval <= 0 {
		tickInterval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &quizService{
		questions:    questions,
		repo:         repo,
		publisher:    publisher,
		validator:    v,
		logger:       logger,
		penaltyRate:  penaltyRate,
		tickInterval: tickInterval,
		sessions:     make(map[string]*liveSession),
		runCtx:       ctx,
		cancel:       cancel,
	}
}

// ===== SESSION LIFECYCLE =====

func (s *quizService) Start(ctx context.Context, req *StartSessionRequest) (*StartSessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	section, err := s.questions.Section(ctx, req.Section)
	if err != nil {
		return nil, err
	}

	selected, truncated, err := quiz.Select(section.Questions, req.QuestionCount)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	session := quiz.NewSession(sessionID, req.Username, req.Section, quiz.NewScorer(s.penaltyRate))
	if err := session.Start(selected, req.DurationSeconds); err != nil {
		return nil, err
	}

	live := &liveSession{session: session}
	live.countdown = quiz.NewCountdown(session, s.tickInterval, func() {
		s.logger.Info("Session countdown expired, forcing submit", "session_id", sessionID)
		s.finalize(context.Background(), live)
	})

	s.mu.Lock()
	s.sessions[sessionID] = live
	s.mu.Unlock()

	go live.countdown.Run(s.runCtx)

	s.logger.Info("Quiz session started",
		"session_id", sessionID,
		"username", req.Username,
		"section", req.Section,
		"questions", len(selected),
		"duration_seconds", req.DurationSeconds,
		"truncated", truncated)

	return &StartSessionResponse{
		Session:   session.Snapshot(),
		Truncated: truncated,
	}, nil
}

func (s *quizService) Get(ctx context.Context, sessionID string) (*quiz.Snapshot, error) {
	live, err := s.live(sessionID)
	if err != nil {
		return nil, err
	}
	snap := live.session.Snapshot()
	return &snap, nil
}

// ===== TRANSITIONS =====

func (s *quizService) Answer(ctx context.Context, sessionID string, req *AnswerRequest) (*quiz.Snapshot, error) {
	live, err := s.live(sessionID)
	if err != nil {
		return nil, err
	}

	value := models.AnswerValue{
		Choice:  req.Choice,
		Choices: req.Choices,
		Numeric: req.Numeric,
	}

	if err := live.session.Answer(value, req.Comment); err != nil {
		if errors.Is(err, quiz.ErrAlreadyAnswered) {
			// Mandated safe behavior: the second answer is dropped, state
			// and score stand.
			s.logger.Warn("Ignoring repeat answer for answered question",
				"session_id", sessionID)
			snap := live.session.Snapshot()
			return &snap, nil
		}
		return nil, err
	}

	snap := live.session.Snapshot()
	return &snap, nil
}

func (s *quizService) Clear(ctx context.Context, sessionID string) (*quiz.Snapshot, error) {
	return s.transition(sessionID, func(session *quiz.Session) error { return session.Clear() })
}

func (s *quizService) Skip(ctx context.Context, sessionID string) (*quiz.Snapshot, error) {
	return s.transition(sessionID, func(session *quiz.Session) error { return session.Skip() })
}

func (s *quizService) Mark(ctx context.Context, sessionID string) (*quiz.Snapshot, error) {
	return s.transition(sessionID, func(session *quiz.Session) error { return session.Mark() })
}

func (s *quizService) GoTo(ctx context.Context, sessionID string, index int) (*quiz.Snapshot, error) {
	return s.transition(sessionID, func(session *quiz.Session) error { return session.GoTo(index) })
}

func (s *quizService) Next(ctx context.Context, sessionID string) (*quiz.Snapshot, error) {
	return s.transition(sessionID, func(session *quiz.Session) error { return session.Next() })
}

func (s *quizService) Previous(ctx context.Context, sessionID string) (*quiz.Snapshot, error) {
	return s.transition(sessionID, func(session *quiz.Session) error { return session.Previous() })
}

func (s *quizService) transition(sessionID string, op func(*quiz.Session) error) (*quiz.Snapshot, error) {
	live, err := s.live(sessionID)
	if err != nil {
		return nil, err
	}
	if err := op(live.session); err != nil {
		return nil, err
	}
	snap := live.session.Snapshot()
	return &snap, nil
}

// ===== SUBMISSION =====

func (s *quizService) Submit(ctx context.Context, sessionID string) (*SubmissionResult, error) {
	live, err := s.live(sessionID)
	if err != nil {
		return nil, err
	}

	// Stop the countdown before freezing so a timer tick cannot race the
	// explicit submit.
	live.countdown.Stop()

	if err := live.session.Submit(); err != nil {
		// The timer may have ended the session first; the result it
		// produced is the answer either way.
		if !live.session.Ended() {
			return nil, err
		}
	}

	s.finalize(ctx, live)
	if live.result == nil {
		return nil, ErrInternalError
	}
	return live.result, nil
}

// Result returns the submission result of an ended session.
func (s *quizService) Result(ctx context.Context, sessionID string) (*SubmissionResult, error) {
	live, err := s.live(sessionID)
	if err != nil {
		return nil, err
	}
	if !live.session.Ended() {
		return nil, ErrInvalidTransition
	}

	// Once.Do below is a no-op when the countdown already finalized; either
	// way it synchronizes access to the stored result.
	s.finalize(ctx, live)
	if live.result == nil {
		return nil, ErrInternalError
	}
	return live.result, nil
}

// finalize assembles, persists and publishes an ended session exactly once.
// A persistence failure is reported in the result, never by rolling back
// the session.
func (s *quizService) finalize(ctx context.Context, live *liveSession) {
	live.finalizeOnce.Do(func() {
		payload, err := live.session.Assemble()
		if err != nil {
			s.logger.Error("Failed to assemble session", "session_id", live.session.ID(), "error", err)
			return
		}

		result := &SubmissionResult{
			Session:   live.session.Snapshot(),
			Payload:   payload,
			NetScore:  payload.Score - payload.Penalty,
			Persisted: true,
			Message:   "Responses recorded successfully.",
		}

		if err := s.repo.Response().Append(ctx, payload); err != nil {
			s.logger.Error("Submission transport failure; session result retained",
				"session_id", live.session.ID(),
				"error", err)
			result.Persisted = false
			result.Message = ErrSubmissionTransport.Error()
		}

		event := events.NewSubmissionCompleted(payload)
		if err := s.publisher.PublishSubmissionEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish submission event",
				"session_id", live.session.ID(),
				"error", err)
		}

		live.result = result

		s.logger.Info("Quiz session finalized",
			"session_id", live.session.ID(),
			"username", payload.Username,
			"score", payload.Score,
			"penalty", payload.Penalty,
			"persisted", result.Persisted)
	})
}

// Shutdown stops every running countdown.
func (s *quizService) Shutdown() {
	s.cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, live := range s.sessions {
		live.countdown.Stop()
	}
}

func (s *quizService) live(sessionID string) (*liveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return live, nil
}
