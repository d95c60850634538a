package quiz

import (
	"sync"
	"time"

	"github.com/openexam/quiz-service/internal/models"
)

// Session is one user's timed attempt at a selected subset of a section's
// questions. It owns the question pointer, per-question responses, running
// score/penalty accumulators and the countdown, and is the only writer of
// any of them.
//
// Transitions are serialized by the session's own mutex: one external event
// (user action or timer tick) runs to completion before the next is
// accepted. A transition invoked outside its valid state returns an error
// and mutates nothing.
type Session struct {
	mu sync.Mutex

	id       string
	username string
	section  string

	questions []models.Question
	responses []models.Response
	current   int

	score   float64
	penalty float64

	remaining int
	status    models.SessionStatus

	startedAt time.Time
	endedAt   time.Time

	scorer    Scorer
	assembled bool

	now func() time.Time
}

// Snapshot is a read-only copy of session state handed to callers.
type Snapshot struct {
	ID               string                 `json:"id"`
	Username         string                 `json:"username"`
	Section          string                 `json:"section"`
	Status           models.SessionStatus   `json:"status"`
	CurrentIndex     int                    `json:"current_index"`
	RemainingSeconds int                    `json:"remaining_seconds"`
	Score            float64                `json:"score"`
	Penalty          float64                `json:"penalty"`
	NetScore         float64                `json:"net_score"`
	QuestionCount    int                    `json:"question_count"`
	Questions        []models.Question      `json:"questions"`
	Responses        []models.Response      `json:"responses"`
	StartedAt        time.Time              `json:"started_at"`
	EndedAt          *time.Time             `json:"ended_at,omitempty"`
}

// NewSession creates a session in Setup state. Nothing runs until Start.
func NewSession(id, username, section string, scorer Scorer) *Session {
	return &Session{
		id:       id,
		username: username,
		section:  section,
		status:   models.SessionSetup,
		scorer:   scorer,
		now:      time.Now,
	}
}

// Start initializes responses, the question pointer and the countdown, and
// transitions Setup -> Active. Question 0 becomes Visited with a fresh
// per-question timer.
func (s *Session) Start(questions []models.Question, durationSeconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionSetup {
		return ErrInvalidTransition
	}
	if len(questions) == 0 || durationSeconds <= 0 {
		return ErrInvalidSection
	}

	now := s.now()

	s.questions = questions
	s.responses = make([]models.Response, len(questions))
	for i := range s.responses {
		s.responses[i].State = models.ResponseUnvisited
	}
	s.current = 0
	s.score = 0
	s.penalty = 0
	s.remaining = durationSeconds
	s.startedAt = now
	s.status = models.SessionActive

	s.responses[0].State = models.ResponseVisited
	s.responses[0].ShownAt = now

	return nil
}

// Answer grades the candidate value for the current question and applies
// the signed mark delta. Answering an already-answered question returns
// ErrAlreadyAnswered without touching score or state; callers treat that as
// a no-op rather than a fault.
func (s *Session) Answer(value models.AnswerValue, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}
	if value.IsZero() {
		// The skip sentinel goes through Skip, never Answer.
		return ErrInvalidTransition
	}

	resp := &s.responses[s.current]
	switch resp.State {
	case models.ResponseAnswered:
		return ErrAlreadyAnswered
	case models.ResponseSkipped:
		return ErrInvalidTransition
	}

	verdict := s.scorer.Grade(s.questions[s.current], value)

	resp.Value = value
	resp.IsCorrect = verdict.Correct
	resp.ScoreDelta = verdict.ScoreDelta
	resp.PenaltyDelta = verdict.PenaltyDelta
	resp.TimeSpentSeconds = s.elapsedSeconds(resp)
	resp.Comment = comment
	resp.State = models.ResponseAnswered

	s.score += verdict.ScoreDelta
	s.penalty += verdict.PenaltyDelta

	return nil
}

// Clear reverses the exact deltas applied when the current question was
// answered and resets the response to Unvisited. Score and penalty end up
// precisely as they were before the answer. The Marked flag survives.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}

	resp := &s.responses[s.current]
	if resp.State != models.ResponseAnswered && resp.State != models.ResponseSkipped {
		return ErrInvalidTransition
	}

	s.score -= resp.ScoreDelta
	s.penalty -= resp.PenaltyDelta

	marked := resp.Marked
	*resp = models.Response{
		State:   models.ResponseUnvisited,
		Marked:  marked,
		ShownAt: s.now(),
	}

	return nil
}

// Skip records the skip sentinel for the current question. Skipping never
// contributes to score or penalty.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}

	resp := &s.responses[s.current]
	if resp.State != models.ResponseUnvisited && resp.State != models.ResponseVisited {
		return ErrInvalidTransition
	}

	resp.Value = models.AnswerValue{}
	resp.IsCorrect = false
	resp.ScoreDelta = 0
	resp.PenaltyDelta = 0
	resp.TimeSpentSeconds = s.elapsedSeconds(resp)
	resp.State = models.ResponseSkipped

	return nil
}

// Mark flags the current response for review. The flag is an orthogonal
// annotation: it survives subsequent Answer and Clear calls and never
// touches score state.
func (s *Session) Mark() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}

	s.responses[s.current].Marked = true
	return nil
}

// GoTo moves the question pointer to index. A first visit transitions the
// response to Visited and starts its per-question timer; revisiting an
// answered question resets nothing.
func (s *Session) GoTo(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToLocked(index)
}

// Next advances the pointer, wrapping past the last question to the first.
// Navigation never ends a session; only Submit or timer expiry do.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}
	return s.goToLocked((s.current + 1) % len(s.questions))
}

// Previous moves the pointer back, wrapping before the first question to
// the last.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}
	return s.goToLocked((s.current - 1 + len(s.questions)) % len(s.questions))
}

func (s *Session) goToLocked(index int) error {
	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}
	if index < 0 || index >= len(s.questions) {
		return ErrIndexOutOfRange
	}

	s.current = index

	resp := &s.responses[index]
	if resp.State == models.ResponseUnvisited {
		resp.State = models.ResponseVisited
		resp.ShownAt = s.now()
	}

	return nil
}

// Tick decrements the countdown by one second. Reaching zero forces a
// submit; the returned flag tells the timer driver the session has ended
// and no further ticks may be delivered.
func (s *Session) Tick() (ended bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return true, ErrInvalidTransition
	}

	s.remaining--
	if s.remaining > 0 {
		return false, nil
	}

	s.remaining = 0
	s.submitLocked()
	return true, nil
}

// Submit freezes the session: every response still Unvisited or Visited is
// forced to Skipped with zero delta, the end timestamp is recorded, and the
// session becomes immutable.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.SessionActive {
		return ErrInvalidTransition
	}

	s.submitLocked()
	return nil
}

func (s *Session) submitLocked() {
	for i := range s.responses {
		resp := &s.responses[i]
		if resp.State == models.ResponseUnvisited || resp.State == models.ResponseVisited {
			if resp.State == models.ResponseVisited {
				resp.TimeSpentSeconds = s.elapsedSeconds(resp)
			}
			resp.Value = models.AnswerValue{}
			resp.IsCorrect = false
			resp.ScoreDelta = 0
			resp.PenaltyDelta = 0
			resp.State = models.ResponseSkipped
		}
	}

	s.endedAt = s.now()
	s.status = models.SessionEnded
}

// Ended reports whether the session has reached its terminal state.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == models.SessionEnded
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns a deep copy of the observable session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		Username:         s.username,
		Section:          s.section,
		Status:           s.status,
		CurrentIndex:     s.current,
		RemainingSeconds: s.remaining,
		Score:            s.score,
		Penalty:          s.penalty,
		NetScore:         s.score - s.penalty,
		QuestionCount:    len(s.questions),
		Questions:        make([]models.Question, len(s.questions)),
		Responses:        make([]models.Response, len(s.responses)),
		StartedAt:        s.startedAt,
	}
	copy(snap.Questions, s.questions)
	copy(snap.Responses, s.responses)
	if s.status == models.SessionEnded {
		ended := s.endedAt
		snap.EndedAt = &ended
	}
	return snap
}

func (s *Session) elapsedSeconds(resp *models.Response) int {
	if resp.ShownAt.IsZero() {
		return 0
	}
	elapsed := int(s.now().Sub(resp.ShownAt).Seconds())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
