package quiz

import (
	"testing"
	"time"

	"github.com/openexam/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a manually advanced clock wired into the session under test.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.current }

func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func threeQuestionSet() []models.Question {
	return []models.Question{
		singleChoiceQuestion(1, 1),
		multiSelectQuestion([]int{0, 2}, 1),
		numericQuestion(5, 10, 1),
	}
}

func newTestSession(t *testing.T, questions []models.Question, duration int) (*Session, *testClock) {
	t.Helper()

	clock := newTestClock()
	s := NewSession("sess-1", "alice", "Physics", NewScorer(DefaultPenaltyRate))
	s.now = clock.Now
	require.NoError(t, s.Start(questions, duration))
	return s, clock
}

func TestStartInitializesSession(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	snap := s.Snapshot()
	assert.Equal(t, models.SessionActive, snap.Status)
	assert.Equal(t, 0, snap.CurrentIndex)
	assert.Equal(t, 300, snap.RemainingSeconds)
	assert.Equal(t, 3, snap.QuestionCount)

	// The first question is visited on start, the rest untouched.
	assert.Equal(t, models.ResponseVisited, snap.Responses[0].State)
	assert.Equal(t, models.ResponseUnvisited, snap.Responses[1].State)
	assert.Equal(t, models.ResponseUnvisited, snap.Responses[2].State)
}

func TestStartRejectsReuse(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)
	assert.ErrorIs(t, s.Start(threeQuestionSet(), 300), ErrInvalidTransition)
}

func TestStartRejectsEmptyInput(t *testing.T) {
	s := NewSession("sess-1", "alice", "Physics", NewScorer(DefaultPenaltyRate))
	assert.ErrorIs(t, s.Start(nil, 300), ErrInvalidSection)

	s = NewSession("sess-2", "alice", "Physics", NewScorer(DefaultPenaltyRate))
	assert.ErrorIs(t, s.Start(threeQuestionSet(), 0), ErrInvalidSection)
}

func TestEndToEndScore(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	// Q1 correct: +1.
	require.NoError(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, ""))
	require.NoError(t, s.Next())

	// Q2 incorrect: penalty 0.33.
	require.NoError(t, s.Answer(models.AnswerValue{Choices: []int{1}}, ""))
	require.NoError(t, s.Next())

	// Q3 skipped: no score effect.
	require.NoError(t, s.Skip())

	require.NoError(t, s.Submit())

	snap := s.Snapshot()
	assert.Equal(t, models.SessionEnded, snap.Status)
	assert.InDelta(t, 1.0, snap.Score, 1e-9)
	assert.InDelta(t, 0.33, snap.Penalty, 1e-9)
	assert.InDelta(t, 0.67, snap.NetScore, 1e-9)
	require.NotNil(t, snap.EndedAt)
}

func TestAnswerRecordsTimeSpent(t *testing.T) {
	s, clock := newTestSession(t, threeQuestionSet(), 300)

	clock.Advance(12 * time.Second)
	require.NoError(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, "sure about this"))

	snap := s.Snapshot()
	assert.Equal(t, 12, snap.Responses[0].TimeSpentSeconds)
	assert.Equal(t, "sure about this", snap.Responses[0].Comment)
	assert.Equal(t, models.ResponseAnswered, snap.Responses[0].State)
	assert.True(t, snap.Responses[0].IsCorrect)
}

func TestReAnswerRejectedWithoutScoreChange(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, ""))
	before := s.Snapshot()

	err := s.Answer(models.AnswerValue{Choice: intPtr(0)}, "")
	assert.ErrorIs(t, err, ErrAlreadyAnswered)

	after := s.Snapshot()
	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, before.Penalty, after.Penalty)
	assert.Equal(t, before.Responses[0].Value, after.Responses[0].Value)
}

func TestAnswerZeroValueRejected(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)
	assert.ErrorIs(t, s.Answer(models.AnswerValue{}, ""), ErrInvalidTransition)
}

func TestAnswerAfterSkipRejected(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Skip())
	assert.ErrorIs(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, ""), ErrInvalidTransition)
}

func TestClearReversesExactDeltas(t *testing.T) {
	cases := []struct {
		name  string
		value models.AnswerValue
	}{
		{"correct single choice", models.AnswerValue{Choice: intPtr(1)}},
		{"incorrect single choice", models.AnswerValue{Choice: intPtr(3)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestSession(t, threeQuestionSet(), 300)

			require.NoError(t, s.Answer(tc.value, ""))
			require.NoError(t, s.Clear())

			snap := s.Snapshot()
			assert.Equal(t, 0.0, snap.Score)
			assert.Equal(t, 0.0, snap.Penalty)
			assert.Equal(t, models.ResponseUnvisited, snap.Responses[0].State)
			assert.True(t, snap.Responses[0].Value.IsZero())
		})
	}
}

func TestClearSkippedQuestion(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Skip())
	require.NoError(t, s.Clear())

	snap := s.Snapshot()
	assert.Equal(t, models.ResponseUnvisited, snap.Responses[0].State)
	assert.Equal(t, 0.0, snap.Score)
}

func TestClearUnansweredRejected(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)
	assert.ErrorIs(t, s.Clear(), ErrInvalidTransition)
}

func TestMarkSurvivesAnswerAndClear(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Mark())
	require.NoError(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, ""))
	require.NoError(t, s.Clear())

	snap := s.Snapshot()
	assert.True(t, snap.Responses[0].Marked)
	assert.Equal(t, models.ResponseUnvisited, snap.Responses[0].State)
}

func TestSkipHasZeroDelta(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Skip())

	snap := s.Snapshot()
	assert.Equal(t, 0.0, snap.Score)
	assert.Equal(t, 0.0, snap.Penalty)
	assert.Equal(t, models.ResponseSkipped, snap.Responses[0].State)
}

func TestNavigationWraps(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	assert.Equal(t, 2, s.Snapshot().CurrentIndex)

	// Past the last question wraps to the first.
	require.NoError(t, s.Next())
	assert.Equal(t, 0, s.Snapshot().CurrentIndex)

	// Before the first wraps to the last.
	require.NoError(t, s.Previous())
	assert.Equal(t, 2, s.Snapshot().CurrentIndex)
}

func TestNavigationMarksVisited(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.GoTo(2))

	snap := s.Snapshot()
	assert.Equal(t, models.ResponseVisited, snap.Responses[2].State)
	assert.Equal(t, models.ResponseUnvisited, snap.Responses[1].State)
}

func TestGoToOutOfRange(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	assert.ErrorIs(t, s.GoTo(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, s.GoTo(3), ErrIndexOutOfRange)
}

func TestRevisitAnsweredQuestionKeepsState(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, ""))
	require.NoError(t, s.Next())
	require.NoError(t, s.GoTo(0))

	snap := s.Snapshot()
	assert.Equal(t, models.ResponseAnswered, snap.Responses[0].State)
	assert.InDelta(t, 1.0, snap.Score, 1e-9)
}

func TestSubmitForcesUnvisitedToSkipped(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	require.NoError(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, ""))
	require.NoError(t, s.Submit())

	snap := s.Snapshot()
	assert.Equal(t, models.ResponseAnswered, snap.Responses[0].State)
	assert.Equal(t, models.ResponseSkipped, snap.Responses[1].State)
	assert.Equal(t, models.ResponseSkipped, snap.Responses[2].State)
}

func TestTransitionsRejectedAfterEnd(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)
	require.NoError(t, s.Submit())

	assert.ErrorIs(t, s.Answer(models.AnswerValue{Choice: intPtr(1)}, ""), ErrInvalidTransition)
	assert.ErrorIs(t, s.Clear(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Skip(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Mark(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Next(), ErrInvalidTransition)
	assert.ErrorIs(t, s.Previous(), ErrInvalidTransition)
	assert.ErrorIs(t, s.GoTo(1), ErrInvalidTransition)
	assert.ErrorIs(t, s.Submit(), ErrInvalidTransition)
}

func TestTickCountsDownAndForcesSubmit(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 2)

	ended, err := s.Tick()
	require.NoError(t, err)
	assert.False(t, ended)
	assert.Equal(t, 1, s.Snapshot().RemainingSeconds)

	ended, err = s.Tick()
	require.NoError(t, err)
	assert.True(t, ended)

	snap := s.Snapshot()
	assert.Equal(t, models.SessionEnded, snap.Status)
	assert.Equal(t, 0, snap.RemainingSeconds)
	for i := range snap.Responses {
		assert.Equal(t, models.ResponseSkipped, snap.Responses[i].State, "question %d", i)
	}
}

func TestTickAfterEndRejected(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 1)

	ended, err := s.Tick()
	require.NoError(t, err)
	require.True(t, ended)

	ended, err = s.Tick()
	assert.True(t, ended)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, _ := newTestSession(t, threeQuestionSet(), 300)

	snap := s.Snapshot()
	snap.Responses[0].State = models.ResponseSkipped
	snap.Questions[0].Prompt = "tampered"

	fresh := s.Snapshot()
	assert.Equal(t, models.ResponseVisited, fresh.Responses[0].State)
	assert.NotEqual(t, "tampered", fresh.Questions[0].Prompt)
}
