package models

import "time"

// ResponseState tracks how far a question has progressed within a session.
type ResponseState string

const (
	ResponseUnvisited ResponseState = "Unvisited"
	ResponseVisited   ResponseState = "Visited"
	ResponseAnswered  ResponseState = "Answered"
	ResponseSkipped   ResponseState = "Skipped"
)

// SessionStatus is the lifecycle state of a quiz session.
type SessionStatus string

const (
	SessionSetup  SessionStatus = "Setup"
	SessionActive SessionStatus = "Active"
	SessionEnded  SessionStatus = "Ended"
)

// AnswerValue is a candidate answer. At most one field is set, matching the
// question type; the zero value is the skip sentinel.
type AnswerValue struct {
	Choice  *int   `json:"choice,omitempty"`
	Choices []int  `json:"choices,omitempty"`
	Numeric string `json:"numeric,omitempty"`
}

// IsZero reports whether no answer value is carried (skip sentinel).
func (v AnswerValue) IsZero() bool {
	return v.Choice == nil && len(v.Choices) == 0 && v.Numeric == ""
}

// Response is the mutable per-question record of a session. ScoreDelta and
// PenaltyDelta hold the contribution applied when the question was answered,
// so Clear can reverse it exactly rather than recomputing.
type Response struct {
	State            ResponseState `json:"state"`
	Marked           bool          `json:"marked"`
	Value            AnswerValue   `json:"value"`
	IsCorrect        bool          `json:"is_correct"`
	TimeSpentSeconds int           `json:"time_spent_seconds"`
	Comment          string        `json:"comment,omitempty"`

	ScoreDelta   float64 `json:"-"`
	PenaltyDelta float64 `json:"-"`

	ShownAt time.Time `json:"-"`
}
