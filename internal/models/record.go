package models

import "time"

// ResponseRecord is the immutable per-question record assembled when a
// session ends. It is the sole shape handed to the persistence collaborator.
type ResponseRecord struct {
	Question      string       `json:"question"`
	QuestionImage string       `json:"question_image,omitempty"`
	Comprehension string       `json:"comprehension,omitempty"`
	Type          QuestionType `json:"type"`

	Options   []Choice `json:"options,omitempty"`
	RangeLow  *float64 `json:"range_low,omitempty"`
	RangeHigh *float64 `json:"range_high,omitempty"`

	CorrectAnswer string `json:"correct_answer"`
	CorrectIndex  *int   `json:"correct_index,omitempty"`

	Response            string  `json:"response"`
	Correct             bool    `json:"correct"`
	ResponseTimeSeconds int     `json:"response_time_seconds"`
	Comment             string  `json:"comment,omitempty"`
	Weightage           float64 `json:"weightage"`
}

// SubmissionPayload is the request shape exposed to the persistence
// collaborator at the submission boundary.
type SubmissionPayload struct {
	Username      string           `json:"username" validate:"required"`
	Section       string           `json:"section" validate:"required"`
	ExamStartTime time.Time        `json:"exam_start_time"`
	SubmitTime    time.Time        `json:"submit_time"`
	Score         float64          `json:"score"`
	Penalty       float64          `json:"penalty"`
	Responses     []ResponseRecord `json:"responses" validate:"required,min=1"`
}

// StoredResponse is one row of the Responses sheet in the results workbook.
// Field names follow the original sheet columns.
type StoredResponse struct {
	Timestamp     string       `json:"timestamp"`
	Username      string       `json:"username"`
	Section       string       `json:"section"`
	Question      string       `json:"question"`
	QuestionImage string       `json:"questionImage,omitempty"`
	Comprehension string       `json:"comprehension,omitempty"`
	Type          QuestionType `json:"type"`
	Response      string       `json:"response"`
	Comment       string       `json:"comment,omitempty"`
	Correct       bool         `json:"correct"`
	Weightage     float64      `json:"weightage"`
	Score         float64      `json:"score"`
	ResponseTime  int          `json:"responseTime"`
	CorrectAnswer string       `json:"correctAnswer"`
	Options       []Choice     `json:"options,omitempty"`
	SubmitTime    string       `json:"submitTime"`
}

// AttemptSummary is one attempt in the results dashboard listing, keyed by
// (timestamp, username).
type AttemptSummary struct {
	Timestamp string  `json:"timestamp"`
	Username  string  `json:"username"`
	Section   string  `json:"section"`
	Score     float64 `json:"score"`
}

// TimestampLayout is the wall-clock format used in the results workbook,
// kept identical to the original store for compatibility.
const TimestampLayout = "2006-01-02 15:04:05"
