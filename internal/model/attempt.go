package model

import (
	"time"

	"github.com/google/uuid"
)

// AttemptStatus enumerates attempt lifecycle states. There is no cancelled
// state; an abandoned IN_PROGRESS attempt still counts against the quota.
type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "IN_PROGRESS"
	AttemptStatusSubmitted  AttemptStatus = "SUBMITTED"
)

// PassStatus enumerates the grading outcome of an attempt.
type PassStatus string

const (
	PassStatusPending PassStatus = "pending"
	PassStatusPass    PassStatus = "pass"
	PassStatusFail    PassStatus = "fail"
)

// TestAttempt represents one attempt slot of a student on a test.
// attempt_no is 1-based and strictly increasing per (test, student).
type TestAttempt struct {
	ID          uuid.UUID     `json:"id"`
	TestID      uuid.UUID     `json:"test_id"`
	StudentID   int           `json:"student_id"`
	AttemptNo   int           `json:"attempt_no"`
	StartedAt   time.Time     `json:"started_at"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	Status      AttemptStatus `json:"status"`
	Score       *int          `json:"score,omitempty"`
	Percentage  *float64      `json:"percentage,omitempty"`
	PassStatus  PassStatus    `json:"pass_status"`
}

// StudentAnswer is one recorded answer of a submitted attempt.
type StudentAnswer struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
	IsCorrect      bool      `json:"is_correct"`
}

// AnswerInput is a single answer in a submission payload.
type AnswerInput struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedOption string    `json:"selected_option" binding:"required,oneof=A B C D"`
}

// SubmitAttemptRequest is the payload for finalizing an attempt.
type SubmitAttemptRequest struct {
	Answers []AnswerInput `json:"answers" binding:"required,min=1,dive"`
}

// StartedAttempt is returned when an attempt is created: the attempt row
// plus the question set without correct options.
type StartedAttempt struct {
	Attempt TestAttempt `json:"attempt"`
	Paper   TestPaper   `json:"paper"`
}

// AttemptResult is a finalized attempt with its per-question answer review.
type AttemptResult struct {
	Attempt TestAttempt    `json:"attempt"`
	Answers []AnswerReview `json:"answers"`
}

// AnswerReview reveals the correct option for a submitted answer. It is only
// ever built for SUBMITTED attempts.
type AnswerReview struct {
	QuestionID     uuid.UUID `json:"question_id"`
	QuestionText   string    `json:"question_text"`
	SelectedOption string    `json:"selected_option"`
	CorrectOption  string    `json:"correct_option"`
	IsCorrect      bool      `json:"is_correct"`
	Marks          int       `json:"marks"`
}
