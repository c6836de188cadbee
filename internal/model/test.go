package model

import (
	"time"

	"github.com/google/uuid"
)

// Test represents a timed, scored assessment belonging to a course.
type Test struct {
	ID              uuid.UUID  `json:"id"`
	CourseID        uuid.UUID  `json:"course_id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalMarks      int        `json:"total_marks"`
	PassMark        int        `json:"pass_mark"`
	MaxAttempts     int        `json:"max_attempts"`
	PublishStart    *time.Time `json:"publish_start,omitempty"`
	PublishEnd      *time.Time `json:"publish_end,omitempty"`
	Published       bool       `json:"published"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// WindowState is the derived publish-window state of a test. It is never
// stored; every consumer recomputes it from the same authoritative clock.
type WindowState string

const (
	WindowDraft     WindowState = "DRAFT"
	WindowScheduled WindowState = "SCHEDULED"
	WindowLive      WindowState = "LIVE"
	WindowClosed    WindowState = "CLOSED"
)

// ClassifyWindow computes the publish-window state from the stored flags and
// a caller-supplied clock reading. A nil bound is open on that side: nil
// start means no Scheduled phase, nil end means the window never closes by
// time.
func ClassifyWindow(published bool, start, end *time.Time, now time.Time) WindowState {
	if !published {
		return WindowDraft
	}
	if start != nil && now.Before(*start) {
		return WindowScheduled
	}
	if end != nil && now.After(*end) {
		return WindowClosed
	}
	return WindowLive
}

// WindowState returns the derived publish-window state of the test at now.
func (t *Test) WindowState(now time.Time) WindowState {
	return ClassifyWindow(t.Published, t.PublishStart, t.PublishEnd, now)
}

// WindowBoundsOrdered reports whether a publish window is well-formed: either
// bound may be nil, and equal bounds describe a single-instant Live window.
func WindowBoundsOrdered(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !end.Before(*start)
}

// CreateTestRequest is the payload for creating a new test under a course.
// TotalMarks, PassMark and MaxAttempts default to 100, 40 and 1 when omitted.
type CreateTestRequest struct {
	Title           string `json:"title" binding:"required,min=3,max=255"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=480"`
	TotalMarks      *int   `json:"total_marks" binding:"omitempty,min=1"`
	PassMark        *int   `json:"pass_mark" binding:"omitempty,min=0"`
	MaxAttempts     *int   `json:"max_attempts" binding:"omitempty,min=1"`
}

// UpdateTestRequest is the payload for updating test metadata.
type UpdateTestRequest struct {
	Title           string `json:"title" binding:"omitempty,min=3,max=255"`
	DurationMinutes *int   `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	TotalMarks      *int   `json:"total_marks" binding:"omitempty,min=1"`
	PassMark        *int   `json:"pass_mark" binding:"omitempty,min=0"`
	MaxAttempts     *int   `json:"max_attempts" binding:"omitempty,min=1"`
}

// TestPaper is the Redis-cached payload sent to students (no correct answers).
type TestPaper struct {
	TestID          uuid.UUID            `json:"test_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration_minutes"`
	TotalMarks      int                  `json:"total_marks"`
	Questions       []QuestionForStudent `json:"questions"`
}
