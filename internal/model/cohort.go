package model

import (
	"time"

	"github.com/google/uuid"
)

// CohortPair identifies a (department, class) cohort. Matching is always
// exact-pair equality; a department-wide assignment does not exist.
type CohortPair struct {
	DepartmentID string `json:"department_id" binding:"required"`
	ClassID      int    `json:"class_id" binding:"required"`
}

// CourseAssignment binds a course to a cohort, making it visible.
type CourseAssignment struct {
	CourseID     uuid.UUID `json:"course_id"`
	DepartmentID string    `json:"department_id"`
	ClassID      int       `json:"class_id"`
}

// TestAssignment binds a test to a cohort, making it attemptable while Live.
type TestAssignment struct {
	TestID       uuid.UUID `json:"test_id"`
	DepartmentID string    `json:"department_id"`
	ClassID      int       `json:"class_id"`
}

// SetCourseAssignmentsRequest replaces the full cohort set of a course.
// An empty set makes the course invisible to everyone.
type SetCourseAssignmentsRequest struct {
	Cohorts []CohortPair `json:"cohorts" binding:"dive"`
}

// SetTestAssignmentsRequest replaces the full cohort set of a test and
// writes its publish window and published flag in the same operation.
// Assignment and publish scheduling are coupled: a test is never publishable
// without at least one cohort bound to it. Window ordering is checked in the
// service via WindowBoundsOrdered; a tag cannot express the nil-is-open and
// equal-bounds cases.
type SetTestAssignmentsRequest struct {
	Cohorts      []CohortPair `json:"cohorts" binding:"dive"`
	PublishStart *time.Time   `json:"publish_start" binding:"omitempty"`
	PublishEnd   *time.Time   `json:"publish_end" binding:"omitempty"`
	Published    bool         `json:"published"`
}
