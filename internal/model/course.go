package model

import (
	"time"

	"github.com/google/uuid"
)

// CourseStatus enumerates the lifecycle states of a training course.
type CourseStatus string

const (
	CourseStatusUpcoming CourseStatus = "UPCOMING"
	CourseStatusActive   CourseStatus = "ACTIVE"
	CourseStatusClosed   CourseStatus = "CLOSED"
)

// Course represents a placement-training unit owned by a trainer.
type Course struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	TrainerID   int          `json:"trainer_id"`
	Status      CourseStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateCourseRequest is the payload for creating a new course.
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Status      string `json:"status" binding:"omitempty,oneof=UPCOMING ACTIVE CLOSED"`
}

// UpdateCourseRequest is the payload for updating an existing course.
type UpdateCourseRequest struct {
	Name        string `json:"name" binding:"omitempty,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Status      string `json:"status" binding:"omitempty,oneof=UPCOMING ACTIVE CLOSED"`
}
