package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
	"github.com/campuscore/placement-backend/internal/response"
)

// Domain Errors
var (
	ErrNotCourseOwner = errors.New("not the trainer who owns this course")
)

// CourseService handles course business logic.
type CourseService struct {
	courseRepo *repository.CourseRepository
	cohortRepo *repository.CohortRepository
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo *repository.CourseRepository,
	cohortRepo *repository.CohortRepository,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		cohortRepo: cohortRepo,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// CourseDetail is a course together with its assigned cohort pairs.
type CourseDetail struct {
	model.Course
	Cohorts []model.CohortPair `json:"cohorts"`
}

// GetByID retrieves a course with its cohort assignments.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*CourseDetail, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cohorts, err := s.cohortRepo.ListByCourse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list course cohorts: %w", err)
	}
	if cohorts == nil {
		cohorts = []model.CohortPair{}
	}

	return &CourseDetail{Course: *course, Cohorts: cohorts}, nil
}

// ListByTrainer retrieves a trainer's courses with pagination.
// Pass trainerID=0 to list across all trainers.
func (s *CourseService) ListByTrainer(ctx context.Context, trainerID, page, perPage int) ([]model.Course, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	courses, total, err := s.courseRepo.ListByTrainerPaginated(ctx, trainerID, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if courses == nil {
		courses = []model.Course{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return courses, pagination, nil
}

// Create inserts a new course owned by the calling trainer.
func (s *CourseService) Create(ctx context.Context, trainerID int, req *model.CreateCourseRequest) (*model.Course, error) {
	status := model.CourseStatusUpcoming
	if req.Status != "" {
		status = model.CourseStatus(req.Status)
	}

	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   trainerID,
		Status:      status,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().Str("course_id", course.ID.String()).Int("trainer_id", trainerID).Msg("Course created")
	return course, nil
}

// Update modifies a course's metadata. Only the owning trainer may update.
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, trainerID int, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.requireOwned(ctx, id, trainerID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Status != "" {
		course.Status = model.CourseStatus(req.Status)
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

// Delete removes a course and everything under it: tests, questions,
// assignments, attempts and answers. Only the owning trainer may delete.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID, trainerID int) error {
	if _, err := s.requireOwned(ctx, id, trainerID); err != nil {
		return err
	}

	if err := s.courseRepo.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.log.Info().Str("course_id", id.String()).Msg("Course deleted with all dependents")
	return nil
}

// requireOwned loads the course and verifies the caller owns it.
func (s *CourseService) requireOwned(ctx context.Context, id uuid.UUID, trainerID int) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.TrainerID != trainerID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}
