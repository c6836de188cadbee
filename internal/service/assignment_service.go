package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
)

// Domain Errors
var (
	ErrWindowInverted = errors.New("publish window ends before it starts")
)

// AssignmentService handles cohort assignment business logic. Assignment
// updates are always full set replacements, and the test-level replace is
// the only writer of the publish window.
type AssignmentService struct {
	cohortRepo   *repository.CohortRepository
	courseRepo   *repository.CourseRepository
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	cohortRepo *repository.CohortRepository,
	courseRepo *repository.CourseRepository,
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		cohortRepo:   cohortRepo,
		courseRepo:   courseRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "assignment_service").Logger(),
	}
}

// ReplaceCourseAssignments replaces the full cohort set of a course. An
// empty set is valid and hides the course from every student.
func (s *AssignmentService) ReplaceCourseAssignments(ctx context.Context, courseID uuid.UUID, trainerID int, cohorts []model.CohortPair) ([]model.CohortPair, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.TrainerID != trainerID {
		return nil, ErrNotCourseOwner
	}

	if err := s.cohortRepo.ReplaceCourseAssignments(ctx, courseID, cohorts); err != nil {
		return nil, fmt.Errorf("replace course assignments: %w", err)
	}

	s.log.Info().
		Str("course_id", courseID.String()).
		Int("cohorts", len(cohorts)).
		Msg("Course assignments replaced")

	if cohorts == nil {
		cohorts = []model.CohortPair{}
	}
	return cohorts, nil
}

// ReplaceTestAssignments replaces a test's cohort set and writes its publish
// window and published flag atomically. Requesting published=true with no
// cohorts or no questions is rejected; a live test must always have someone
// who can sit it and something to answer.
func (s *AssignmentService) ReplaceTestAssignments(ctx context.Context, testID uuid.UUID, trainerID int, req *model.SetTestAssignmentsRequest) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	course, err := s.courseRepo.GetByID(ctx, test.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.TrainerID != trainerID {
		return nil, ErrNotCourseOwner
	}

	if !model.WindowBoundsOrdered(req.PublishStart, req.PublishEnd) {
		return nil, ErrWindowInverted
	}

	var questions []model.Question
	if req.Published {
		if len(req.Cohorts) == 0 {
			return nil, ErrNotAssigned
		}
		questions, err = s.questionRepo.ListByTest(ctx, testID)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		if len(questions) == 0 {
			return nil, ErrNoQuestions
		}
	}

	if err := s.cohortRepo.ReplaceTestAssignments(ctx, testID, req.Cohorts, req.PublishStart, req.PublishEnd, req.Published); err != nil {
		return nil, fmt.Errorf("replace test assignments: %w", err)
	}

	test.PublishStart = req.PublishStart
	test.PublishEnd = req.PublishEnd
	test.Published = req.Published

	// Keep the paper cache in step with the published flag.
	if req.Published {
		if err := warmPaperCache(ctx, s.rdb, test, questions); err != nil {
			return nil, err
		}
	} else {
		if err := s.rdb.Del(ctx, config.CacheKey.TestPaperKey(testID.String())).Err(); err != nil {
			s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Failed to drop paper cache")
		}
	}

	s.log.Info().
		Str("test_id", testID.String()).
		Int("cohorts", len(req.Cohorts)).
		Bool("published", req.Published).
		Msg("Test assignments replaced")

	return test, nil
}

// ListCourseAssignments retrieves the cohort pairs of a course.
func (s *AssignmentService) ListCourseAssignments(ctx context.Context, courseID uuid.UUID) ([]model.CohortPair, error) {
	pairs, err := s.cohortRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if pairs == nil {
		pairs = []model.CohortPair{}
	}
	return pairs, nil
}

// ListTestAssignments retrieves the cohort pairs of a test.
func (s *AssignmentService) ListTestAssignments(ctx context.Context, testID uuid.UUID) ([]model.CohortPair, error) {
	pairs, err := s.cohortRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if pairs == nil {
		pairs = []model.CohortPair{}
	}
	return pairs, nil
}
