package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
)

// EligibilityService answers the student portal's visibility questions.
// Everything is keyed on the student's exact (department, class) pair as
// recorded in the directory at read time.
type EligibilityService struct {
	eligRepo    *repository.EligibilityRepository
	dirRepo     *repository.DirectoryRepository
	attemptRepo *repository.AttemptRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewEligibilityService creates a new EligibilityService.
func NewEligibilityService(
	eligRepo *repository.EligibilityRepository,
	dirRepo *repository.DirectoryRepository,
	attemptRepo *repository.AttemptRepository,
	log zerolog.Logger,
) *EligibilityService {
	return &EligibilityService{
		eligRepo:    eligRepo,
		dirRepo:     dirRepo,
		attemptRepo: attemptRepo,
		log:         log.With().Str("component", "eligibility_service").Logger(),
		now:         time.Now,
	}
}

// AttemptableTest is a live test as shown in the student's test list, with
// the student's own quota usage overlaid.
type AttemptableTest struct {
	model.Test
	WindowState  model.WindowState `json:"window_state"`
	AttemptsUsed int               `json:"attempts_used"`
}

// ListCourses retrieves the courses visible to the student's cohort.
func (s *EligibilityService) ListCourses(ctx context.Context, studentID int) ([]model.Course, error) {
	student, err := s.dirRepo.GetStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	courses, err := s.eligRepo.ListEligibleCourses(ctx, student.DepartmentID, student.ClassID)
	if err != nil {
		return nil, fmt.Errorf("list eligible courses: %w", err)
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

// ListTests retrieves the tests the student can start right now. The window
// check and the eligibility check use a single clock reading, so a test
// cannot appear here and then reject the start for being out of window
// unless the window genuinely moved between the two requests.
func (s *EligibilityService) ListTests(ctx context.Context, studentID int) ([]AttemptableTest, error) {
	student, err := s.dirRepo.GetStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	now := s.now()
	tests, err := s.eligRepo.ListAttemptableTests(ctx, student.DepartmentID, student.ClassID, now)
	if err != nil {
		return nil, fmt.Errorf("list attemptable tests: %w", err)
	}

	result := make([]AttemptableTest, 0, len(tests))
	for i := range tests {
		used, err := s.attemptRepo.CountForStudent(ctx, tests[i].ID, studentID)
		if err != nil {
			return nil, fmt.Errorf("count attempts: %w", err)
		}
		result = append(result, AttemptableTest{
			Test:         tests[i],
			WindowState:  tests[i].WindowState(now),
			AttemptsUsed: used,
		})
	}
	return result, nil
}
