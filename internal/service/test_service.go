package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
)

// Domain Errors
var (
	ErrEditAfterPublish = errors.New("question set is frozen while the test is published")
	ErrNoQuestions      = errors.New("test has no questions, cannot publish")
	ErrNotAssigned      = errors.New("test has no cohort assignments")
	ErrPassAboveTotal   = errors.New("pass mark exceeds total marks")
)

// TestService handles test business logic and paper caching. The paper cache
// holds the student-facing question set (no correct options) and is warmed
// at publish time, so attempt starts never race a cold cache under load.
type TestService struct {
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	courseRepo   *repository.CourseRepository
	cohortRepo   *repository.CohortRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	courseRepo *repository.CourseRepository,
	cohortRepo *repository.CohortRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *TestService {
	return &TestService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		courseRepo:   courseRepo,
		cohortRepo:   cohortRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "test_service").Logger(),
	}
}

// TestDetail is a test with its derived window state and cohort pairs.
type TestDetail struct {
	model.Test
	WindowState model.WindowState  `json:"window_state"`
	Cohorts     []model.CohortPair `json:"cohorts"`
}

// GetByID retrieves a test with its window state computed at now.
func (s *TestService) GetByID(ctx context.Context, id uuid.UUID) (*TestDetail, error) {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cohorts, err := s.cohortRepo.ListByTest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list test cohorts: %w", err)
	}
	if cohorts == nil {
		cohorts = []model.CohortPair{}
	}

	return &TestDetail{
		Test:        *test,
		WindowState: test.WindowState(time.Now()),
		Cohorts:     cohorts,
	}, nil
}

// ListByCourse retrieves the tests under a course with window states.
func (s *TestService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]TestDetail, error) {
	tests, err := s.testRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	details := make([]TestDetail, 0, len(tests))
	for i := range tests {
		details = append(details, TestDetail{
			Test:        tests[i],
			WindowState: tests[i].WindowState(now),
		})
	}
	return details, nil
}

// Create inserts a new test under a course the caller owns. Omitted numeric
// fields take the defaults 100 total marks, 40 pass mark, 1 attempt.
func (s *TestService) Create(ctx context.Context, courseID uuid.UUID, trainerID int, req *model.CreateTestRequest) (*model.Test, error) {
	if err := s.requireCourseOwned(ctx, courseID, trainerID); err != nil {
		return nil, err
	}

	test := &model.Test{
		CourseID:        courseID,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      100,
		PassMark:        40,
		MaxAttempts:     1,
	}
	if req.TotalMarks != nil {
		test.TotalMarks = *req.TotalMarks
	}
	if req.PassMark != nil {
		test.PassMark = *req.PassMark
	}
	if req.MaxAttempts != nil {
		test.MaxAttempts = *req.MaxAttempts
	}
	if test.PassMark > test.TotalMarks {
		return nil, ErrPassAboveTotal
	}

	if err := s.testRepo.Create(ctx, test); err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}

	s.log.Info().Str("test_id", test.ID.String()).Str("course_id", courseID.String()).Msg("Test created")
	return test, nil
}

// Update modifies test metadata. Metadata stays mutable after publish; only
// the question set freezes. Already-submitted attempts keep the score and
// percentage captured at their submission time.
func (s *TestService) Update(ctx context.Context, id uuid.UUID, trainerID int, req *model.UpdateTestRequest) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if err := s.requireCourseOwned(ctx, test.CourseID, trainerID); err != nil {
		return nil, err
	}

	if req.Title != "" {
		test.Title = req.Title
	}
	if req.DurationMinutes != nil {
		test.DurationMinutes = *req.DurationMinutes
	}
	if req.TotalMarks != nil {
		test.TotalMarks = *req.TotalMarks
	}
	if req.PassMark != nil {
		test.PassMark = *req.PassMark
	}
	if req.MaxAttempts != nil {
		test.MaxAttempts = *req.MaxAttempts
	}
	if test.PassMark > test.TotalMarks {
		return nil, ErrPassAboveTotal
	}

	if err := s.testRepo.Update(ctx, test); err != nil {
		return nil, fmt.Errorf("update test: %w", err)
	}

	// The cached paper carries title, duration and total marks; keep it
	// current when the test is live.
	if test.Published {
		questions, err := s.questionRepo.ListByTest(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list questions: %w", err)
		}
		if err := warmPaperCache(ctx, s.rdb, test, questions); err != nil {
			return nil, err
		}
	}
	return test, nil
}

// Publish sets the published flag and warms the paper cache. Publishing
// requires at least one question and at least one cohort assignment.
func (s *TestService) Publish(ctx context.Context, id uuid.UUID, trainerID int) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if err := s.requireCourseOwned(ctx, test.CourseID, trainerID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByTest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	cohortCount, err := s.cohortRepo.CountByTest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count cohorts: %w", err)
	}
	if cohortCount == 0 {
		return nil, ErrNotAssigned
	}

	if err := warmPaperCache(ctx, s.rdb, test, questions); err != nil {
		return nil, err
	}

	if err := s.testRepo.SetPublished(ctx, id, true); err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}
	test.Published = true

	s.log.Info().Str("test_id", id.String()).Msg("Test published, paper cache warmed")
	return test, nil
}

// Unpublish clears the published flag and drops the paper cache. The window
// bounds are left in place so republishing restores the same schedule.
func (s *TestService) Unpublish(ctx context.Context, id uuid.UUID, trainerID int) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if err := s.requireCourseOwned(ctx, test.CourseID, trainerID); err != nil {
		return nil, err
	}

	if err := s.testRepo.SetPublished(ctx, id, false); err != nil {
		return nil, fmt.Errorf("set published: %w", err)
	}
	test.Published = false

	if err := s.rdb.Del(ctx, config.CacheKey.TestPaperKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", id.String()).Msg("Failed to drop paper cache")
	}

	s.log.Info().Str("test_id", id.String()).Msg("Test unpublished")
	return test, nil
}

// Delete removes a test and its dependents, and drops its paper cache in
// case it was published.
func (s *TestService) Delete(ctx context.Context, id uuid.UUID, trainerID int) error {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get test: %w", err)
	}
	if err := s.requireCourseOwned(ctx, test.CourseID, trainerID); err != nil {
		return err
	}

	if err := s.testRepo.DeleteCascade(ctx, id); err != nil {
		return fmt.Errorf("delete test: %w", err)
	}

	if err := s.rdb.Del(ctx, config.CacheKey.TestPaperKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", id.String()).Msg("Failed to drop paper cache")
	}

	s.log.Info().Str("test_id", id.String()).Msg("Test deleted with all dependents")
	return nil
}

// PrewarmPaperCaches rebuilds the paper cache for every published test.
// Called on startup so a Redis flush never leaves live tests uncached.
func (s *TestService) PrewarmPaperCaches(ctx context.Context) error {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published tests: %w", err)
	}

	for i := range tests {
		questions, err := s.questionRepo.ListByTest(ctx, tests[i].ID)
		if err != nil {
			return fmt.Errorf("list questions for %s: %w", tests[i].ID, err)
		}
		if err := warmPaperCache(ctx, s.rdb, &tests[i], questions); err != nil {
			return err
		}
	}

	s.log.Info().Int("count", len(tests)).Msg("Paper caches prewarmed")
	return nil
}

func (s *TestService) requireCourseOwned(ctx context.Context, courseID uuid.UUID, trainerID int) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if course.TrainerID != trainerID {
		return ErrNotCourseOwner
	}
	return nil
}

// warmPaperCache builds the student-facing paper and stores it in Redis with
// no expiry. The paper lives until an explicit unpublish drops it.
func warmPaperCache(ctx context.Context, rdb *redis.Client, test *model.Test, questions []model.Question) error {
	paper := buildPaper(test, questions)

	payload, err := json.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshal paper: %w", err)
	}

	if err := rdb.Set(ctx, config.CacheKey.TestPaperKey(test.ID.String()), payload, 0).Err(); err != nil {
		return fmt.Errorf("cache paper: %w", err)
	}
	return nil
}

func buildPaper(test *model.Test, questions []model.Question) *model.TestPaper {
	paper := &model.TestPaper{
		TestID:          test.ID,
		Title:           test.Title,
		DurationMinutes: test.DurationMinutes,
		TotalMarks:      test.TotalMarks,
		Questions:       make([]model.QuestionForStudent, 0, len(questions)),
	}
	for i := range questions {
		paper.Questions = append(paper.Questions, questions[i].ForStudent())
	}
	return paper
}
