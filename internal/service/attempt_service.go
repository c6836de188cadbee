package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
)

// Domain Errors
var (
	ErrNotAvailable     = errors.New("test is not currently live")
	ErrNotEligible      = errors.New("student cohort is not assigned to this test")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	ErrNotAttemptOwner  = errors.New("attempt belongs to another student")
	ErrResultNotReady   = errors.New("attempt is still in progress")
)

// MonitorEvent is published on the test's monitor channel when an attempt
// starts or is submitted. The live-monitor socket relays it verbatim.
type MonitorEvent struct {
	Event      string    `json:"event"`
	TestID     uuid.UUID `json:"test_id"`
	AttemptID  uuid.UUID `json:"attempt_id"`
	StudentID  int       `json:"student_id"`
	RollNo     string    `json:"roll_no"`
	AttemptNo  int       `json:"attempt_no"`
	Score      *int      `json:"score,omitempty"`
	Percentage *float64  `json:"percentage,omitempty"`
	At         time.Time `json:"at"`
}

// AttemptService handles the attempt lifecycle: quota-checked start, graded
// transactional submit, and result review. It holds the pool directly
// because submission spans multiple repository calls in one transaction.
type AttemptService struct {
	pool        *pgxpool.Pool
	attemptRepo *repository.AttemptRepository
	testRepo    *repository.TestRepository
	questRepo   *repository.QuestionRepository
	cohortRepo  *repository.CohortRepository
	dirRepo     *repository.DirectoryRepository
	rdb         *redis.Client
	log         zerolog.Logger
	now         func() time.Time
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	pool *pgxpool.Pool,
	attemptRepo *repository.AttemptRepository,
	testRepo *repository.TestRepository,
	questRepo *repository.QuestionRepository,
	cohortRepo *repository.CohortRepository,
	dirRepo *repository.DirectoryRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		pool:        pool,
		attemptRepo: attemptRepo,
		testRepo:    testRepo,
		questRepo:   questRepo,
		cohortRepo:  cohortRepo,
		dirRepo:     dirRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
		now:         time.Now,
	}
}

// Start creates the next attempt for a student on a test. The test must be
// Live at the clock reading taken here, and the student's exact
// (department, class) pair must be assigned. The quota is enforced by the
// conditional insert, so two racing starts can never exceed max_attempts.
func (s *AttemptService) Start(ctx context.Context, testID uuid.UUID, studentID int) (*model.StartedAttempt, error) {
	student, err := s.dirRepo.GetStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("resolve student: %w", err)
	}

	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	if test.WindowState(s.now()) != model.WindowLive {
		return nil, ErrNotAvailable
	}

	assigned, err := s.cohortRepo.TestAssignedTo(ctx, testID, student.DepartmentID, student.ClassID)
	if err != nil {
		return nil, fmt.Errorf("check assignment: %w", err)
	}
	if !assigned {
		return nil, ErrNotEligible
	}

	attempt, err := s.attemptRepo.InsertNext(ctx, testID, studentID, test.MaxAttempts)
	if err != nil {
		return nil, err
	}

	paper, err := s.getPaper(ctx, test)
	if err != nil {
		return nil, err
	}

	s.publishMonitorEvent(ctx, &MonitorEvent{
		Event:     "attempt_started",
		TestID:    testID,
		AttemptID: attempt.ID,
		StudentID: studentID,
		RollNo:    student.RollNo,
		AttemptNo: attempt.AttemptNo,
		At:        attempt.StartedAt,
	})

	s.log.Info().
		Str("test_id", testID.String()).
		Int("student_id", studentID).
		Int("attempt_no", attempt.AttemptNo).
		Msg("Attempt started")

	return &model.StartedAttempt{Attempt: *attempt, Paper: *paper}, nil
}

// Submit grades and finalizes an attempt. The attempt row is locked for the
// duration of the transaction, so concurrent submissions of the same attempt
// serialize and the loser sees ErrAlreadySubmitted. Submission is accepted
// even if the publish window closed after the attempt started; the window
// gates starting, not finishing.
func (s *AttemptService) Submit(ctx context.Context, attemptID uuid.UUID, studentID int, req *model.SubmitAttemptRequest) (*model.AttemptResult, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrNotAttemptOwner
	}
	if attempt.Status == model.AttemptStatusSubmitted {
		return nil, ErrAlreadySubmitted
	}

	test, err := s.testRepo.GetByID(ctx, attempt.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	// Questions are immutable while published, so loading them outside the
	// transaction cannot observe a different paper than the student saw.
	questions, err := s.questRepo.ListByTest(ctx, attempt.TestID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	score, percentage, pass, graded := GradeAttempt(questions, req.Answers, test.PassMark, test.TotalMarks)
	submittedAt := s.now()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	locked, err := s.attemptRepo.GetForUpdateTx(ctx, tx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("lock attempt: %w", err)
	}
	if locked.Status == model.AttemptStatusSubmitted {
		return nil, ErrAlreadySubmitted
	}

	for i := range graded {
		graded[i].AttemptID = attemptID
	}
	if err := s.attemptRepo.InsertAnswersTx(ctx, tx, graded); err != nil {
		return nil, fmt.Errorf("insert answers: %w", err)
	}
	if err := s.attemptRepo.FinalizeTx(ctx, tx, attemptID, score, percentage, pass, submittedAt); err != nil {
		return nil, fmt.Errorf("finalize attempt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	attempt.Status = model.AttemptStatusSubmitted
	attempt.Score = &score
	attempt.Percentage = &percentage
	attempt.PassStatus = pass
	attempt.SubmittedAt = &submittedAt

	event := &MonitorEvent{
		Event:      "attempt_submitted",
		TestID:     attempt.TestID,
		AttemptID:  attemptID,
		StudentID:  studentID,
		AttemptNo:  attempt.AttemptNo,
		Score:      &score,
		Percentage: &percentage,
		At:         submittedAt,
	}
	if student, err := s.dirRepo.GetStudent(ctx, studentID); err == nil {
		event.RollNo = student.RollNo
	} else {
		s.log.Warn().Err(err).Int("student_id", studentID).Msg("Monitor event sent without roll number")
	}
	s.publishMonitorEvent(ctx, event)

	answers, err := s.attemptRepo.ListAnswers(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	s.log.Info().
		Str("attempt_id", attemptID.String()).
		Int("score", score).
		Str("pass_status", string(pass)).
		Msg("Attempt submitted")

	return &model.AttemptResult{Attempt: *attempt, Answers: answers}, nil
}

// GetResult retrieves a submitted attempt with its answer review. Only the
// owning student may read it, and only after submission; correct options
// are never revealed for an in-progress attempt.
func (s *AttemptService) GetResult(ctx context.Context, attemptID uuid.UUID, studentID int) (*model.AttemptResult, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrNotAttemptOwner
	}
	if attempt.Status != model.AttemptStatusSubmitted {
		return nil, ErrResultNotReady
	}

	answers, err := s.attemptRepo.ListAnswers(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	if answers == nil {
		answers = []model.AnswerReview{}
	}

	return &model.AttemptResult{Attempt: *attempt, Answers: answers}, nil
}

// ListMine retrieves all attempts of the calling student, newest first.
func (s *AttemptService) ListMine(ctx context.Context, studentID int) ([]model.TestAttempt, error) {
	attempts, err := s.attemptRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []model.TestAttempt{}
	}
	return attempts, nil
}

// ListByTest retrieves the paginated results list of a test for trainers.
func (s *AttemptService) ListByTest(ctx context.Context, testID uuid.UUID, page, perPage int, departmentID *string, classID *int) ([]repository.TestResult, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return s.attemptRepo.ListByTest(ctx, testID, page, perPage, departmentID, classID)
}

// getPaper loads the student-facing paper, cache first. A miss rebuilds the
// paper from PostgreSQL and heals the cache.
func (s *AttemptService) getPaper(ctx context.Context, test *model.Test) (*model.TestPaper, error) {
	key := config.CacheKey.TestPaperKey(test.ID.String())

	val, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		paper := &model.TestPaper{}
		if err := json.Unmarshal([]byte(val), paper); err == nil {
			return paper, nil
		}
		s.log.Warn().Str("test_id", test.ID.String()).Msg("Corrupt paper cache entry, rebuilding")
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get paper cache: %w", err)
	}

	questions, err := s.questRepo.ListByTest(ctx, test.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	if err := warmPaperCache(ctx, s.rdb, test, questions); err != nil {
		s.log.Warn().Err(err).Str("test_id", test.ID.String()).Msg("Failed to heal paper cache")
	}

	return buildPaper(test, questions), nil
}

func (s *AttemptService) publishMonitorEvent(ctx context.Context, event *MonitorEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	channel := config.CacheKey.TestMonitorChannel(event.TestID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("Failed to publish monitor event")
	}
}

// GradeAttempt scores a submission against the question set. Answers for
// unknown question IDs are skipped, and only the first answer per question
// counts. Percentage is computed over the test's total_marks and pass is a
// raw-score comparison against pass_mark, both captured at submission time.
func GradeAttempt(questions []model.Question, answers []model.AnswerInput, passMark, totalMarks int) (int, float64, model.PassStatus, []model.StudentAnswer) {
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	score := 0
	answered := make(map[uuid.UUID]bool, len(answers))
	graded := make([]model.StudentAnswer, 0, len(answers))
	for _, ans := range answers {
		q, ok := byID[ans.QuestionID]
		if !ok || answered[ans.QuestionID] {
			continue
		}
		answered[ans.QuestionID] = true

		correct := ans.SelectedOption == q.CorrectOption
		if correct {
			score += q.Marks
		}
		graded = append(graded, model.StudentAnswer{
			QuestionID:     ans.QuestionID,
			SelectedOption: ans.SelectedOption,
			IsCorrect:      correct,
		})
	}

	var percentage float64
	if totalMarks > 0 {
		percentage = float64(score) * 100 / float64(totalMarks)
	}

	pass := model.PassStatusFail
	if score >= passMark {
		pass = model.PassStatusPass
	}

	return score, percentage, pass, graded
}
