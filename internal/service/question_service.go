package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/model"
	"github.com/campuscore/placement-backend/internal/repository"
)

// QuestionService handles question authoring. Every mutation goes through
// the same editability gate: the owning test must be unpublished.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	testRepo     *repository.TestRepository
	courseRepo   *repository.CourseRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	testRepo *repository.TestRepository,
	courseRepo *repository.CourseRepository,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		testRepo:     testRepo,
		courseRepo:   courseRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// ListByTest retrieves a test's questions with correct options, for the
// owning trainer's authoring view.
func (s *QuestionService) ListByTest(ctx context.Context, testID uuid.UUID, trainerID int) ([]model.Question, error) {
	if _, err := s.requireTestOwned(ctx, testID, trainerID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// AddBatch bulk-inserts questions into an unpublished test. Inputs without
// an explicit order are appended after the current highest order_num in
// payload order.
func (s *QuestionService) AddBatch(ctx context.Context, testID uuid.UUID, trainerID int, inputs []model.QuestionInput) ([]model.Question, error) {
	if err := s.requireTestEditable(ctx, testID, trainerID); err != nil {
		return nil, err
	}

	existing, err := s.questionRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	nextOrder := 1
	for i := range existing {
		if existing[i].OrderNum >= nextOrder {
			nextOrder = existing[i].OrderNum + 1
		}
	}

	questions := make([]model.Question, len(inputs))
	for i, in := range inputs {
		order := in.OrderNum
		if order == 0 {
			order = nextOrder
			nextOrder++
		}
		questions[i] = model.Question{
			QuestionText:  in.QuestionText,
			OptionA:       in.OptionA,
			OptionB:       in.OptionB,
			OptionC:       in.OptionC,
			OptionD:       in.OptionD,
			CorrectOption: in.CorrectOption,
			Marks:         in.Marks,
			OrderNum:      order,
		}
	}

	if err := s.questionRepo.BulkInsert(ctx, testID, questions); err != nil {
		return nil, fmt.Errorf("bulk insert questions: %w", err)
	}

	s.log.Info().Str("test_id", testID.String()).Int("count", len(questions)).Msg("Questions added")
	return questions, nil
}

// Update modifies a question of an unpublished test.
func (s *QuestionService) Update(ctx context.Context, questionID uuid.UUID, trainerID int, req *model.UpdateQuestionRequest) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if err := s.requireTestEditable(ctx, question.TestID, trainerID); err != nil {
		return nil, err
	}

	question.QuestionText = req.QuestionText
	question.OptionA = req.OptionA
	question.OptionB = req.OptionB
	question.OptionC = req.OptionC
	question.OptionD = req.OptionD
	question.CorrectOption = req.CorrectOption
	question.Marks = req.Marks
	if req.OrderNum > 0 {
		question.OrderNum = req.OrderNum
	}

	if err := s.questionRepo.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return question, nil
}

// Delete removes a question from an unpublished test.
func (s *QuestionService) Delete(ctx context.Context, questionID uuid.UUID, trainerID int) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("get question: %w", err)
	}
	if err := s.requireTestEditable(ctx, question.TestID, trainerID); err != nil {
		return err
	}

	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return nil
}

// requireTestOwned loads the test and verifies the caller owns its course.
func (s *QuestionService) requireTestOwned(ctx context.Context, testID uuid.UUID, trainerID int) (*model.Test, error) {
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
	return test, nil
}

func (s *QuestionService) requireTestEditable(ctx context.Context, testID uuid.UUID, trainerID int) error {
	test, err := s.requireTestOwned(ctx, testID, trainerID)
	if err != nil {
		return err
	}
	if test.Published {
		return ErrEditAfterPublish
	}
	return nil
}
