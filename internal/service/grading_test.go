package service

import (
	"testing"

	"github.com/google/uuid"

	"github.com/campuscore/placement-backend/internal/model"
)

func makeQuestions(n, marks int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			CorrectOption: "A",
			Marks:         marks,
			OrderNum:      i + 1,
		}
	}
	return questions
}

func TestGradeAttempt(t *testing.T) {
	questions := makeQuestions(5, 10)

	answer := func(i int, opt string) model.AnswerInput {
		return model.AnswerInput{QuestionID: questions[i].ID, SelectedOption: opt}
	}

	tests := []struct {
		name       string
		answers    []model.AnswerInput
		passMark   int
		totalMarks int
		wantScore  int
		wantPct    float64
		wantPass   model.PassStatus
		wantGraded int
	}{
		{
			name: "three of five correct passes",
			answers: []model.AnswerInput{
				answer(0, "A"), answer(1, "A"), answer(2, "A"),
				answer(3, "B"), answer(4, "C"),
			},
			passMark: 20, totalMarks: 50,
			wantScore: 30, wantPct: 60, wantPass: model.PassStatusPass, wantGraded: 5,
		},
		{
			name:     "one correct below pass mark fails",
			answers:  []model.AnswerInput{answer(0, "A"), answer(1, "B")},
			passMark: 20, totalMarks: 50,
			wantScore: 10, wantPct: 20, wantPass: model.PassStatusFail, wantGraded: 2,
		},
		{
			name: "all correct is full marks",
			answers: []model.AnswerInput{
				answer(0, "A"), answer(1, "A"), answer(2, "A"),
				answer(3, "A"), answer(4, "A"),
			},
			passMark: 20, totalMarks: 50,
			wantScore: 50, wantPct: 100, wantPass: model.PassStatusPass, wantGraded: 5,
		},
		{
			name:     "all wrong is zero and fail",
			answers:  []model.AnswerInput{answer(0, "B"), answer(1, "C"), answer(2, "D")},
			passMark: 20, totalMarks: 50,
			wantScore: 0, wantPct: 0, wantPass: model.PassStatusFail, wantGraded: 3,
		},
		{
			name:     "score exactly at pass mark passes",
			answers:  []model.AnswerInput{answer(0, "A"), answer(1, "A")},
			passMark: 20, totalMarks: 50,
			wantScore: 20, wantPct: 40, wantPass: model.PassStatusPass, wantGraded: 2,
		},
		{
			name:     "percentage follows total marks not question sum",
			answers:  []model.AnswerInput{answer(0, "A"), answer(1, "A")},
			passMark: 100, totalMarks: 200,
			wantScore: 20, wantPct: 10, wantPass: model.PassStatusFail, wantGraded: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, pct, pass, graded := GradeAttempt(questions, tt.answers, tt.passMark, tt.totalMarks)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if pct != tt.wantPct {
				t.Errorf("percentage = %v, want %v", pct, tt.wantPct)
			}
			if pass != tt.wantPass {
				t.Errorf("pass = %s, want %s", pass, tt.wantPass)
			}
			if len(graded) != tt.wantGraded {
				t.Errorf("graded answers = %d, want %d", len(graded), tt.wantGraded)
			}
		})
	}
}

func TestGradeAttemptSkipsUnknownQuestions(t *testing.T) {
	questions := makeQuestions(2, 10)

	answers := []model.AnswerInput{
		{QuestionID: questions[0].ID, SelectedOption: "A"},
		{QuestionID: uuid.New(), SelectedOption: "A"}, // not part of the paper
	}

	score, pct, _, graded := GradeAttempt(questions, answers, 10, 20)
	if score != 10 {
		t.Errorf("score = %d, want 10", score)
	}
	if pct != 50 {
		t.Errorf("percentage = %v, want 50", pct)
	}
	if len(graded) != 1 {
		t.Errorf("graded answers = %d, want 1 (unknown question dropped)", len(graded))
	}
}

func TestGradeAttemptFirstAnswerWins(t *testing.T) {
	questions := makeQuestions(1, 10)

	answers := []model.AnswerInput{
		{QuestionID: questions[0].ID, SelectedOption: "B"},
		{QuestionID: questions[0].ID, SelectedOption: "A"}, // duplicate, ignored
	}

	score, _, _, graded := GradeAttempt(questions, answers, 5, 10)
	if score != 0 {
		t.Errorf("score = %d, want 0 (first answer was wrong)", score)
	}
	if len(graded) != 1 {
		t.Errorf("graded answers = %d, want 1", len(graded))
	}
}

func TestGradeAttemptEmptyPaper(t *testing.T) {
	score, pct, pass, graded := GradeAttempt(nil, []model.AnswerInput{
		{QuestionID: uuid.New(), SelectedOption: "A"},
	}, 40, 100)
	if score != 0 || pct != 0 {
		t.Errorf("score/pct = %d/%v, want 0/0", score, pct)
	}
	if pass != model.PassStatusFail {
		t.Errorf("pass = %s, want fail", pass)
	}
	if len(graded) != 0 {
		t.Errorf("graded answers = %d, want 0", len(graded))
	}
}
