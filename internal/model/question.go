package model

import (
	"github.com/google/uuid"
)

// Question represents a single four-option multiple choice question.
// Questions are mutable only while the owning test is unpublished.
type Question struct {
	ID            uuid.UUID `json:"id"`
	TestID        uuid.UUID `json:"test_id"`
	QuestionText  string    `json:"question_text"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectOption string    `json:"correct_option"`
	Marks         int       `json:"marks"`
	OrderNum      int       `json:"order_num"`
}

// QuestionForStudent is a question without the correct option, sent to students.
type QuestionForStudent struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
	Marks        int       `json:"marks"`
	OrderNum     int       `json:"order_num"`
}

// ForStudent strips the correct option from a question.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		OptionA:      q.OptionA,
		OptionB:      q.OptionB,
		OptionC:      q.OptionC,
		OptionD:      q.OptionD,
		Marks:        q.Marks,
		OrderNum:     q.OrderNum,
	}
}

// QuestionInput is a single question in a bulk-add payload.
type QuestionInput struct {
	QuestionText  string `json:"question_text" binding:"required,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"required,max=1000"`
	OptionB       string `json:"option_b" binding:"required,max=1000"`
	OptionC       string `json:"option_c" binding:"required,max=1000"`
	OptionD       string `json:"option_d" binding:"required,max=1000"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
	Marks         int    `json:"marks" binding:"required,min=1"`
	OrderNum      int    `json:"order_num" binding:"min=0"`
}

// AddQuestionsRequest is the payload for bulk-adding questions to a test.
type AddQuestionsRequest struct {
	Questions []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// UpdateQuestionRequest is the payload for editing a single question.
type UpdateQuestionRequest struct {
	QuestionText  string `json:"question_text" binding:"required,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"required,max=1000"`
	OptionB       string `json:"option_b" binding:"required,max=1000"`
	OptionC       string `json:"option_c" binding:"required,max=1000"`
	OptionD       string `json:"option_d" binding:"required,max=1000"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
	Marks         int    `json:"marks" binding:"required,min=1"`
	OrderNum      int    `json:"order_num" binding:"min=0"`
}
