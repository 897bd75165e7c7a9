package gateway

import (
	"errors"
	"fmt"
)

// QuestionPayload is the admin add-question request body. Options use the
// short keys the backend expects.
type QuestionPayload struct {
	QuestionID    string            `json:"question_id"`
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Topic         string            `json:"topic"`
}

// Validate enforces the required-field rules plus the invariant that the
// correct-answer marker references an existing option.
func (p QuestionPayload) Validate() error {
	if p.QuestionID == "" || p.QuestionText == "" {
		return errors.New("question_id and question_text are required")
	}
	if len(p.Options) == 0 {
		return errors.New("at least one option is required")
	}
	if p.CorrectAnswer == "" {
		return errors.New("correct_answer is required")
	}
	if _, ok := p.Options[p.CorrectAnswer]; !ok {
		return fmt.Errorf("correct_answer %q does not reference an option", p.CorrectAnswer)
	}
	return nil
}

// QuizPayload is the admin create-quiz request body.
type QuizPayload struct {
	QuizID      string   `json:"quiz_id"`
	Topic       string   `json:"topic"`
	QuestionIDs []string `json:"question_ids"`
	Duration    int      `json:"duration"`
	TotalMarks  int      `json:"total_marks"`
}

// Validate checks required fields and that duration/marks are positive.
func (p QuizPayload) Validate() error {
	if p.QuizID == "" || p.Topic == "" {
		return errors.New("quiz_id and topic are required")
	}
	if len(p.QuestionIDs) == 0 {
		return errors.New("question_ids must not be empty")
	}
	if p.Duration <= 0 {
		return errors.New("duration must be a positive number of minutes")
	}
	if p.TotalMarks <= 0 {
		return errors.New("total_marks must be positive")
	}
	return nil
}
