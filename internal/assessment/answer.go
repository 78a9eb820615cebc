package assessment

import (
	"fmt"
	"sort"

	"github.com/abhisek/brainventure/internal/apperr"
)

// Likert scale bounds for a single answer.
const (
	MinValue = 1
	MaxValue = 5
)

// Question is one questionnaire item. Category is the scoring category
// (stored as "type" in the content file).
type Question struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category Category `json:"type"`
}

// Answer is a single response. Category is copied from the question when
// the answer is given and never re-derived.
type Answer struct {
	QuestionID string
	Value      int
	Category   Category
}

// AnswerSet holds the responses of one attempt, keyed by question id.
// A nil entry counts as unanswered.
type AnswerSet map[string]*Answer

// NewAnswerSet returns an empty set.
func NewAnswerSet() AnswerSet {
	return make(AnswerSet)
}

// Set records (or overwrites) the answer to q.
func (s AnswerSet) Set(q Question, value int) error {
	if q.ID == "" {
		return apperr.Validation("missing_question_id", "question has no id")
	}
	if value < MinValue || value > MaxValue {
		return apperr.Validation("value_out_of_range",
			fmt.Sprintf("answer must be between %d and %d, got %d", MinValue, MaxValue, value)).
			With("question_id", q.ID)
	}
	s[q.ID] = &Answer{QuestionID: q.ID, Value: value, Category: q.Category}
	return nil
}

// Clear marks q as unanswered.
func (s AnswerSet) Clear(questionID string) {
	delete(s, questionID)
}

// Get returns the answer for a question id, if any.
func (s AnswerSet) Get(questionID string) (Answer, bool) {
	a, ok := s[questionID]
	if !ok || a == nil {
		return Answer{}, false
	}
	return *a, true
}

// Answered counts non-nil answers.
func (s AnswerSet) Answered() int {
	n := 0
	for _, a := range s {
		if a != nil {
			n++
		}
	}
	return n
}

// Answers returns the non-nil answers sorted by question id.
func (s AnswerSet) Answers() []Answer {
	out := make([]Answer, 0, len(s))
	for _, a := range s {
		if a != nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}
