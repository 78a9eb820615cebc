package assessment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/brainventure/internal/apperr"
)

// Phase is the lifecycle position of a single test attempt.
type Phase int

const (
	PhaseNotStarted Phase = iota // No answer given yet
	PhaseInProgress              // Answers accumulating, overwritable
	PhaseSubmitted               // Passed to the completeness gate
	PhaseRejected                // Gate failed; answering may continue
	PhaseScored                  // Classified; waiting to be committed
	PhaseCommitted               // Result handed to the progress store
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseSubmitted:
		return "submitted"
	case PhaseRejected:
		return "rejected"
	case PhaseScored:
		return "scored"
	case PhaseCommitted:
		return "committed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// TestResult is the scored outcome of an attempt.
type TestResult struct {
	Dominant   Category
	Scores     map[Category]int
	ComputedAt time.Time
}

// Attempt drives one pass through the questionnaire.
type Attempt struct {
	ID         string
	Questions  []Question
	Answers    AnswerSet
	Phase      Phase
	Completion Completion
	Result     *TestResult
	StartedAt  time.Time

	now func() time.Time
}

// NewAttempt starts a fresh attempt over questions.
func NewAttempt(questions []Question) *Attempt {
	return &Attempt{
		ID:        uuid.New().String(),
		Questions: questions,
		Answers:   NewAnswerSet(),
		Phase:     PhaseNotStarted,
		StartedAt: time.Now(),
		now:       time.Now,
	}
}

func (a *Attempt) transitionErr(action string) error {
	return apperr.Validation("invalid_transition",
		fmt.Sprintf("cannot %s an attempt in phase %s", action, a.Phase)).
		With("attempt_id", a.ID)
}

// Question returns the question with the given id.
func (a *Attempt) Question(id string) (Question, bool) {
	for _, q := range a.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Answer records value for question id. Allowed before scoring; a rejected
// attempt returns to in-progress.
func (a *Attempt) Answer(questionID string, value int) error {
	switch a.Phase {
	case PhaseNotStarted, PhaseInProgress, PhaseRejected:
	default:
		return a.transitionErr("answer")
	}
	q, ok := a.Question(questionID)
	if !ok {
		return apperr.Validation("unknown_question", fmt.Sprintf("unknown question %q", questionID))
	}
	if err := a.Answers.Set(q, value); err != nil {
		return err
	}
	a.Phase = PhaseInProgress
	return nil
}

// Submit runs the completeness gate over the attempt's own question list.
// A failed gate moves the attempt to rejected and returns a validation
// error carrying the user-facing message.
func (a *Attempt) Submit() (Completion, error) {
	switch a.Phase {
	case PhaseNotStarted, PhaseInProgress, PhaseRejected:
	default:
		return Completion{}, a.transitionErr("submit")
	}
	a.Phase = PhaseSubmitted
	c, err := ValidateCompleteness(a.Answers, len(a.Questions))
	if err != nil {
		a.Phase = PhaseRejected
		return Completion{}, err
	}
	a.Completion = c
	if !c.Valid {
		a.Phase = PhaseRejected
		return c, apperr.Validation("incomplete", c.Message).With("percentage", c.Percentage)
	}
	return c, nil
}

// Score classifies a submitted attempt.
func (a *Attempt) Score(tb TieBreaker) (*TestResult, error) {
	if a.Phase != PhaseSubmitted {
		return nil, a.transitionErr("score")
	}
	scores := Scores(a.Answers)
	a.Result = &TestResult{
		Dominant:   classifyScores(scores, tb),
		Scores:     scores,
		ComputedAt: a.now(),
	}
	a.Phase = PhaseScored
	return a.Result, nil
}

// MarkCommitted records that the result was persisted.
func (a *Attempt) MarkCommitted() error {
	if a.Phase != PhaseScored {
		return a.transitionErr("commit")
	}
	a.Phase = PhaseCommitted
	return nil
}
