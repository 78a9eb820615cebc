package assessment

import (
	"fmt"

	"github.com/abhisek/brainventure/internal/apperr"
)

// CompletionThreshold is the minimum percentage of answered questions for
// a submission to be scored.
const CompletionThreshold = 70.0

// Completion is the outcome of the completeness gate.
type Completion struct {
	Valid      bool
	Percentage float64
	Message    string
}

// ValidateCompleteness checks that enough of totalQuestions were answered.
// totalQuestions below 1 is a caller error.
func ValidateCompleteness(answers AnswerSet, totalQuestions int) (Completion, error) {
	if totalQuestions < 1 {
		return Completion{}, apperr.Validation("invalid_question_count",
			fmt.Sprintf("question count must be at least 1, got %d", totalQuestions))
	}

	answered := answers.Answered()
	// Compare in integers so exactly 70% is never lost to rounding.
	valid := answered*100 >= int(CompletionThreshold)*totalQuestions
	pct := float64(answered) * 100 / float64(totalQuestions)

	if !valid {
		return Completion{
			Valid:      false,
			Percentage: pct,
			Message:    fmt.Sprintf("Please answer at least %.0f%% of the questions. Current: %.0f%%", CompletionThreshold, pct),
		}, nil
	}
	return Completion{Valid: true, Percentage: pct, Message: "Test answers are valid."}, nil
}
