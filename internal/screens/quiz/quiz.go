package quiz

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/screens/result"
	"github.com/abhisek/brainventure/internal/ui/components"
	"github.com/abhisek/brainventure/internal/ui/layout"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

type submittedMsg struct {
	out *learning.Outcome
	err error
}

// QuizScreen walks the user through the questionnaire one statement at a
// time.
type QuizScreen struct {
	deps       *screen.Deps
	attempt    *assessment.Attempt
	index      int
	likert     components.Likert
	notice     string // retry message after a rejected submit
	errMsg     string // fatal for this screen
	submitting bool
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
)

// New starts a fresh attempt.
func New(deps *screen.Deps) *QuizScreen {
	q := &QuizScreen{deps: deps, likert: components.NewLikert(0)}
	a, err := deps.Service.NewAttempt()
	if err != nil {
		q.errMsg = deps.Fail("start test", err)
		return q
	}
	q.attempt = a
	deps.Log.Debug("test attempt started", "user_id", deps.UserID, "attempt_id", a.ID)
	return q
}

func (q *QuizScreen) Init() tea.Cmd { return nil }

func (q *QuizScreen) Title() string { return "Test neuroleaderski" }

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "1-5", Description: "Odpowiedz"},
		{Key: "←→", Description: "Skala"},
		{Key: "↑↓", Description: "Pytanie"},
		{Key: "S", Description: "Zakończ"},
		{Key: "Esc", Description: "Przerwij"},
	}
}

func (q *QuizScreen) current() assessment.Question {
	return q.attempt.Questions[q.index]
}

func (q *QuizScreen) goTo(i int) {
	q.index = min(max(i, 0), len(q.attempt.Questions)-1)
	value := 0
	if a, ok := q.attempt.Answers.Get(q.current().ID); ok {
		value = a.Value
	}
	q.likert = components.NewLikert(value)
}

func (q *QuizScreen) submit() tea.Cmd {
	q.submitting = true
	deps, a := q.deps, q.attempt
	return func() tea.Msg {
		out, err := deps.Service.SubmitTest(context.Background(), deps.UserID, a)
		return submittedMsg{out: out, err: err}
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		q.submitting = false
		if msg.err != nil {
			if apperr.IsKind(msg.err, apperr.KindValidation) {
				q.notice = q.deps.Fail("submit test", msg.err)
			} else {
				q.errMsg = q.deps.Fail("submit test", msg.err)
			}
			return q, nil
		}
		return q, tea.Batch(
			router.ReplaceCmd(result.New(q.deps, msg.out, q.attempt.Questions)),
			screen.RecordChanged,
		)

	case tea.KeyMsg:
		if q.attempt == nil || q.submitting || q.errMsg != "" {
			return q, nil
		}
		switch msg.String() {
		case "up", "k":
			q.goTo(q.index - 1)
			return q, nil
		case "down", "j", "tab":
			q.goTo(q.index + 1)
			return q, nil
		case "s", "S":
			return q, q.submit()
		}

		var committed bool
		q.likert, committed = q.likert.Update(msg)
		if !committed {
			return q, nil
		}
		if err := q.attempt.Answer(q.current().ID, q.likert.Value); err != nil {
			q.notice = q.deps.Fail("answer question", err)
			return q, nil
		}
		q.notice = ""
		if q.index < len(q.attempt.Questions)-1 {
			q.goTo(q.index + 1)
		}
	}
	return q, nil
}

func (q *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if q.errMsg != "" {
		return components.Frame(theme.ErrorText.Render(q.errMsg), width, height)
	}

	total := len(q.attempt.Questions)
	answered := q.attempt.Answers.Answered()
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	header := dim.Render(fmt.Sprintf("Pytanie %d z %d", q.index+1, total))
	bar := components.NewProgressBar("Odpowiedzi", 100*float64(answered)/float64(total), false, cw-4).View()
	statement := lipgloss.NewStyle().
		Width(cw-8).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(q.current().Text)

	sections := []string{
		header,
		bar,
		components.Card(statement, cw),
		q.likert.View(),
	}

	status := dim.Render(fmt.Sprintf("Odpowiedziano: %d / %d", answered, total))
	if answered == total {
		status = theme.Done.Render("Wszystko gotowe! Naciśnij S, aby poznać swój typ.")
	}
	sections = append(sections, status)
	if q.submitting {
		sections = append(sections, theme.Hint.Render("Liczę wynik..."))
	}
	if q.notice != "" {
		sections = append(sections, theme.ErrorText.Render(q.notice))
	}

	return components.Frame(lipgloss.JoinVertical(lipgloss.Center, interleave(sections)...), width, height)
}

// interleave puts a blank line between sections.
func interleave(sections []string) []string {
	out := make([]string, 0, 2*len(sections))
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, s)
	}
	return out
}
