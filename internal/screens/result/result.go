package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/screens/neurotypes"
	"github.com/abhisek/brainventure/internal/ui/components"
	"github.com/abhisek/brainventure/internal/ui/layout"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

type cardLoadedMsg struct {
	card *content.NeuroleaderType
	err  error
}

// ResultScreen presents a committed test result.
type ResultScreen struct {
	deps    *screen.Deps
	outcome *learning.Outcome
	maxima  map[assessment.Category]int
	card    *content.NeuroleaderType
	errMsg  string
}

var (
	_ screen.Screen          = (*ResultScreen)(nil)
	_ screen.KeyHintProvider = (*ResultScreen)(nil)
)

// New creates a ResultScreen. questions give the highest reachable score
// per category for the bar chart.
func New(deps *screen.Deps, out *learning.Outcome, questions []assessment.Question) *ResultScreen {
	maxima := make(map[assessment.Category]int)
	for _, q := range questions {
		maxima[q.Category] += assessment.MaxValue
	}
	return &ResultScreen{deps: deps, outcome: out, maxima: maxima}
}

func (s *ResultScreen) Init() tea.Cmd {
	deps, id := s.deps, s.outcome.Result.Dominant
	return func() tea.Msg {
		card, err := deps.Service.Type(id)
		return cardLoadedMsg{card: card, err: err}
	}
}

func (s *ResultScreen) Title() string { return "Wynik testu" }

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "D", Description: "Opis typu"},
		{Key: "Enter", Description: "Dalej"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case cardLoadedMsg:
		if msg.err != nil {
			s.errMsg = s.deps.Fail("load type card", msg.err)
			return s, nil
		}
		s.card = msg.card
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, router.PopCmd
		case "d", "D":
			if s.card != nil {
				return s, router.PushCmd(neurotypes.NewDetail(s.card))
			}
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	res := s.outcome.Result
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var sections []string

	name := res.Dominant.DisplayName()
	if s.card != nil {
		name = s.card.Icon + " " + s.card.Name
	}
	sections = append(sections,
		dim.Render("Twój dominujący typ to"),
		lipgloss.NewStyle().Foreground(theme.CategoryColor(string(res.Dominant))).Bold(true).Render(name),
	)

	if s.card != nil {
		body := strings.Join([]string{
			theme.Body.Render(s.card.ShortDescription),
			"",
			theme.Done.Render("Supermoc: ") + s.card.Superpower,
			theme.ErrorText.Render("Słabość: ") + s.card.Weakness,
		}, "\n")
		sections = append(sections, components.Card(body, cw))
	}
	if s.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(s.errMsg))
	}

	sections = append(sections, s.renderScores(cw-4))

	for _, a := range s.outcome.NewAchievements {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("%s Nowe osiągnięcie: %s", a.Icon, a.Name)))
	}

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (s *ResultScreen) renderScores(width int) string {
	res := s.outcome.Result
	lines := make([]string, 0, len(assessment.AllCategories()))
	for _, c := range assessment.AllCategories() {
		pct := 0.0
		if m := s.maxima[c]; m > 0 {
			pct = 100 * float64(res.Scores[c]) / float64(m)
		}
		label := fmt.Sprintf("%-16s %3d", c.DisplayName(), res.Scores[c])
		lines = append(lines, components.NewProgressBar(label, pct, false, width).View())
	}
	return strings.Join(lines, "\n")
}
