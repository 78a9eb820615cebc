package achievements

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/progress"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/ui/layout"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

type recordLoadedMsg struct {
	rec *progress.UserRecord
	err error
}

type tab int

const (
	tabEarned tab = iota
	tabLocked
	tabHistory
	tabCount
)

// AchievementsScreen lists earned and locked badges and the test history.
type AchievementsScreen struct {
	deps         *screen.Deps
	rec          *progress.UserRecord
	selectedTab  tab
	scrollOffset int
	loaded       bool
	errMsg       string
}

var (
	_ screen.Screen          = (*AchievementsScreen)(nil)
	_ screen.KeyHintProvider = (*AchievementsScreen)(nil)
)

// New creates a new AchievementsScreen.
func New(deps *screen.Deps) *AchievementsScreen {
	return &AchievementsScreen{deps: deps}
}

func (s *AchievementsScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		rec, err := deps.Service.Record(context.Background(), deps.UserID)
		return recordLoadedMsg{rec: rec, err: err}
	}
}

func (s *AchievementsScreen) Title() string {
	return "Osiągnięcia"
}

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Zakładka"},
		{Key: "↑↓", Description: "Przewiń"},
		{Key: "Esc", Description: "Wstecz"},
	}
}

func (s *AchievementsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordLoadedMsg:
		if msg.err != nil {
			s.errMsg = s.deps.Fail("load achievements", msg.err)
		} else {
			s.rec = msg.rec
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.PopCmd
		case "tab":
			s.selectedTab = (s.selectedTab + 1) % tabCount
			s.scrollOffset = 0
		case "shift+tab":
			s.selectedTab = (s.selectedTab - 1 + tabCount) % tabCount
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.rows())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

// locked returns catalog badges the user has not earned yet.
func (s *AchievementsScreen) locked() []progress.AchievementDef {
	var out []progress.AchievementDef
	for _, def := range progress.Catalog() {
		if s.rec == nil || !s.rec.HasAchievement(def.ID()) {
			out = append(out, def)
		}
	}
	return out
}

func (s *AchievementsScreen) rows() []string {
	if s.rec == nil {
		return nil
	}
	var rows []string
	switch s.selectedTab {
	case tabEarned:
		for _, a := range s.rec.Achievements {
			rows = append(rows,
				lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(a.Icon+" "+a.Name)+
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+a.EarnedAt.String())+
					"\n   "+theme.Body.Render(a.Description))
		}
	case tabLocked:
		for _, def := range s.locked() {
			rows = append(rows,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render("🔒 "+def.Name)+
					"\n   "+theme.Hint.Render(def.Description))
		}
	case tabHistory:
		// Newest first.
		for i := len(s.rec.Progress.TestsTaken) - 1; i >= 0; i-- {
			e := s.rec.Progress.TestsTaken[i]
			rows = append(rows, fmt.Sprintf("%s  %s",
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.Date.String()),
				lipgloss.NewStyle().Foreground(theme.CategoryColor(e.Result)).Bold(true).
					Render(assessment.Category(e.Result).DisplayName())))
		}
	}
	return rows
}

func (s *AchievementsScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	if s.errMsg != "" {
		return center(lipgloss.NewStyle().Foreground(theme.Error), "\n\n"+s.errMsg)
	}
	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Wczytywanie...")
	}

	var b strings.Builder

	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("\nZdobyte odznaki: %d z %d\n", len(s.rec.Achievements), len(progress.Catalog()))))
	b.WriteString("\n")

	labels := [tabCount]string{
		fmt.Sprintf("🏅 Zdobyte (%d)", len(s.rec.Achievements)),
		fmt.Sprintf("🔒 Do zdobycia (%d)", len(s.locked())),
		fmt.Sprintf("📝 Historia testów (%d)", len(s.rec.Progress.TestsTaken)),
	}
	tabs := make([]string, 0, tabCount)
	for i, label := range labels {
		if tab(i) == s.selectedTab {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(layout.Center(strings.Join(tabs, "     "), width))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(layout.Center(divider, width))
	b.WriteString("\n\n")

	rows := s.rows()
	if len(rows) == 0 {
		empty := [tabCount]string{
			"Jeszcze nic tu nie ma. Ukończ lekcję albo zrób test!",
			"Zdobyłeś wszystkie odznaki! 🎉",
			"Nie wykonano jeszcze żadnego testu.",
		}
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true), empty[s.selectedTab]))
		return b.String()
	}

	// Rows are two lines tall except history.
	maxVisible := max((height-10)/2, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(rows))
	for _, row := range rows[start:end] {
		b.WriteString(layout.Center(lipgloss.NewStyle().Width(min(width-8, 60)).Render(row), width))
		b.WriteString("\n")
	}
	if end < len(rows) {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("... jeszcze %d", len(rows)-end)))
	}
	return b.String()
}
