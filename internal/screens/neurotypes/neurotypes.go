package neurotypes

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/ui/components"
	"github.com/abhisek/brainventure/internal/ui/layout"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

type typesLoadedMsg struct {
	types []content.NeuroleaderType
	err   error
}

type cardLoadedMsg struct {
	card *content.NeuroleaderType
	err  error
}

// ListScreen lists the six neuroleader types.
type ListScreen struct {
	deps     *screen.Deps
	types    []content.NeuroleaderType
	selected int
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*ListScreen)(nil)
	_ screen.KeyHintProvider = (*ListScreen)(nil)
)

// New creates a new ListScreen.
func New(deps *screen.Deps) *ListScreen {
	return &ListScreen{deps: deps}
}

func (s *ListScreen) Init() tea.Cmd {
	svc := s.deps.Service
	return func() tea.Msg {
		types, err := svc.Types()
		return typesLoadedMsg{types: types, err: err}
	}
}

func (s *ListScreen) Title() string { return "Typy neuroleaderów" }

func (s *ListScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Wybierz"},
		{Key: "Enter", Description: "Szczegóły"},
		{Key: "Esc", Description: "Wstecz"},
	}
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case typesLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.errMsg = s.deps.Fail("load types", msg.err)
			return s, nil
		}
		s.types = msg.types

	case cardLoadedMsg:
		if msg.err != nil {
			s.errMsg = s.deps.Fail("load type card", msg.err)
			return s, nil
		}
		return s, router.PushCmd(NewDetail(msg.card))

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.PopCmd
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.types)-1 {
				s.selected++
			}
		case "enter":
			if len(s.types) == 0 {
				return s, nil
			}
			svc, id := s.deps.Service, s.types[s.selected].ID
			return s, func() tea.Msg {
				card, err := svc.Type(id)
				return cardLoadedMsg{card: card, err: err}
			}
		}
	}
	return s, nil
}

func (s *ListScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if !s.loaded {
		return components.Frame(theme.Hint.Render("Wczytywanie..."), width, height)
	}
	if s.errMsg != "" {
		return components.Frame(theme.ErrorText.Render(s.errMsg), width, height)
	}

	rows := make([]string, 0, len(s.types))
	for i, t := range s.types {
		name := lipgloss.NewStyle().Foreground(theme.CategoryColor(string(t.ID))).Bold(true).
			Render(t.Icon + " " + t.Name)
		prefix := "  "
		if i == s.selected {
			prefix = theme.Selected.Render("▸ ")
		}
		desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw - 10).
			Render(t.ShortDescription)
		rows = append(rows, prefix+name+"\n    "+strings.ReplaceAll(desc, "\n", "\n    "))
	}
	return components.Frame(components.Card(strings.Join(rows, "\n\n"), cw), width, height)
}
