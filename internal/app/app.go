package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/screens/home"
	"github.com/abhisek/brainventure/internal/screens/quiz"
	"github.com/abhisek/brainventure/internal/screens/welcome"
	"github.com/abhisek/brainventure/internal/ui/layout"
)

// Options configures the interactive program.
type Options struct {
	Deps *screen.Deps
	// SkipWelcome starts directly on the home screen.
	SkipWelcome bool
	// StartTest opens the questionnaire over the home screen.
	StartTest bool
}

type statsLoadedMsg struct {
	stats layout.HeaderStats
	err   error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router    *router.Router
	deps      *screen.Deps
	startTest bool
	stats  layout.HeaderStats
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the welcome splash.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen { return home.New(opts.Deps) }
	var initial screen.Screen
	if opts.SkipWelcome || opts.StartTest {
		initial = homeFactory()
	} else {
		initial = welcome.New(homeFactory)
	}
	return AppModel{
		router:    router.New(initial),
		deps:      opts.Deps,
		startTest: opts.StartTest,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init(), m.loadStats()}
	if m.startTest {
		cmds = append(cmds, router.PushCmd(quiz.New(m.deps)))
	}
	return tea.Batch(cmds...)
}

func (m AppModel) loadStats() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		rec, err := deps.Service.Record(context.Background(), deps.UserID)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		stats := layout.HeaderStats{Achievements: len(rec.Achievements)}
		if typ := assessment.Category(rec.NeuroleaderType()); typ.Valid() {
			stats.TypeLabel = typ.DisplayName()
		}
		return statsLoadedMsg{stats: stats}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statsLoadedMsg:
		if msg.err != nil {
			m.deps.Fail("load header stats", msg.err)
			return m, nil
		}
		m.stats = msg.stats
		return m, nil

	case screen.RecordChangedMsg:
		return m, m.loadStats()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscCapturer); ok && c.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.PopCmd
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the whole frame for the current terminal size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.stats, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Wstecz"},
			{Key: "Ctrl+C", Description: "Wyjście"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Nawigacja"},
			{Key: "Enter", Description: "Wybierz"},
			{Key: "Ctrl+C", Description: "Wyjście"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
