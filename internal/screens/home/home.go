package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/screens/achievements"
	"github.com/abhisek/brainventure/internal/screens/course"
	"github.com/abhisek/brainventure/internal/screens/neurotypes"
	"github.com/abhisek/brainventure/internal/screens/profile"
	"github.com/abhisek/brainventure/internal/screens/quiz"
	"github.com/abhisek/brainventure/internal/screens/resources"
	"github.com/abhisek/brainventure/internal/ui/components"
)

type dashboardLoadedMsg struct {
	dash *learning.Dashboard
	err  error
}

// HomeScreen is the dashboard and main menu.
type HomeScreen struct {
	deps   *screen.Deps
	menu   components.Menu
	dash   *learning.Dashboard
	errMsg string
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(deps *screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	deps := h.deps
	testLabel := "TEST NEUROLEADERSKI"
	if h.dash != nil && h.dash.Type != nil {
		testLabel = "POWTÓRZ TEST"
	}
	return []components.MenuItem{
		{Label: testLabel, Action: func() tea.Cmd { return router.PushCmd(quiz.New(deps)) }},
		{Label: "KURS", Action: func() tea.Cmd { return router.PushCmd(course.New(deps)) }},
		{Label: "TYPY NEUROLEADERÓW", Action: func() tea.Cmd { return router.PushCmd(neurotypes.New(deps)) }},
		{Label: "OSIĄGNIĘCIA", Action: func() tea.Cmd { return router.PushCmd(achievements.New(deps)) }},
		{Label: "ZASOBY", Action: func() tea.Cmd { return router.PushCmd(resources.New(deps)) }},
		{Label: "PROFIL", Action: func() tea.Cmd { return router.PushCmd(profile.New(deps)) }},
		{Label: "WYJŚCIE", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (h *HomeScreen) load() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		d, err := deps.Service.Dashboard(context.Background(), deps.UserID)
		return dashboardLoadedMsg{dash: d, err: err}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads the dashboard after a sub-screen changed the record.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(dashboardLoadedMsg); ok {
		if msg.err != nil {
			h.errMsg = h.deps.Fail("load dashboard", msg.err)
			return h, nil
		}
		h.errMsg = ""
		h.dash = msg.dash
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		h.menu.Selected = selected
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{renderGreeting(h.dash, cw)}
	if h.errMsg != "" {
		sections = append(sections, renderError(h.errMsg, cw))
	} else if h.dash != nil {
		sections = append(sections, renderDashboard(h.dash, cw))
	}
	sections = append(sections, h.menu.View(cw-4))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Start"
}
