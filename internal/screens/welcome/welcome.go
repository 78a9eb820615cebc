package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 3000 * time.Millisecond
)

const brainArt = `   ╭──╮╭──╮╭──╮
 ╭─╯  ╰╯  ╰╯  ╰─╮
 │  ∿∿  ╭╮  ∿∿  │
 │ ∿  ∿ ││ ∿  ∿ │
 ╰─╮  ╭─╯╰─╮  ╭─╯
   ╰──╯    ╰──╯`

// pulse frames cycle beside the brain
var pulseFrames = []string{"⚡", "✦"}

type tickMsg time.Time

// WelcomeScreen shows a splash animation before the home screen.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.ReplaceCmd(w.homeFactory())
}

func (w *WelcomeScreen) View(width, height int) string {
	art := lipgloss.NewStyle().Foreground(theme.Primary).Render(brainArt)

	if w.elapsed >= phase1End {
		pulse := pulseFrames[w.tickCount%len(pulseFrames)]
		left := lipgloss.NewStyle().Foreground(theme.Accent).Render(pulse)
		right := lipgloss.NewStyle().Foreground(theme.Secondary).Render(pulse)

		lines := strings.Split(art, "\n")
		if len(lines) > 2 {
			lines[2] = left + "  " + lines[2] + "  " + right
		}
		art = strings.Join(lines, "\n")
	}

	sections := []string{art}

	if w.elapsed >= phase2End {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Poznaj swój mózg lidera"),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("naciśnij dowolny klawisz"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
