package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/screen/screentest"
)

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(Options{Deps: screentest.Deps(t)})
	if m.router.Active().Title() != "" {
		t.Errorf("expected welcome screen, got %q", m.router.Active().Title())
	}
	m = newAppModel(Options{Deps: screentest.Deps(t), SkipWelcome: true})
	if m.router.Active().Title() != "Start" {
		t.Errorf("expected home screen, got %q", m.router.Active().Title())
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Deps: screentest.Deps(t), SkipWelcome: true})
	_, cmd := update(m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppModel_EscAtRootDoesNothing(t *testing.T) {
	m := newAppModel(Options{Deps: screentest.Deps(t), SkipWelcome: true})
	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command on Esc at the bottom of the stack")
	}
}

func TestAppModel_EscPopsPushedScreen(t *testing.T) {
	m := newAppModel(Options{Deps: screentest.Deps(t), SkipWelcome: true})
	_, cmd := update(m, router.PushScreenMsg{Screen: &captureScreen{}})
	_ = cmd
	_, cmd = update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestAppModel_EscCapturedWhileEditing(t *testing.T) {
	m := newAppModel(Options{Deps: screentest.Deps(t), SkipWelcome: true})
	s := &captureScreen{capture: true}
	update(m, router.PushScreenMsg{Screen: s})
	update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.escs != 1 {
		t.Errorf("expected Esc delivered to the screen, got %d", s.escs)
	}
	if m.router.Depth() != 2 {
		t.Errorf("expected stack depth 2, got %d", m.router.Depth())
	}
}

func TestAppModel_RecordChangedRefreshesHeader(t *testing.T) {
	deps := screentest.Deps(t)
	m := newAppModel(Options{Deps: deps, SkipWelcome: true})
	m, _ = update(m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if _, err := deps.Service.CompleteLesson(context.Background(), deps.UserID, "b1_m1_l1"); err != nil {
		t.Fatal(err)
	}
	_, cmd := update(m, screen.RecordChangedMsg{})
	if cmd == nil {
		t.Fatal("expected stats reload command")
	}
	m, _ = update(m, cmd())
	if m.stats.Achievements != 1 {
		t.Errorf("Achievements = %d, want 1", m.stats.Achievements)
	}
	if !strings.Contains(m.render(), "🏅 1") {
		t.Error("expected achievement count in header")
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	m := newAppModel(Options{Deps: screentest.Deps(t), SkipWelcome: true})
	m, _ = update(m, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(m.render(), "za małe") {
		t.Error("expected minimum size message")
	}
}

// captureScreen records Esc presses and optionally captures them.
type captureScreen struct {
	capture bool
	escs    int
}

func (c *captureScreen) Init() tea.Cmd { return nil }
func (c *captureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		c.escs++
	}
	return c, nil
}
func (c *captureScreen) View(int, int) string { return "capture" }
func (c *captureScreen) Title() string        { return "Capture" }
func (c *captureScreen) CapturesEsc() bool    { return c.capture }
