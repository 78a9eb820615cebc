package course

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/screen/screentest"
)

func loaded(t *testing.T, deps *screen.Deps) *CourseScreen {
	t.Helper()
	s := New(deps)
	screentest.Drive(s, s.Init())
	if !s.loaded || s.errMsg != "" {
		t.Fatalf("course did not load: %q", s.errMsg)
	}
	return s
}

func TestCourseScreen_Title(t *testing.T) {
	if got := New(screentest.Deps(t)).Title(); got != "Kurs" {
		t.Errorf("Title = %q", got)
	}
}

func TestCourseScreen_Display(t *testing.T) {
	s := loaded(t, screentest.Deps(t))
	if len(s.lessons) != 13 {
		t.Fatalf("lessons = %d, want 13", len(s.lessons))
	}
	view := s.View(100, 60)
	for _, want := range []string{"Podstawy neuroprzywództwa", "0/5", "⬜", "Jak działa mózg w roli lidera"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCourseScreen_CompleteLesson(t *testing.T) {
	deps := screentest.Deps(t)
	s := loaded(t, deps)

	_, msgs := screentest.Key(s, screentest.Enter)
	if _, ok := screentest.Has[screen.RecordChangedMsg](msgs); !ok {
		t.Error("expected RecordChangedMsg after completing a lesson")
	}
	if !s.done["b1_m1_l1"] {
		t.Error("expected b1_m1_l1 marked done after reload")
	}
	if !strings.Contains(s.flash, "Pierwszy Krok") {
		t.Errorf("flash = %q, want FirstStep announcement", s.flash)
	}
	if !strings.Contains(s.View(100, 60), "1/5") {
		t.Error("expected block stats refreshed")
	}

	// Repeating is a no-op with a notice.
	_, msgs = screentest.Key(s, screentest.Enter)
	if len(msgs) != 0 {
		t.Errorf("expected no messages on repeat, got %v", msgs)
	}
	if s.flash != "Ta lekcja jest już ukończona." {
		t.Errorf("flash = %q", s.flash)
	}
}

func TestCourseScreen_CursorStartsAtNextLesson(t *testing.T) {
	deps := screentest.Deps(t)
	s := loaded(t, deps)
	screentest.Key(s, screentest.Enter)

	again := loaded(t, deps)
	if got := again.lessons[again.cursor].ID; got != "b1_m1_l2" {
		t.Errorf("cursor on %s, want b1_m1_l2", got)
	}
}

func TestCourseScreen_CursorBounds(t *testing.T) {
	s := loaded(t, screentest.Deps(t))
	s.Update(screentest.Up)
	if s.cursor != 0 {
		t.Errorf("cursor = %d, want 0", s.cursor)
	}
	for range 20 {
		s.Update(screentest.Down)
	}
	if s.cursor != 12 {
		t.Errorf("cursor = %d, want 12", s.cursor)
	}
	if !strings.Contains(s.View(100, 20), "Opowiadanie wizji") {
		t.Error("expected view to scroll to the last lesson")
	}
}

func TestCourseScreen_Esc(t *testing.T) {
	s := New(screentest.Deps(t))
	_, msgs := screentest.Key(s, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := screentest.Has[router.PopScreenMsg](msgs); !ok {
		t.Error("expected pop on Esc")
	}
}
