package achievements

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainventure/internal/progress"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/screen/screentest"
)

func loaded(t *testing.T, deps *screen.Deps) *AchievementsScreen {
	t.Helper()
	s := New(deps)
	screentest.Drive(s, s.Init())
	if !s.loaded {
		t.Fatal("expected record to load")
	}
	return s
}

func TestAchievementsScreen_Title(t *testing.T) {
	if got := New(screentest.Deps(t)).Title(); got != "Osiągnięcia" {
		t.Errorf("Title = %q", got)
	}
}

func TestAchievementsScreen_EmptyRecord(t *testing.T) {
	s := loaded(t, screentest.Deps(t))
	view := s.View(100, 30)
	if !strings.Contains(view, "Zdobyte odznaki: 0 z 2") {
		t.Errorf("unexpected header in view:\n%s", view)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if got := len(s.rows()); got != len(progress.Catalog()) {
		t.Errorf("locked rows = %d, want %d", got, len(progress.Catalog()))
	}
}

func TestAchievementsScreen_EarnedAndHistory(t *testing.T) {
	deps := screentest.Deps(t)
	ctx := context.Background()
	if _, err := deps.Service.CompleteLesson(ctx, deps.UserID, "b1_m1_l1"); err != nil {
		t.Fatal(err)
	}
	a, _ := deps.Service.NewAttempt()
	for _, q := range a.Questions {
		_ = a.Answer(q.ID, 4)
	}
	if _, err := deps.Service.SubmitTest(ctx, deps.UserID, a); err != nil {
		t.Fatal(err)
	}

	s := loaded(t, deps)
	if got := len(s.rows()); got != 2 {
		t.Errorf("earned rows = %d, want 2", got)
	}
	if !strings.Contains(s.View(100, 30), progress.FirstStep.Name) {
		t.Error("expected FirstStep in earned tab")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if got := len(s.rows()); got != 0 {
		t.Errorf("locked rows = %d, want 0", got)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	view := s.View(100, 30)
	// An all-fours answer sheet ties everywhere; priority picks the first category.
	if !strings.Contains(view, "Neuroanalityk") {
		t.Errorf("expected history entry in view:\n%s", view)
	}
}

func TestAchievementsScreen_ShiftTabWraps(t *testing.T) {
	s := loaded(t, screentest.Deps(t))
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.selectedTab != tabHistory {
		t.Errorf("selectedTab = %d, want %d", s.selectedTab, tabHistory)
	}
}

func TestAchievementsScreen_Esc(t *testing.T) {
	s := New(screentest.Deps(t))
	_, msgs := screentest.Key(s, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := screentest.Has[router.PopScreenMsg](msgs); !ok {
		t.Error("expected pop on Esc")
	}
}

func TestAchievementsScreen_KeyHints(t *testing.T) {
	if n := len(New(screentest.Deps(t)).KeyHints()); n != 3 {
		t.Errorf("KeyHints length = %d, want 3", n)
	}
}
