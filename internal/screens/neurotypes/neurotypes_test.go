package neurotypes

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen/screentest"
)

func TestListScreen_LoadsAllTypes(t *testing.T) {
	s := New(screentest.Deps(t))
	screentest.Drive(s, s.Init())

	if len(s.types) != 6 {
		t.Fatalf("loaded %d types, want 6", len(s.types))
	}
	view := s.View(100, 60)
	for _, c := range assessment.AllCategories() {
		if !strings.Contains(view, c.DisplayName()) {
			t.Errorf("view missing %q", c.DisplayName())
		}
	}
}

func TestListScreen_EnterPushesDetail(t *testing.T) {
	s := New(screentest.Deps(t))
	screentest.Drive(s, s.Init())

	_, msgs := screentest.Key(s, screentest.Enter)
	push, ok := screentest.Has[router.PushScreenMsg](msgs)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %v", msgs)
	}
	d := push.Screen.(*DetailScreen)
	if d.card.Markdown == "" {
		t.Error("expected the markdown body to be loaded for the first type")
	}
}

func TestListScreen_SelectionBounds(t *testing.T) {
	s := New(screentest.Deps(t))
	screentest.Drive(s, s.Init())

	s.Update(screentest.Up)
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}
	for range 10 {
		s.Update(screentest.Down)
	}
	if s.selected != 5 {
		t.Errorf("selected = %d, want 5", s.selected)
	}
}

func TestDetailScreen_FallsBackToFields(t *testing.T) {
	d := NewDetail(&content.NeuroleaderType{
		ID: assessment.CategoryReactor, Name: "Neuroreaktor", Icon: "⚡",
		ShortDescription: "Szybki.", Superpower: "Refleks", Weakness: "Pośpiech", Neurobiology: "Ciało migdałowate",
	})
	view := d.View(100, 60)
	for _, want := range []string{"Supermoc", "Refleks", "Słabość", "Neurobiologia"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if d.Title() != "⚡ Neuroreaktor" {
		t.Errorf("Title = %q", d.Title())
	}
}

func TestDetailScreen_EscPops(t *testing.T) {
	d := NewDetail(&content.NeuroleaderType{Name: "X"})
	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := renderMarkdown("# Tytuł\n\nPierwsza\nlinia **ważna**\n\n- punkt", 40)
	for _, want := range []string{"Tytuł", "Pierwsza linia ważna", "• punkt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "**") || strings.Contains(out, "# ") {
		t.Errorf("markup leaked into output:\n%s", out)
	}
}
