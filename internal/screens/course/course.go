package course

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/ui/components"
	"github.com/abhisek/brainventure/internal/ui/layout"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

type courseLoadedMsg struct {
	course content.Course
	dash   *learning.Dashboard
	err    error
}

type lessonDoneMsg struct {
	out *learning.LessonOutcome
	err error
}

// CourseScreen shows the course tree and marks lessons complete.
type CourseScreen struct {
	deps    *screen.Deps
	course  content.Course
	lessons []content.LessonRef
	done    map[string]bool
	dash    *learning.Dashboard
	cursor  int
	loaded  bool
	flash   string
	errMsg  string
}

var (
	_ screen.Screen          = (*CourseScreen)(nil)
	_ screen.KeyHintProvider = (*CourseScreen)(nil)
)

// New creates a new CourseScreen.
func New(deps *screen.Deps) *CourseScreen {
	return &CourseScreen{deps: deps}
}

func (s *CourseScreen) load() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		c, err := deps.Service.Course()
		if err != nil {
			return courseLoadedMsg{err: err}
		}
		d, err := deps.Service.Dashboard(context.Background(), deps.UserID)
		return courseLoadedMsg{course: c, dash: d, err: err}
	}
}

func (s *CourseScreen) Init() tea.Cmd { return s.load() }

func (s *CourseScreen) Title() string { return "Kurs" }

func (s *CourseScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Lekcja"},
		{Key: "Enter", Description: "Oznacz jako ukończoną"},
		{Key: "Esc", Description: "Wstecz"},
	}
}

func (s *CourseScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case courseLoadedMsg:
		first := !s.loaded
		s.loaded = true
		if msg.err != nil {
			s.errMsg = s.deps.Fail("load course", msg.err)
			return s, nil
		}
		s.course, s.dash = msg.course, msg.dash
		s.lessons = s.course.Lessons()
		s.done = make(map[string]bool)
		for _, id := range s.dash.Record.Progress.CompletedLessons {
			s.done[id] = true
		}
		if first && s.dash.NextLesson != nil {
			for i, l := range s.lessons {
				if l.ID == s.dash.NextLesson.ID {
					s.cursor = i
				}
			}
		}
		return s, nil

	case lessonDoneMsg:
		if msg.err != nil {
			s.flash = s.deps.Fail("complete lesson", msg.err)
			return s, nil
		}
		if !msg.out.NewlyCompleted {
			s.flash = "Ta lekcja jest już ukończona."
			return s, nil
		}
		s.flash = "✅ Ukończono: " + msg.out.Lesson.Title
		for _, a := range msg.out.NewAchievements {
			s.flash += fmt.Sprintf("\n%s Nowe osiągnięcie: %s", a.Icon, a.Name)
		}
		return s, tea.Batch(s.load(), screen.RecordChanged)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.PopCmd
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.lessons)-1 {
				s.cursor++
			}
		case "enter":
			if len(s.lessons) == 0 {
				return s, nil
			}
			deps, id := s.deps, s.lessons[s.cursor].ID
			return s, func() tea.Msg {
				out, err := deps.Service.CompleteLesson(context.Background(), deps.UserID, id)
				return lessonDoneMsg{out: out, err: err}
			}
		}
	}
	return s, nil
}

// lines renders the tree and reports which line holds the cursor.
func (s *CourseScreen) lines(width int) ([]string, int) {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	var out []string
	cursorLine := 0
	i := 0
	for bi, block := range s.course {
		stats := s.dash.Blocks[bi]
		out = append(out,
			lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
				Render(fmt.Sprintf("%s Blok %d: %s", block.Emoji, bi+1, block.Title))+
				dim.Render(fmt.Sprintf("  %d/%d (%.1f%%)", stats.Completed, stats.Total, stats.Percent)))
		for mi, module := range block.Modules {
			out = append(out, dim.Render(fmt.Sprintf("   Moduł %d: %s", mi+1, module.Title)))
			for range module.Lessons {
				ref := s.lessons[i]
				mark := "⬜"
				style := theme.Unselected
				if s.done[ref.ID] {
					mark = "✅"
					style = theme.Done
				}
				prefix := "      "
				if i == s.cursor {
					prefix = theme.Selected.Render("    ▸ ")
					style = theme.Selected
					cursorLine = len(out)
				}
				out = append(out, prefix+mark+" "+style.MaxWidth(width-10).Render(ref.Title))
				i++
			}
		}
		out = append(out, "")
	}
	return out, cursorLine
}

func (s *CourseScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if !s.loaded {
		return components.Frame(theme.Hint.Render("Wczytywanie..."), width, height)
	}
	if s.errMsg != "" {
		return components.Frame(theme.ErrorText.Render(s.errMsg), width, height)
	}

	head := components.NewProgressBar("Postęp kursu", s.dash.Percent, true, cw-4).View()

	lines, cursorLine := s.lines(cw)
	visible := max(height-10, 5)
	start := 0
	if cursorLine >= visible {
		start = cursorLine - visible + 1
	}
	end := min(start+visible, len(lines))
	tree := lipgloss.NewStyle().Width(cw).Render(strings.Join(lines[start:end], "\n"))

	sections := []string{head, tree}
	if s.flash != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Render(s.flash))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
