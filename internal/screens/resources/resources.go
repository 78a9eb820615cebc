package resources

import (
	"fmt"
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

type libraryLoadedMsg struct {
	lib content.Library
	err error
}

// ResourcesScreen browses the resource library one shelf at a time with a
// search box, a category filter and a sort order.
type ResourcesScreen struct {
	deps       *screen.Deps
	lib        content.Library
	categories []string
	kind       int
	category   int // 0 is all categories
	sortBy     content.ResourceSort
	search     string

	searching    bool
	input        components.TextInput
	scrollOffset int
	loaded       bool
	errMsg       string
}

var (
	_ screen.Screen          = (*ResourcesScreen)(nil)
	_ screen.KeyHintProvider = (*ResourcesScreen)(nil)
	_ screen.EscCapturer     = (*ResourcesScreen)(nil)
)

// New creates a new ResourcesScreen.
func New(deps *screen.Deps) *ResourcesScreen {
	return &ResourcesScreen{deps: deps}
}

func (s *ResourcesScreen) Init() tea.Cmd {
	svc := s.deps.Service
	return func() tea.Msg {
		lib, err := svc.Resources()
		return libraryLoadedMsg{lib: lib, err: err}
	}
}

func (s *ResourcesScreen) Title() string { return "Zasoby" }

func (s *ResourcesScreen) CapturesEsc() bool { return s.searching }

func (s *ResourcesScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Szukaj"},
			{Key: "Esc", Description: "Wyczyść"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Typ"},
		{Key: "/", Description: "Szukaj"},
		{Key: "c", Description: "Kategoria"},
		{Key: "s", Description: "Sortuj"},
		{Key: "Esc", Description: "Wstecz"},
	}
}

func (s *ResourcesScreen) query() content.ResourceQuery {
	q := content.ResourceQuery{
		Kind:   content.ResourceKinds()[s.kind],
		Search: s.search,
		Sort:   s.sortBy,
	}
	if s.category > 0 {
		q.Category = s.categories[s.category-1]
	}
	return q
}

func (s *ResourcesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case libraryLoadedMsg:
		if msg.err != nil {
			s.errMsg = s.deps.Fail("load resources", msg.err)
		} else {
			s.lib = msg.lib
			s.categories = msg.lib.Categories()
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if s.searching {
			return s.updateSearch(msg)
		}
		kinds := len(content.ResourceKinds())
		switch msg.String() {
		case "esc":
			return s, router.PopCmd
		case "tab":
			s.kind = (s.kind + 1) % kinds
			s.scrollOffset = 0
		case "shift+tab":
			s.kind = (s.kind - 1 + kinds) % kinds
			s.scrollOffset = 0
		case "c":
			s.category = (s.category + 1) % (len(s.categories) + 1)
			s.scrollOffset = 0
		case "s":
			s.sortBy = s.sortBy.Next()
			s.scrollOffset = 0
		case "/":
			s.searching = true
			s.input = components.NewTextInput("Szukaj w zasobach...", s.search, 60)
			return s, s.input.Init()
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.lib.Find(s.query()))-1 {
				s.scrollOffset++
			}
		}
		return s, nil
	}

	if s.searching {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// updateSearch filters as the user types. Esc drops the search text.
func (s *ResourcesScreen) updateSearch(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.searching = false
		s.search = ""
		return s, nil
	case "enter":
		s.searching = false
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.search = s.input.Value()
	s.scrollOffset = 0
	return s, cmd
}

func stars(rating float64) string {
	n := int(rating + 0.5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func renderResource(r content.Resource, kind content.ResourceKind, width int) string {
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(r.Title)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var meta []string
	if by := r.Byline(); by != "" {
		meta = append(meta, by)
	}
	switch kind {
	case content.KindArticle:
		meta = append(meta, r.PublishedDate, fmt.Sprintf("%d min", r.ReadTime), fmt.Sprintf("%d wyświetleń", r.Views))
	case content.KindBook:
		meta = append(meta, fmt.Sprintf("%d", r.PublishedYear), r.Publisher)
	case content.KindResearch:
		meta = append(meta, r.Institution, r.PublishedDate)
	case content.KindTool:
		meta = append(meta, r.Price)
	}
	if r.Rating > 0 {
		meta = append(meta, lipgloss.NewStyle().Foreground(theme.Highlight).Render(stars(r.Rating))+
			dim.Render(fmt.Sprintf(" %.1f", r.Rating)))
	}

	lines := []string{
		title,
		dim.Render(strings.Join(meta, " · ")),
		theme.Body.Width(width).Render(r.Text()),
	}
	if r.DOI != "" {
		lines = append(lines, dim.Render("DOI: "+r.DOI))
	}
	if r.URL != "" {
		lines = append(lines, dim.Render(r.URL))
	}
	if len(r.Tags) > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Secondary).Render("#"+strings.Join(r.Tags, " #")))
	}
	return strings.Join(lines, "\n")
}

func (s *ResourcesScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.errMsg != "" {
		return components.Frame(theme.ErrorText.Render(s.errMsg), width, height)
	}
	if !s.loaded {
		return components.Frame(theme.Hint.Render("Wczytywanie..."), width, height)
	}

	q := s.query()
	tabs := make([]string, 0, len(content.ResourceKinds()))
	for i, k := range content.ResourceKinds() {
		label := fmt.Sprintf("%s (%d)", k.Label(), len(s.lib[k]))
		if i == s.kind {
			tabs = append(tabs, theme.Selected.Render(label))
		} else {
			tabs = append(tabs, theme.Unselected.Render(label))
		}
	}

	category := "Wszystkie"
	if q.Category != "" {
		category = q.Category
	}
	search := theme.Hint.Render("/ aby wyszukać")
	if s.searching {
		search = s.input.View()
	} else if s.search != "" {
		search = theme.Body.Render("„" + s.search + "”")
	}
	filters := theme.Hint.Render("Kategoria: ") + theme.Body.Render(category) +
		theme.Hint.Render("   Sortuj: ") + theme.Body.Render(q.Sort.Label()) +
		theme.Hint.Render("   Szukaj: ") + search

	sections := []string{strings.Join(tabs, "   "), filters}

	if featured := s.lib.Featured(q); len(featured) > 0 {
		var picks []string
		for _, r := range featured {
			picks = append(picks, "⭐ "+r.Title)
		}
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Polecane")+"\n"+
				theme.Body.Render(strings.Join(picks, "\n")))
	}

	items := s.lib.Find(q)
	if len(items) == 0 {
		sections = append(sections, theme.Hint.Render("Brak zasobów spełniających kryteria."))
		return components.Frame(strings.Join(sections, "\n\n"), width, height)
	}

	// Entries run five to seven lines each.
	maxVisible := max((height-12)/7, 1)
	start := min(s.scrollOffset, len(items)-1)
	end := min(start+maxVisible, len(items))
	cards := make([]string, 0, end-start)
	for _, r := range items[start:end] {
		cards = append(cards, components.Card(renderResource(r, q.Kind, cw-6), cw))
	}
	sections = append(sections, strings.Join(cards, "\n"))
	if end < len(items) {
		sections = append(sections, theme.Hint.Render(fmt.Sprintf("... jeszcze %d", len(items)-end)))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
