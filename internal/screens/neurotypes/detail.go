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

// DetailScreen shows one type card, preferring its markdown description.
type DetailScreen struct {
	card   *content.NeuroleaderType
	scroll int
}

var (
	_ screen.Screen          = (*DetailScreen)(nil)
	_ screen.KeyHintProvider = (*DetailScreen)(nil)
)

// NewDetail creates a DetailScreen for card.
func NewDetail(card *content.NeuroleaderType) *DetailScreen {
	return &DetailScreen{card: card}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }

func (d *DetailScreen) Title() string { return d.card.Icon + " " + d.card.Name }

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Przewiń"},
		{Key: "Esc", Description: "Wstecz"},
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "enter":
			return d, router.PopCmd
		case "up", "k":
			if d.scroll > 0 {
				d.scroll--
			}
		case "down", "j":
			d.scroll++
		}
	}
	return d, nil
}

// body returns the markdown file when present, else the card fields as
// markdown.
func (d *DetailScreen) body() string {
	if d.card.Markdown != "" {
		return d.card.Markdown
	}
	var b strings.Builder
	b.WriteString("# " + d.card.Icon + " " + d.card.Name + "\n\n")
	b.WriteString(d.card.ShortDescription + "\n\n")
	b.WriteString("## Supermoc\n\n" + d.card.Superpower + "\n\n")
	b.WriteString("## Słabość\n\n" + d.card.Weakness + "\n\n")
	b.WriteString("## Neurobiologia\n\n" + d.card.Neurobiology + "\n")
	return b.String()
}

func (d *DetailScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	lines := strings.Split(renderMarkdown(d.body(), cw-6), "\n")

	visible := max(height-6, 1)
	d.scroll = min(d.scroll, max(len(lines)-visible, 0))
	end := min(d.scroll+visible, len(lines))

	return components.Frame(components.Card(strings.Join(lines[d.scroll:end], "\n"), cw), width, height)
}

// renderMarkdown styles the subset used by type descriptions: headings,
// bullet lists and paragraphs.
func renderMarkdown(src string, width int) string {
	h1 := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	h2 := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	para := lipgloss.NewStyle().Foreground(theme.Text).Width(width)

	var out []string
	var paragraph []string
	flush := func() {
		if len(paragraph) > 0 {
			out = append(out, para.Render(strings.Join(paragraph, " ")))
			paragraph = nil
		}
	}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			flush()
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
		case strings.HasPrefix(line, "## "):
			flush()
			out = append(out, h2.Render(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "# "):
			flush()
			out = append(out, h1.Render(strings.TrimPrefix(line, "# ")))
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			flush()
			out = append(out, para.Render("  • "+line[2:]))
		default:
			paragraph = append(paragraph, strings.ReplaceAll(line, "**", ""))
		}
	}
	flush()
	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}
