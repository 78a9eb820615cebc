package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/ui/theme"
)

// LikertLabels describe the five points of the agreement scale.
var LikertLabels = []string{
	"Zdecydowanie nie",
	"Raczej nie",
	"Trudno powiedzieć",
	"Raczej tak",
	"Zdecydowanie tak",
}

// Likert is a 1..5 agreement selector. Value 0 means no answer yet.
type Likert struct {
	Cursor int // 1..5, where the highlight sits
	Value  int // committed answer, 0 when unanswered
}

// NewLikert starts with the cursor on value, or the middle when value is 0.
func NewLikert(value int) Likert {
	cursor := value
	if cursor == 0 {
		cursor = 3
	}
	return Likert{Cursor: cursor, Value: value}
}

// Update moves the cursor with ←/→, commits with Enter or a digit key.
// It reports whether a value was committed by this message.
func (l Likert) Update(msg tea.Msg) (Likert, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, false
	}
	switch key := kmsg.String(); key {
	case "left", "h":
		if l.Cursor > 1 {
			l.Cursor--
		}
	case "right", "l":
		if l.Cursor < len(LikertLabels) {
			l.Cursor++
		}
	case "enter", "space":
		l.Value = l.Cursor
		return l, true
	case "1", "2", "3", "4", "5":
		l.Cursor = int(key[0] - '0')
		l.Value = l.Cursor
		return l, true
	}
	return l, false
}

// View renders the scale as a row of numbered cells with the cursor label
// underneath.
func (l Likert) View() string {
	cells := make([]string, 0, len(LikertLabels))
	for i := range LikertLabels {
		v := i + 1
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(theme.Text)
		switch {
		case v == l.Cursor && v == l.Value:
			style = style.Background(theme.Success).Foreground(theme.BgDark).Bold(true)
		case v == l.Cursor:
			style = style.Background(theme.Highlight).Foreground(theme.BgDark).Bold(true)
		case v == l.Value:
			style = style.Foreground(theme.Success).Bold(true)
		}
		cells = append(cells, style.Render(fmt.Sprintf("%d", v)))
	}
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
		Render(LikertLabels[l.Cursor-1])
	return strings.Join(cells, " ") + "\n" + label
}
