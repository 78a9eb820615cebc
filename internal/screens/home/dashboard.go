package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/progress"
	"github.com/abhisek/brainventure/internal/ui/components"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

func displayName(d *learning.Dashboard) string {
	if d == nil || d.Record.Profile.DisplayName == "" {
		return progress.DefaultDisplayName
	}
	return d.Record.Profile.DisplayName
}

func renderGreeting(d *learning.Dashboard, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render(fmt.Sprintf("Witaj, %s! 👋", displayName(d))))
}

func renderError(msg string, cw int) string {
	return components.Card(theme.ErrorText.Render(msg), cw)
}

// renderDashboard shows course progress, the user's type and what to do next.
func renderDashboard(d *learning.Dashboard, cw int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	inner := cw - 6

	var lines []string
	lines = append(lines,
		components.NewProgressBar("Kurs", d.Percent, true, inner).View(),
		dim.Render(fmt.Sprintf("Ukończone lekcje: %d / %d", d.Completed, d.Total)),
		"",
	)

	if d.Type != nil {
		name := lipgloss.NewStyle().Foreground(theme.CategoryColor(string(d.Type.ID))).Bold(true).
			Render(d.Type.Icon + " " + d.Type.Name)
		lines = append(lines, "Twój typ: "+name, dim.Render(d.Type.ShortDescription))
	} else {
		lines = append(lines, dim.Render("Nie znasz jeszcze swojego typu. Zrób test neuroleaderski!"))
	}

	lines = append(lines, "")
	if d.NextLesson != nil {
		lines = append(lines, "Następna lekcja: "+
			lipgloss.NewStyle().Foreground(theme.Highlight).Render(d.NextLesson.Title))
	} else {
		lines = append(lines, theme.Done.Render("Ukończyłeś cały kurs! 🎉"))
	}

	lines = append(lines, dim.Render(fmt.Sprintf("🏅 Osiągnięcia: %d", len(d.Record.Achievements))))

	return components.Card(strings.Join(lines, "\n"), cw)
}
