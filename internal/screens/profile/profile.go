package profile

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/progress"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
	"github.com/abhisek/brainventure/internal/ui/components"
	"github.com/abhisek/brainventure/internal/ui/layout"
	"github.com/abhisek/brainventure/internal/ui/theme"
)

// NewContentKey is the settings.notifications key toggled on this screen.
const NewContentKey = "new_content"

type field int

const (
	fieldName field = iota
	fieldEmail
	fieldTheme
	fieldNotifications
	fieldEmailUpdates
	fieldNewContent
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Nazwa wyświetlana",
	"E-mail",
	"Motyw",
	"Powiadomienia",
	"Aktualizacje e-mail",
	"Powiadomienia o nowych treściach",
}

type savedMsg struct {
	rec *progress.UserRecord
	err error
}

// ProfileScreen edits the profile, preferences and notification settings.
type ProfileScreen struct {
	deps    *screen.Deps
	rec     *progress.UserRecord
	cursor  field
	editing bool
	input   components.TextInput
	status  string
	failed  bool
	errMsg  string
}

var (
	_ screen.Screen          = (*ProfileScreen)(nil)
	_ screen.KeyHintProvider = (*ProfileScreen)(nil)
	_ screen.EscCapturer     = (*ProfileScreen)(nil)
)

// New creates a new ProfileScreen.
func New(deps *screen.Deps) *ProfileScreen {
	return &ProfileScreen{deps: deps}
}

func (s *ProfileScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		rec, err := deps.Service.Record(context.Background(), deps.UserID)
		if err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{rec: rec}
	}
}

func (s *ProfileScreen) Title() string { return "Profil" }

func (s *ProfileScreen) CapturesEsc() bool { return s.editing }

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Zapisz"},
			{Key: "Esc", Description: "Anuluj"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Pole"},
		{Key: "Enter", Description: "Edytuj / przełącz"},
		{Key: "Esc", Description: "Wstecz"},
	}
}

func (s *ProfileScreen) save(fn func(ctx context.Context, svc *learning.Service, userID string) (*progress.UserRecord, error)) tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		rec, err := fn(context.Background(), deps.Service, deps.UserID)
		return savedMsg{rec: rec, err: err}
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		if msg.err != nil {
			text := s.deps.Fail("save profile", msg.err)
			if s.rec == nil {
				s.errMsg = text
			} else {
				s.status, s.failed = text, true
				s.input.Submit(false)
			}
			return s, nil
		}
		initial := s.rec == nil
		s.rec = msg.rec
		if initial {
			return s, nil
		}
		s.editing = false
		s.status, s.failed = "Zapisano.", false
		return s, screen.RecordChanged

	case tea.KeyMsg:
		if s.rec == nil {
			if msg.String() == "esc" {
				return s, router.PopCmd
			}
			return s, nil
		}
		if s.editing {
			return s.updateEditing(msg)
		}
		switch msg.String() {
		case "esc":
			return s, router.PopCmd
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < fieldCount-1 {
				s.cursor++
			}
		case "enter", "space":
			return s, s.activate()
		}
		return s, nil
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ProfileScreen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		s.status = ""
		return s, nil
	case "enter":
		value := s.input.Value()
		u := learning.ProfileUpdate{}
		if s.cursor == fieldName {
			u.DisplayName = &value
		} else {
			u.Email = &value
		}
		return s, s.save(func(ctx context.Context, svc *learning.Service, userID string) (*progress.UserRecord, error) {
			return svc.UpdateProfile(ctx, userID, u)
		})
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// activate starts editing a text field or flips a toggle.
func (s *ProfileScreen) activate() tea.Cmd {
	s.status = ""
	prefs := s.rec.Preferences
	switch s.cursor {
	case fieldName:
		s.startEditing("Jak mamy się do Ciebie zwracać?", s.rec.Profile.DisplayName, 50)
		return s.input.Init()
	case fieldEmail:
		s.startEditing("adres@example.com", s.rec.Profile.Email, 254)
		return s.input.Init()
	case fieldTheme:
		if prefs.Theme == "dark" {
			prefs.Theme = "light"
		} else {
			prefs.Theme = "dark"
		}
	case fieldNotifications:
		prefs.NotificationsEnabled = !prefs.NotificationsEnabled
	case fieldEmailUpdates:
		prefs.EmailUpdates = !prefs.EmailUpdates
	case fieldNewContent:
		enabled := !newContentEnabled(s.rec)
		return s.save(func(ctx context.Context, svc *learning.Service, userID string) (*progress.UserRecord, error) {
			return svc.SetNotificationSetting(ctx, userID, NewContentKey, enabled)
		})
	}
	return s.save(func(ctx context.Context, svc *learning.Service, userID string) (*progress.UserRecord, error) {
		return svc.UpdatePreferences(ctx, userID, prefs)
	})
}

func (s *ProfileScreen) startEditing(placeholder, value string, limit int) {
	s.editing = true
	s.input = components.NewTextInput(placeholder, value, limit)
}

func newContentEnabled(rec *progress.UserRecord) bool {
	n, _ := rec.Settings["notifications"].(map[string]any)
	on, _ := n[NewContentKey].(bool)
	return on
}

func onOff(b bool) string {
	if b {
		return "włączone"
	}
	return "wyłączone"
}

func (s *ProfileScreen) value(f field) string {
	switch f {
	case fieldName:
		return s.rec.Profile.DisplayName
	case fieldEmail:
		if s.rec.Profile.Email == "" {
			return "—"
		}
		return s.rec.Profile.Email
	case fieldTheme:
		if s.rec.Preferences.Theme == "dark" {
			return "ciemny"
		}
		return "jasny"
	case fieldNotifications:
		return onOff(s.rec.Preferences.NotificationsEnabled)
	case fieldEmailUpdates:
		return onOff(s.rec.Preferences.EmailUpdates)
	case fieldNewContent:
		return onOff(newContentEnabled(s.rec))
	}
	return ""
}

func (s *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if s.errMsg != "" {
		return components.Frame(theme.ErrorText.Render(s.errMsg), width, height)
	}
	if s.rec == nil {
		return components.Frame(theme.Hint.Render("Wczytywanie..."), width, height)
	}

	label := lipgloss.NewStyle().Width(34)
	rows := make([]string, 0, fieldCount)
	for f := field(0); f < fieldCount; f++ {
		prefix, style := "  ", theme.Unselected
		if f == s.cursor {
			prefix, style = theme.Selected.Render("▸ "), theme.Selected
		}
		val := theme.Body.Render(s.value(f))
		if s.editing && f == s.cursor {
			val = s.input.View()
		}
		rows = append(rows, prefix+label.Render(style.Render(fieldLabels[f]))+val)
	}

	sections := []string{
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Użytkownik: " + s.rec.UserID),
		components.Card(strings.Join(rows, "\n"), cw),
	}
	if s.status != "" {
		style := theme.Done
		if s.failed {
			style = theme.ErrorText
		}
		sections = append(sections, style.Render(s.status))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}
