package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainventure/internal/apperr"
	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/logger"
	"github.com/abhisek/brainventure/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// EscCapturer is implemented by screens that need Esc themselves, such as
// while a text field is being edited.
type EscCapturer interface {
	CapturesEsc() bool
}

// RecordChangedMsg tells the app that the user's record was written, so
// header stats should be reloaded.
type RecordChangedMsg struct{}

// RecordChanged is a command emitting RecordChangedMsg.
func RecordChanged() tea.Msg { return RecordChangedMsg{} }

// Deps are the collaborators every screen needs.
type Deps struct {
	Service *learning.Service
	UserID  string
	Log     *logger.Logger
}

// Fail logs err with context and returns the text safe to show the user.
func (d *Deps) Fail(op string, err error) string {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	if apperr.IsKind(err, apperr.KindValidation) {
		log.Debug(op+" rejected", "user_id", d.UserID, "error", err)
	} else {
		log.Error(op+" failed", "user_id", d.UserID, "error", err, "kind", string(apperr.KindOf(err)))
	}
	return apperr.UserMessage(err)
}
