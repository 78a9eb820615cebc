// Package screentest drives screens in tests without a running program.
package screentest

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainventure/internal/assessment"
	"github.com/abhisek/brainventure/internal/content"
	"github.com/abhisek/brainventure/internal/learning"
	"github.com/abhisek/brainventure/internal/logger"
	"github.com/abhisek/brainventure/internal/progress"
	"github.com/abhisek/brainventure/internal/router"
	"github.com/abhisek/brainventure/internal/screen"
)

// UserID is the record every test Deps points at.
const UserID = "screen_tester"

// Deps returns screen dependencies backed by a temp-dir store, the
// embedded content and the priority tie breaker.
func Deps(t testing.TB) *screen.Deps {
	t.Helper()
	log := logger.Nop()
	store := progress.NewStore(t.TempDir(), log)
	svc := learning.NewService(store, content.Embedded(log), assessment.PriorityTieBreaker{}, log)
	return &screen.Deps{Service: svc, UserID: UserID, Log: log}
}

// Drive runs cmd and feeds the resulting messages back into s until no
// command is left. Navigation, RecordChangedMsg and quit messages are not
// fed back; they are returned in order instead.
func Drive(s screen.Screen, cmd tea.Cmd) (screen.Screen, []tea.Msg) {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 100; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg,
			screen.RecordChangedMsg, tea.QuitMsg:
			out = append(out, msg)
		default:
			var next tea.Cmd
			s, next = s.Update(msg)
			queue = append(queue, next)
		}
	}
	return s, out
}

// Key feeds a key press through Drive.
func Key(s screen.Screen, key tea.KeyPressMsg) (screen.Screen, []tea.Msg) {
	s, cmd := s.Update(key)
	return Drive(s, cmd)
}

// Rune builds a key press for a printable character.
func Rune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Enter is the Enter key.
var Enter = tea.KeyPressMsg{Code: tea.KeyEnter}

// Down is the down arrow.
var Down = tea.KeyPressMsg{Code: tea.KeyDown}

// Up is the up arrow.
var Up = tea.KeyPressMsg{Code: tea.KeyUp}

// Has returns the first message of type T in msgs.
func Has[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
