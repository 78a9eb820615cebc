package apperr

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	e := Data("save_failed", "could not save user record", os.ErrPermission)
	assert.Equal(t, "[save_failed] could not save user record: permission denied", e.Error())

	v := Validation("", "too few answers")
	assert.Equal(t, "too few answers", v.Error())
}

func TestKindOfThroughWrapping(t *testing.T) {
	base := Content("schema", "bad questions file", nil)
	wrapped := fmt.Errorf("load questions: %w", base)

	assert.Equal(t, KindContent, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindContent))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindUnexpected))
}

func TestIsMatchesKindAndCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Validation("incomplete", "answer more"))

	assert.True(t, errors.Is(err, &Error{Kind: KindValidation}))
	assert.True(t, errors.Is(err, &Error{Kind: KindValidation, Code: "incomplete"}))
	assert.False(t, errors.Is(err, &Error{Kind: KindValidation, Code: "other"}))
	assert.False(t, errors.Is(err, &Error{Kind: KindData}))
}

func TestUnwrapReachesCause(t *testing.T) {
	err := Data("read", "read failed", os.ErrNotExist)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWithCopiesContext(t *testing.T) {
	base := UserData("bad_id", "invalid user id")
	a := base.With("user_id", "x")
	b := a.With("field", "user_id")

	assert.Nil(t, base.Context)
	assert.Len(t, a.Context, 1)
	assert.Len(t, b.Context, 2)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", Validation("incomplete", "Please answer at least 70% of the questions. Current: 50%"),
			"Please answer at least 70% of the questions. Current: 50%"},
		{"data hides cause", Data("write", "write /home/u/data/x.json", os.ErrPermission), MsgDataProblem},
		{"content", Content("schema", "broken", nil), MsgDataProblem},
		{"user data", UserData("bad_id", "Nieprawidłowy identyfikator użytkownika."), "Nieprawidłowy identyfikator użytkownika."},
		{"plain error", errors.New("open /etc/passwd: denied"), MsgUnexpected},
		{"validation without message", &Error{Kind: KindValidation}, MsgUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			require.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.False(t, strings.Contains(got, "permission denied"))
		})
	}
}
