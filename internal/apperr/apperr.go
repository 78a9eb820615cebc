package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the presentation boundary.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindData          Kind = "data"
	KindUserData      Kind = "user_data"
	KindContent       Kind = "content"
	KindConfiguration Kind = "configuration"
	KindUnexpected    Kind = "unexpected"
)

// Generic user-facing notices. They never carry paths or causes.
const (
	MsgDataProblem = "Wystąpił problem z danymi aplikacji. Prosimy o zgłoszenie problemu."
	MsgUnexpected  = "Wystąpił nieoczekiwany błąd. Prosimy o zgłoszenie problemu."
)

// Error is the typed failure returned by the assessment engine, the
// progress store and the content repository.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Context map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("[%s] %s", e.Code, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind (and code, when the target
// sets one), so sentinel-style checks work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// With returns a copy of e carrying an extra context entry.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Context = make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

func newErr(kind Kind, code, msg string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

func Validation(code, msg string) *Error {
	return newErr(KindValidation, code, msg, nil)
}

func Data(code, msg string, err error) *Error {
	return newErr(KindData, code, msg, err)
}

func UserData(code, msg string) *Error {
	return newErr(KindUserData, code, msg, nil)
}

func Content(code, msg string, err error) *Error {
	return newErr(KindContent, code, msg, err)
}

func Configuration(code, msg string, err error) *Error {
	return newErr(KindConfiguration, code, msg, err)
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindUnexpected when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage translates any failure into text that is safe to show to
// the end user. Callers log the full error before showing this.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return MsgUnexpected
	}
	switch e.Kind {
	case KindValidation, KindUserData, KindConfiguration:
		if e.Message != "" {
			return e.Message
		}
		return MsgUnexpected
	case KindData, KindContent:
		return MsgDataProblem
	default:
		return MsgUnexpected
	}
}
