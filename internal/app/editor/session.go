// Package editor holds the editing sessions an admin UI drives: one for
// the site settings document and one per content page. Edits are applied
// in memory; Save sends the whole document back through siteapi.
package editor

import (
	"errors"
	"strings"

	"github.com/dalemusser/stratatour/internal/app/system/siteapi"
)

// ErrNoSession is returned when an editor is opened without a usable
// session.
var ErrNoSession = errors.New("editor: no session")

// Session is the signed-in editor. It is passed explicitly to every
// editor constructor.
type Session struct {
	Token      string
	EditorName string
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.Token) != ""
}

func (s Session) credentials() siteapi.Credentials {
	return siteapi.Credentials{Token: s.Token, EditorName: strings.TrimSpace(s.EditorName)}
}

// Outcome tells the UI where to go after a successful save.
type Outcome int

const (
	// StayOnForm keeps the form open with a confirmation.
	StayOnForm Outcome = iota + 1
	// ReturnToList goes back to the list the editor was opened from.
	ReturnToList
)

func (o Outcome) String() string {
	switch o {
	case StayOnForm:
		return "stay-on-form"
	case ReturnToList:
		return "return-to-list"
	}
	return "none"
}

// SaveResult reports a save. On failure Message is the server's error
// text and the editor state is unchanged, so the user can retry.
type SaveResult struct {
	OK      bool
	Outcome Outcome
	Message string
	Err     error
}

func saved(o Outcome, msg string) SaveResult {
	return SaveResult{OK: true, Outcome: o, Message: msg}
}

func failed(err error) SaveResult {
	return SaveResult{Message: messageFor(err), Err: err}
}

// LoadError is a failed initial fetch. Nothing is editable until the load
// succeeds.
type LoadError struct {
	What string
	Err  error
}

func (e *LoadError) Error() string { return "load " + e.What + ": " + messageFor(e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// Message is the text to show in the blocking error state.
func (e *LoadError) Message() string { return messageFor(e.Err) }

// messageFor returns the server's message for API errors and the error
// text otherwise.
func messageFor(err error) string {
	var apiErr *siteapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
