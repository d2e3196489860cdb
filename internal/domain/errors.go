package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrSourceUnreadable  = errors.New("source unreadable")
	ErrMalformedDocument = errors.New("malformed record document")
	ErrInvalidEventLabel = errors.New("invalid event label")
	ErrNodeNotFound      = errors.New("node not found")
	ErrResultStatus      = errors.New("result items do not track status")
	ErrRecordNotFound    = errors.New("record not found")
	ErrRecordExists      = errors.New("record already exists (use --force to overwrite)")
	ErrEmptyLocator      = errors.New("source locator cannot be empty")
	ErrInvalidRef        = errors.New("invalid node reference")
	ErrNoGitRepository   = errors.New("no git repository configured for git: locators")
	ErrConfigExists      = errors.New("config file already exists")
	ErrConfigNil         = errors.New("config is nil")
)

// DocumentError reports where a persisted record document failed to parse.
type DocumentError struct {
	Kind error
	Path []string // Element path from the document root
	Msg  string
}

func (e *DocumentError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if len(e.Path) > 0 {
		b.WriteString(": /")
		b.WriteString(strings.Join(e.Path, "/"))
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

func (e *DocumentError) Unwrap() error { return e.Kind }

// Malformedf builds a DocumentError of kind ErrMalformedDocument.
func Malformedf(path []string, format string, args ...any) error {
	return &DocumentError{Kind: ErrMalformedDocument, Path: path, Msg: fmt.Sprintf(format, args...)}
}
