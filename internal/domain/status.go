package domain

import (
	"fmt"
	"strings"
)

// EventLabel names a status event recorded in an EventLog.
type EventLabel string

const (
	EventStarted   EventLabel = "started"   // Work on the item began
	EventCompleted EventLabel = "completed" // Work on the item finished
	EventStopped   EventLabel = "stopped"   // Work paused or abandoned

	// Alias accepted on input, never stored.
	eventDoneAlias EventLabel = "done"
)

// AllEventLabels returns all valid event labels.
func AllEventLabels() []EventLabel {
	return []EventLabel{
		EventStarted,
		EventCompleted,
		EventStopped,
	}
}

// ParseEventLabel parses a label, accepting "done" as an alias of "completed".
func ParseEventLabel(s string) (EventLabel, error) {
	label := EventLabel(strings.ToLower(strings.TrimSpace(s)))
	if label == eventDoneAlias {
		return EventCompleted, nil
	}
	if !label.IsValid() {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidEventLabel)
	}
	return label, nil
}

// IsValid returns true if the label is a known stored value.
func (l EventLabel) IsValid() bool {
	switch l {
	case EventStarted, EventCompleted, EventStopped:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the label marks finished work.
func (l EventLabel) IsTerminal() bool {
	return l == EventCompleted
}

// Display returns a human-readable representation of the label.
func (l EventLabel) Display() string {
	switch l {
	case EventStarted:
		return "Started"
	case EventCompleted:
		return "Completed"
	case EventStopped:
		return "Stopped"
	default:
		return string(l)
	}
}

// Bracketed renders the label the way log lines show it, e.g. "[started]".
func (l EventLabel) Bracketed() string {
	return "[" + string(l) + "]"
}
