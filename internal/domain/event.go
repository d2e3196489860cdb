package domain

import (
	"cmp"
	"slices"
	"time"
)

// EventEntry is a single status event.
type EventEntry struct {
	Time  time.Time
	Label EventLabel
}

// IsZero reports whether the entry is the empty result.
func (e EventEntry) IsZero() bool {
	return e.Label == "" && e.Time.IsZero()
}

// String renders the entry as "LABEL TIMESTAMP".
func (e EventEntry) String() string {
	if e.IsZero() {
		return ""
	}
	return string(e.Label) + " " + FormatTimestamp(e.Time)
}

// EventLog is an append-only list of events owned by one node.
// Entries are kept in append order and never reordered or removed.
// Every entry gets a sequence number from the counter shared by all logs
// of one record, or from the log itself when it stands alone.
// Fields are ordered to minimize memory padding.
type EventLog struct {
	counter *uint64
	entries []EventEntry
	seqs    []uint64
	own     uint64
}

// Append adds an entry to the end of the log.
func (l *EventLog) Append(e EventEntry) {
	counter := l.counter
	if counter == nil {
		counter = &l.own
	}
	*counter++
	l.entries = append(l.entries, e)
	l.seqs = append(l.seqs, *counter)
}

func (l *EventLog) shareCounter(counter *uint64) {
	l.counter = counter
}

// records tags every entry with the owner's identity and title.
func (l *EventLog) records(id, title string) []LogRecord {
	out := make([]LogRecord, 0, len(l.entries))
	for i, e := range l.entries {
		out = append(out, LogRecord{ID: id, Time: e.Time, Label: e.Label, Title: title, Seq: l.seqs[i]})
	}
	return out
}

// Len returns the number of entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in append order.
func (l *EventLog) Entries() []EventEntry {
	return slices.Clone(l.entries)
}

// Last returns the most recently appended entry.
func (l *EventLog) Last() (EventEntry, bool) {
	if len(l.entries) == 0 {
		return EventEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// LogRecord is one row of a detailed log: an event together with the
// identity and title of the node that owns it.
type LogRecord struct {
	Time  time.Time
	ID    string
	Label EventLabel
	Title string
	Seq   uint64 // append position within the record
}

// StatusEvent is the event an action item propagates to the task root.
type StatusEvent struct {
	Time  time.Time
	Label EventLabel
	Title string
}

// StatusSink receives status events from action items.
type StatusSink interface {
	Notify(ev StatusEvent)
}

// SortLogNewestFirst orders records by time, newest first, and equal times
// by sequence number, highest first. Records equal in both end up in
// reverse of their input order. Replaying the result from the back
// restores the append order.
func SortLogNewestFirst(records []LogRecord) []LogRecord {
	out := slices.Clone(records)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b LogRecord) int {
		if c := b.Time.Compare(a.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.Seq, a.Seq)
	})
	return out
}

// TimestampLayout is the persisted timestamp format.
const TimestampLayout = time.RFC3339Nano

// FormatTimestamp formats t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a timestamp written by FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
