package domain

import (
	"context"
	"time"
)

// IDGenerator produces node identities.
type IDGenerator interface {
	// NewID returns an identity unique within the process.
	NewID() string
}

// SourceMeta describes where imported text came from.
type SourceMeta struct {
	Locator string // Locator as given
	Kind    string // "inline", "file" or "git"
	Path    string // Resolved path (empty for inline text)
	Rev     string // Resolved revision (git only)
}

// SourceLoader resolves a locator to text.
type SourceLoader interface {
	// Read returns the text behind the locator.
	Read(ctx context.Context, locator string) (string, SourceMeta, error)
}

// HeadingSplitter splits heading-delimited text into sections.
type HeadingSplitter interface {
	// Split returns normalized section label -> raw body. Text before the
	// first heading is discarded.
	Split(text string) map[string]string
}

// IndentParser turns indented lines into an outline.
type IndentParser interface {
	// Parse builds the outline. With normalize set, blank lines are
	// skipped and indentation is measured from the shallowest line.
	Parse(text string, normalize bool) (Outline, error)
}

// Fields is the projection of a STAR document onto its four sections.
type Fields struct {
	Situation string
	Task      string
	Action    Outline
	Result    Outline
}

// KeyProjection maps a parsed field map, or a structured document, onto Fields.
type KeyProjection interface {
	// Project accepts a map[string]any keyed by section name or a string
	// holding a structured document.
	Project(obj any) (Fields, error)
}

// RecordCodec converts records to and from the persisted document.
type RecordCodec interface {
	Marshal(rec *TaskRecord) ([]byte, error)
	Unmarshal(data []byte) (*TaskRecord, error)
}

// RecordRenderer writes a record back as narrative text.
type RecordRenderer interface {
	Render(rec *TaskRecord) string
}

// RecordRepository persists one record per document.
type RecordRepository interface {
	// Load reads the record at path. Returns ErrRecordNotFound if missing.
	Load(path string) (*TaskRecord, error)

	// Save writes the record to path.
	Save(path string, rec *TaskRecord) error

	// Create writes a new record to path under an exclusive lock.
	// Returns ErrRecordExists if a document is already there.
	Create(path string, rec *TaskRecord) error

	// Update loads, mutates and saves the record under an exclusive lock.
	Update(path string, fn func(rec *TaskRecord) error) (*TaskRecord, error)

	// Exists reports whether a record document exists at path.
	Exists(path string) (bool, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (local + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// Logger writes operational logs. recordID may be empty for global entries.
type Logger interface {
	Info(recordID, category, msg string)
	Debug(recordID, category, msg string)
	Warn(recordID, category, msg string)
	Error(recordID, category, msg string)
}

// NopLogger discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(_, _, _ string)  {}
func (NopLogger) Debug(_, _, _ string) {}
func (NopLogger) Warn(_, _, _ string)  {}
func (NopLogger) Error(_, _, _ string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
