package usecase

import (
	"context"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase/shared"
)

// ShowLogInput contains the parameters for showing a record's event log.
type ShowLogInput struct {
	Path  string // Record document (required)
	Limit int    // Number of newest entries to show (0 = all)
}

// ShowLogOutput contains the result of showing a record's event log.
type ShowLogOutput struct {
	Entries []domain.LogRecord // Newest first
	Total   int                // Number of entries before the limit
}

// ShowLog is the use case for viewing the merged event log.
type ShowLog struct {
	records domain.RecordRepository
}

// NewShowLog creates a new ShowLog use case.
func NewShowLog(records domain.RecordRepository) *ShowLog {
	return &ShowLog{
		records: records,
	}
}

// Execute returns the record's own and action events, newest first.
func (uc *ShowLog) Execute(_ context.Context, in ShowLogInput) (*ShowLogOutput, error) {
	rec, err := shared.LoadRecord(uc.records, in.Path)
	if err != nil {
		return nil, err
	}

	entries := rec.Timeline()
	total := len(entries)
	if in.Limit > 0 && len(entries) > in.Limit {
		entries = entries[:in.Limit]
	}
	return &ShowLogOutput{Entries: entries, Total: total}, nil
}
