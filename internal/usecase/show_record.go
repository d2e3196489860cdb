package usecase

import (
	"context"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase/shared"
)

// ShowRecordInput contains the parameters for showing a record.
type ShowRecordInput struct {
	Path string // Record document (required)
}

// ShowRecordOutput contains the result of showing a record.
type ShowRecordOutput struct {
	Record    *domain.TaskRecord
	Status    domain.StatusEvent // Latest propagated event
	Actions   []shared.Row       // Flattened actions tree
	Results   []shared.Row       // Flattened results tree
	HasStatus bool
}

// ShowRecord is the use case for displaying a record.
type ShowRecord struct {
	records domain.RecordRepository
}

// NewShowRecord creates a new ShowRecord use case.
func NewShowRecord(records domain.RecordRepository) *ShowRecord {
	return &ShowRecord{
		records: records,
	}
}

// Execute loads the record and flattens its trees.
func (uc *ShowRecord) Execute(_ context.Context, in ShowRecordInput) (*ShowRecordOutput, error) {
	rec, err := shared.LoadRecord(uc.records, in.Path)
	if err != nil {
		return nil, err
	}

	status, ok := rec.Status()
	return &ShowRecordOutput{
		Record:    rec,
		Status:    status,
		HasStatus: ok,
		Actions:   shared.Rows(rec.Actions()),
		Results:   shared.Rows(rec.Results()),
	}, nil
}
