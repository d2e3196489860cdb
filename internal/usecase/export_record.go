package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase/shared"
)

// ExportRecordInput contains the parameters for exporting a record.
type ExportRecordInput struct {
	Path string // Record document (required)
}

// ExportRecordOutput contains the exported document.
type ExportRecordOutput struct {
	Data []byte
}

// ExportRecord is the use case for writing a record's persisted document.
type ExportRecord struct {
	records domain.RecordRepository
	codec   domain.RecordCodec
}

// NewExportRecord creates a new ExportRecord use case.
func NewExportRecord(records domain.RecordRepository, codec domain.RecordCodec) *ExportRecord {
	return &ExportRecord{
		records: records,
		codec:   codec,
	}
}

// Execute loads the record and encodes it again.
func (uc *ExportRecord) Execute(_ context.Context, in ExportRecordInput) (*ExportRecordOutput, error) {
	rec, err := shared.LoadRecord(uc.records, in.Path)
	if err != nil {
		return nil, err
	}
	data, err := uc.codec.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return &ExportRecordOutput{Data: data}, nil
}
