package usecase

import (
	"context"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase/shared"
)

// RenderRecordInput contains the parameters for rendering a record.
type RenderRecordInput struct {
	Path string // Record document (required)
}

// RenderRecordOutput contains the rendered narrative.
type RenderRecordOutput struct {
	Text string
}

// RenderRecord is the use case for regenerating narrative text from a record.
type RenderRecord struct {
	records  domain.RecordRepository
	renderer domain.RecordRenderer
}

// NewRenderRecord creates a new RenderRecord use case.
func NewRenderRecord(records domain.RecordRepository, renderer domain.RecordRenderer) *RenderRecord {
	return &RenderRecord{
		records:  records,
		renderer: renderer,
	}
}

// Execute loads the record and renders it.
func (uc *RenderRecord) Execute(_ context.Context, in RenderRecordInput) (*RenderRecordOutput, error) {
	rec, err := shared.LoadRecord(uc.records, in.Path)
	if err != nil {
		return nil, err
	}
	return &RenderRecordOutput{Text: uc.renderer.Render(rec)}, nil
}
