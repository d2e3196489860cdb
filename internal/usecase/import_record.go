package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/star/internal/domain"
)

// ImportRecordInput contains the parameters for importing a record.
// Fields are ordered to minimize memory padding.
type ImportRecordInput struct {
	Source string // Source locator (required)
	Path   string // Record document to write (required)
	Force  bool   // Overwrite an existing document
}

// ImportRecordOutput contains the result of importing a record.
type ImportRecordOutput struct {
	Record *domain.TaskRecord
	Source domain.SourceMeta
}

// ImportRecord is the use case for building a record from narrative text.
type ImportRecord struct {
	importer *domain.Importer
	records  domain.RecordRepository
	logger   domain.Logger
}

// NewImportRecord creates a new ImportRecord use case.
func NewImportRecord(importer *domain.Importer, records domain.RecordRepository, logger domain.Logger) *ImportRecord {
	return &ImportRecord{
		importer: importer,
		records:  records,
		logger:   logger,
	}
}

// Execute imports the source and saves the new record.
func (uc *ImportRecord) Execute(ctx context.Context, in ImportRecordInput) (*ImportRecordOutput, error) {
	if in.Path == "" {
		return nil, errors.New("record path is required")
	}

	if !in.Force {
		exists, err := uc.records.Exists(in.Path)
		if err != nil {
			return nil, fmt.Errorf("check record: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%s: %w", in.Path, domain.ErrRecordExists)
		}
	}

	rec, meta, err := uc.importer.Import(ctx, in.Source)
	if err != nil {
		return nil, err
	}

	save := uc.records.Create
	if in.Force {
		save = uc.records.Save
	}
	if err := save(in.Path, rec); err != nil {
		if errors.Is(err, domain.ErrRecordExists) {
			return nil, err
		}
		return nil, fmt.Errorf("save record: %w", err)
	}

	uc.logger.Info(rec.ID(), "import", fmt.Sprintf("imported %s source into %s", meta.Kind, in.Path))

	return &ImportRecordOutput{Record: rec, Source: meta}, nil
}
