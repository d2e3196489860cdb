package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/star/internal/domain"
	"github.com/runoshun/star/internal/usecase/shared"
)

// UpdateStatusInput contains the parameters for recording a status event.
type UpdateStatusInput struct {
	Path  string            // Record document (required)
	Ref   string            // Record, action path or action id (empty = record)
	Event domain.EventLabel // Event to record (required)
}

// UpdateStatusOutput contains the result of recording a status event.
type UpdateStatusOutput struct {
	Record *domain.TaskRecord
	Entry  domain.EventEntry // The recorded entry
	Title  string            // Title of the action item (empty for the record)
}

// UpdateStatus is the use case for starting, completing and stopping work.
type UpdateStatus struct {
	records domain.RecordRepository
	logger  domain.Logger
}

// NewUpdateStatus creates a new UpdateStatus use case.
func NewUpdateStatus(records domain.RecordRepository, logger domain.Logger) *UpdateStatus {
	return &UpdateStatus{
		records: records,
		logger:  logger,
	}
}

// Execute records the event on the referenced node and saves the record.
func (uc *UpdateStatus) Execute(_ context.Context, in UpdateStatusInput) (*UpdateStatusOutput, error) {
	if !in.Event.IsValid() {
		return nil, fmt.Errorf("%q: %w", in.Event, domain.ErrInvalidEventLabel)
	}

	out := &UpdateStatusOutput{}
	rec, err := uc.records.Update(in.Path, func(rec *domain.TaskRecord) error {
		target, title, err := shared.ResolveTarget(rec, in.Ref)
		if err != nil {
			return err
		}
		out.Entry = target.Record(in.Event)
		out.Title = title
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	out.Record = rec

	msg := string(in.Event)
	if out.Title != "" {
		msg += " " + out.Title
	}
	uc.logger.Info(rec.ID(), "status", msg)

	return out, nil
}
