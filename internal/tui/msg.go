package tui

import "github.com/runoshun/star/internal/usecase"

// Msg is the sealed interface for all board messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgRecordLoaded is sent when the record has been read from its document.
type MsgRecordLoaded struct {
	Out *usecase.ShowRecordOutput
	Err error
}

func (MsgRecordLoaded) sealed() {}

// MsgStatusUpdated is sent after a status event was recorded and saved.
type MsgStatusUpdated struct {
	Out *usecase.UpdateStatusOutput
	Err error
}

func (MsgStatusUpdated) sealed() {}
