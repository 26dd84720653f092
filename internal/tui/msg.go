package tui

import "github.com/runoshun/promptdesk/internal/workflow"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgRequestDone is sent when a backend request issued by the controller
// has finished, successfully or not.
type MsgRequestDone struct {
	Result workflow.Result
}

func (MsgRequestDone) sealed() {}
