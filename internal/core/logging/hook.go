package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies checklist_id and command from the event context onto
// log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if id := GetChecklistID(ctx); id != "" {
		e.Str("checklist_id", id)
	}

	if name := GetCommand(ctx); name != "" {
		e.Str("command", name)
	}
}
