// Package logging provides component loggers and context enrichment on top
// of the global zerolog logger.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger tagged with a component identifier under "cmp".
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ForChecklist creates a component logger bound to one checklist.
func ForChecklist(name, checklistID string) zerolog.Logger {
	return log.With().Str("cmp", name).Str("checklist_id", checklistID).Logger()
}
