// Package nest wires the checklist engine to persistence and configuration
// for the CLI and the TUI.
package nest

import (
	"github.com/colonyops/nest/internal/core/config"
	"github.com/colonyops/nest/internal/data/db"
)

// App is the central entry point for all nest operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Checklists *ChecklistService

	Config *config.Config
	DB     *db.DB
}

// NewApp constructs an App from explicit dependencies.
func NewApp(checklists *ChecklistService, cfg *config.Config, database *db.DB) *App {
	return &App{
		Checklists: checklists,
		Config:     cfg,
		DB:         database,
	}
}
