package commands

import (
	"github.com/spf13/cobra"
	"tsa/internal/config"
	"tsa/internal/storage"
	"tsa/internal/ui"
)

// ViewCommand handles the view command
type ViewCommand struct {
	config  *config.Config
	storage storage.Storage
	viewer  ui.Viewer
}

// NewViewCommand creates a new ViewCommand
func NewViewCommand(cfg *config.Config, st storage.Storage, viewer ui.Viewer) *ViewCommand {
	return &ViewCommand{
		config:  cfg,
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (vc *ViewCommand) Execute(cmd *cobra.Command, args []string) error {
	cases, err := vc.storage.LoadArtifact(artifactArg(vc.config, args))
	if err != nil {
		return err
	}

	return vc.viewer.View(filterCases(cases, vc.config.Flags.Filter))
}
