package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"tsa/internal/config"
	"tsa/internal/passes"
)

// PassesCommand handles the passes command
type PassesCommand struct {
	config *config.Config
	out    io.Writer
}

// NewPassesCommand creates a new PassesCommand
func NewPassesCommand(cfg *config.Config, out io.Writer) *PassesCommand {
	return &PassesCommand{config: cfg, out: out}
}

// Execute prints every pass and the instances it expands to
func (pc *PassesCommand) Execute(cmd *cobra.Command, args []string) error {
	cyan := color.New(color.FgCyan)
	for _, kind := range passes.Kinds() {
		instances := passes.Dispatch(kind, pc.config)
		cyan.Fprintf(pc.out, "%s", kind)
		fmt.Fprintf(pc.out, " (%d)\n", len(instances))
		if len(instances) > 1 {
			for i, p := range instances {
				branch := "├── "
				if i == len(instances)-1 {
					branch = "└── "
				}
				fmt.Fprintf(pc.out, "%s%s\n", branch, p.Name())
			}
		}
	}
	return nil
}
