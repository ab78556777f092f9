package commands

import (
	"os"
	"strings"

	"tsa/internal/cli"
	"tsa/internal/config"
	"tsa/internal/passes"
	"tsa/internal/process"
	"tsa/internal/storage"
	"tsa/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Generate *GenerateCommand
	List     *ListCommand
	View     *ViewCommand
	Passes   *PassesCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	runner := process.NewRunner()
	fileStorage := storage.NewFileStorage(cfg)
	formatter := ui.NewFormatter(os.Stdout)
	caseViewer := ui.NewCaseViewer()

	return &Commands{
		Generate: NewGenerateCommand(cfg, runner, fileStorage, formatter),
		List:     NewListCommand(cfg, fileStorage, formatter),
		View:     NewViewCommand(cfg, fileStorage, caseViewer),
		Passes:   NewPassesCommand(cfg, os.Stdout),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Generate command
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a test suite for gccrs",
		Long:  "Run the selected passes over the rust and gccrs test corpora and write the resulting test cases to one YAML artifact",
		Args:  cobra.NoArgs,
		RunE:  c.Generate.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Update config with flags after parsing; an unset --jobs leaves TSA_JOBS in effect
			if !cmd.Flags().Changed("jobs") {
				flags.Jobs = 0
			}
			if err := cfg.Apply(flags.ToConfigFlags()); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if _, err := passes.ParseKinds(cfg.Flags.Passes); err != nil {
				return err
			}
			c.Generate.SetProgress(!flags.NoProgress)
			return nil
		},
	}
	generateCmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "o", "", "Directory where test files are staged")
	generateCmd.Flags().StringVarP(&flags.Artifact, "yaml", "y", "", "Path of the YAML test suite to write")
	generateCmd.Flags().StringVarP(&flags.Rustc, "rustc", "r", "", "rustc binary to use (default \"rustc\")")
	generateCmd.Flags().StringVarP(&flags.Gccrs, "gccrs", "g", "", "gccrs binary to use (default \"gccrs\")")
	generateCmd.Flags().StringVar(&flags.RustPath, "rust-path", "", "Path to a rust-lang/rust checkout")
	generateCmd.Flags().StringVar(&flags.GccrsPath, "gccrs-path", "", "Path to a gccrs checkout")
	generateCmd.Flags().StringSliceVarP(&flags.Passes, "pass", "p", nil, "Pass to run, can be repeated ("+passNames()+")")
	generateCmd.Flags().IntVarP(&flags.Jobs, "jobs", "j", config.DefaultJobs, "Number of files adapted in parallel")
	generateCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Abort on the first file that cannot be adapted")
	generateCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only keep test files matching the pattern (supports globs, e.g. 'ui/**/issue-*.rs')")
	generateCmd.Flags().StringSliceVar(&flags.LibcoreVersions, "libcore-version", nil, "rust tag whose core library is compiled, can be repeated (default 1.49.0,1.29.0)")
	generateCmd.Flags().DurationVar(&flags.RunTimeout, "run-timeout", config.DefaultRunTimeout, "Time limit for building and running programs")
	generateCmd.Flags().StringVar(&flags.Summary, "summary", "", "Write a JSON summary of the run to this path")
	generateCmd.Flags().StringVar(&flags.EnvFile, "env-file", config.DefaultEnvFile, "File to load environment variables from")
	generateCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Do not show progress bars")
	rootCmd.AddCommand(generateCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list [artifact]",
		Short: "List the test cases of an artifact",
		Long:  "Read a generated YAML artifact and print its test cases grouped by binary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.List.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			c.List.SetShowArgs(flags.ShowArgs)
			return cfg.Apply(flags.ToConfigFlags())
		},
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only list test cases whose name contains the pattern")
	listCmd.Flags().BoolVarP(&flags.ShowArgs, "args", "a", false, "Show the arguments of every test case")
	listCmd.Flags().StringVarP(&flags.Artifact, "yaml", "y", "", "Artifact to read when none is given as argument")
	rootCmd.AddCommand(listCmd)

	// View command
	viewCmd := &cobra.Command{
		Use:   "view [artifact]",
		Short: "Browse the test cases of an artifact interactively",
		Long:  "Display the test cases of a generated YAML artifact in an interactive viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  c.View.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Apply(flags.ToConfigFlags())
		},
	}
	viewCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only show test cases whose name contains the pattern")
	viewCmd.Flags().StringVarP(&flags.Artifact, "yaml", "y", "", "Artifact to read when none is given as argument")
	rootCmd.AddCommand(viewCmd)

	// Passes command
	passesCmd := &cobra.Command{
		Use:   "passes",
		Short: "List the available passes",
		Long:  "Print every pass name and the concrete instances it expands to",
		Args:  cobra.NoArgs,
		RunE:  c.Passes.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Apply(flags.ToConfigFlags())
		},
	}
	passesCmd.Flags().StringSliceVar(&flags.LibcoreVersions, "libcore-version", nil, "rust tag whose core library is compiled, can be repeated")
	rootCmd.AddCommand(passesCmd)
}

func passNames() string {
	return strings.Join(passes.Names(), ", ")
}
