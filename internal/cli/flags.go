package cli

import (
	"time"

	"tsa/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	OutputDir       string
	Artifact        string
	Summary         string
	Rustc           string
	Gccrs           string
	RustPath        string
	GccrsPath       string
	Passes          []string
	Jobs            int
	FailFast        bool
	Filter          string
	LibcoreVersions []string
	RunTimeout      time.Duration
	EnvFile         string
	ShowArgs        bool
	NoProgress      bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		OutputDir:       f.OutputDir,
		Artifact:        f.Artifact,
		Summary:         f.Summary,
		Rustc:           f.Rustc,
		Gccrs:           f.Gccrs,
		RustPath:        f.RustPath,
		GccrsPath:       f.GccrsPath,
		Passes:          f.Passes,
		Jobs:            f.Jobs,
		FailFast:        f.FailFast,
		Filter:          f.Filter,
		LibcoreVersions: f.LibcoreVersions,
		RunTimeout:      f.RunTimeout,
		EnvFile:         f.EnvFile,
	}
}
