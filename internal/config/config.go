package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	// ErrMissingRepository is returned when a required repository checkout does not exist
	ErrMissingRepository = errors.New("repository path does not exist")
	// ErrMissingSetting is returned when a required setting was not provided
	ErrMissingSetting = errors.New("required setting missing")
	// ErrNoPasses is returned when no pass was selected
	ErrNoPasses = errors.New("no pass selected")
)

// Config holds all configuration for a generation run
type Config struct {
	// Output settings
	OutputDir    string
	ArtifactPath string
	SummaryPath  string

	// Compilers
	ReferenceCompiler string
	TargetCompiler    string

	// Repository checkouts
	ReferenceRepo string
	TargetRepo    string

	// Execution settings
	Jobs            int
	RunTimeout      time.Duration
	ValidateTimeout time.Duration

	// Discovery settings
	SourceExtension string
	LibcoreVersions []string

	// Command flags
	Flags Flags
}

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
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ReferenceCompiler: DefaultReferenceCompiler,
		TargetCompiler:    DefaultTargetCompiler,
		Jobs:              DefaultJobs,
		RunTimeout:        DefaultRunTimeout,
		ValidateTimeout:   DefaultValidateTimeout,
		SourceExtension:   DefaultSourceExtension,
		Flags:             Flags{Jobs: DefaultJobs, EnvFile: DefaultEnvFile},
	}
	cfg.LibcoreVersions = make([]string, len(DefaultLibcoreVersions))
	copy(cfg.LibcoreVersions, DefaultLibcoreVersions)
	return cfg
}

// Load creates a config, overlays the environment and applies flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if err := cfg.Apply(flags); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply overlays the dotenv file and the process environment, then the flags.
// Flags win over the environment, which wins over defaults.
func (c *Config) Apply(flags Flags) error {
	c.Flags = flags

	envFile := flags.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	// A missing .env file is fine, the process environment is still used
	_ = godotenv.Load(envFile)

	if err := c.applyEnv(); err != nil {
		return err
	}

	setString(&c.OutputDir, flags.OutputDir)
	setString(&c.ArtifactPath, flags.Artifact)
	setString(&c.SummaryPath, flags.Summary)
	setString(&c.ReferenceCompiler, flags.Rustc)
	setString(&c.TargetCompiler, flags.Gccrs)
	setString(&c.ReferenceRepo, flags.RustPath)
	setString(&c.TargetRepo, flags.GccrsPath)

	if flags.Jobs > 0 {
		c.Jobs = flags.Jobs
	}
	if flags.RunTimeout > 0 {
		c.RunTimeout = flags.RunTimeout
	}
	if len(flags.LibcoreVersions) > 0 {
		c.LibcoreVersions = append([]string(nil), flags.LibcoreVersions...)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.OutputDir, os.Getenv(EnvOutputDir))
	setString(&c.ArtifactPath, os.Getenv(EnvArtifact))
	setString(&c.ReferenceCompiler, os.Getenv(EnvReferenceCompiler))
	setString(&c.TargetCompiler, os.Getenv(EnvTargetCompiler))
	setString(&c.ReferenceRepo, os.Getenv(EnvReferenceRepo))
	setString(&c.TargetRepo, os.Getenv(EnvTargetRepo))

	if v := os.Getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil || jobs <= 0 {
			return fmt.Errorf("invalid %s value %q", EnvJobs, v)
		}
		c.Jobs = jobs
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks that the run can start. It must be called before any work is scheduled.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory", ErrMissingSetting)
	}
	if c.ArtifactPath == "" {
		return fmt.Errorf("%w: artifact path", ErrMissingSetting)
	}
	if len(c.Flags.Passes) == 0 {
		return ErrNoPasses
	}
	if err := requireDir("rust", c.ReferenceRepo); err != nil {
		return err
	}
	if err := requireDir("gccrs", c.TargetRepo); err != nil {
		return err
	}
	return nil
}

func requireDir(name, path string) error {
	if path == "" {
		return fmt.Errorf("%w: path to `%s` repository", ErrMissingSetting, name)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: given path to `%s`: %s", ErrMissingRepository, name, path)
	}
	return nil
}

// MissingCompilers returns a description of every configured compiler that does not resolve on PATH
func (c *Config) MissingCompilers() []string {
	var missing []string
	for _, bin := range []struct{ name, path string }{
		{"rustc", c.ReferenceCompiler},
		{"gccrs", c.TargetCompiler},
	} {
		if _, err := exec.LookPath(bin.path); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%s)", bin.name, bin.path))
		}
	}
	return missing
}

// StagingDir returns the staging directory for a pass instance
func (c *Config) StagingDir(parts ...string) string {
	return filepath.Join(append([]string{c.OutputDir}, parts...)...)
}
