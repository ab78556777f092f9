package config

import "time"

const (
	// DefaultJobs is the default size of the adapt worker pool
	DefaultJobs = 1
	// DefaultReferenceCompiler is the default reference compiler binary
	DefaultReferenceCompiler = "rustc"
	// DefaultTargetCompiler is the default target compiler binary
	DefaultTargetCompiler = "gccrs"
	// DefaultSourceExtension is the extension of the files collected from the test suites
	DefaultSourceExtension = ".rs"
	// DefaultEnvFile is the dotenv file read before flags are applied
	DefaultEnvFile = ".env"
	// DefaultRunTimeout bounds building and running a program in the AST round-trip pass
	DefaultRunTimeout = 10 * time.Second
	// DefaultValidateTimeout bounds the reference compiler pre-validation of a rewritten file
	DefaultValidateTimeout = 30 * time.Second
)

// DefaultLibcoreVersions are the core library versions compiled by the libcore pass
var DefaultLibcoreVersions = []string{
	"1.49.0",
	"1.29.0",
}

// Environment variables consulted for settings left unset on the command line
const (
	EnvOutputDir         = "TSA_OUTPUT_DIR"
	EnvArtifact          = "TSA_YAML"
	EnvReferenceCompiler = "TSA_RUSTC"
	EnvTargetCompiler    = "TSA_GCCRS"
	EnvReferenceRepo     = "TSA_RUST_PATH"
	EnvTargetRepo        = "TSA_GCCRS_PATH"
	EnvJobs              = "TSA_JOBS"
)
