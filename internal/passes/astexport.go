package passes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tsa/internal/compiler"
	"tsa/internal/discovery"
	"tsa/internal/domain"
	"tsa/internal/process"
)

const (
	// astDumpFile is where gccrs writes the pretty-printed AST, in its working directory
	astDumpFile = "gccrs.ast-pretty.dump"
	// prettyExtension replaces .rs on the relocated dump
	prettyExtension = ".pretty-rs"
)

// RoundTripMode selects what is asserted about the pretty-printed program
type RoundTripMode int

const (
	// RoundTripCompile asserts the pretty-printed form still compiles
	RoundTripCompile RoundTripMode = iota
	// RoundTripRun asserts the pretty-printed program exits like the original
	RoundTripRun
)

func (m RoundTripMode) String() string {
	if m == RoundTripRun {
		return "run"
	}
	return "compile"
}

// AstRoundTrip feeds gccrs' AST pretty-printer output back into gccrs
type AstRoundTrip struct {
	Mode RoundTripMode
}

func (a AstRoundTrip) Name() string { return AstExport.String() + "-" + a.Mode.String() }

// FetchMode is sequential: every dump is written to the same file
func (AstRoundTrip) FetchMode() FetchMode { return FetchSequential }

// Fetch dumps the AST of every gccrs test file. The original lands in the
// staging tree under its identity, next to its dump with the .pretty-rs extension.
// Files gccrs produced no dump for are dropped.
func (a AstRoundTrip) Fetch(ctx context.Context, env *Env) ([]domain.TestFile, error) {
	cfg := env.Config
	dir, err := filepath.Abs(cfg.StagingDir(a.Name()))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", discovery.ErrMaterialize, err)
	}

	planned, err := env.Collector.Plan(targetSuite(cfg), dir, cfg.TargetRepo)
	if err != nil {
		return nil, err
	}
	planned, err = env.Filter.FilterByPattern(planned, cfg.Flags.Filter)
	if err != nil {
		return nil, err
	}

	dump := filepath.Join(dir, astDumpFile)
	var files []domain.TestFile

	for _, file := range planned {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src, err := filepath.Abs(filepath.Join(cfg.TargetRepo, filepath.FromSlash(file.Identity)))
		if err != nil {
			return nil, err
		}

		if err := os.Remove(dump); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale AST dump: %w", err)
		}

		inv := env.Compiler(compiler.Target).Dir(dir).Arg(src, "-frust-dump-ast-pretty")
		result, err := env.Run(ctx, inv, cfg.ValidateTimeout)
		if err != nil {
			return nil, err
		}

		// A dump left by a killed or failing run may be truncated
		if !result.Success() {
			if err := os.Remove(dump); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("remove partial AST dump: %w", err)
			}
			continue
		}

		if _, err := os.Stat(dump); err != nil {
			continue
		}

		if err := discovery.CopyFile(src, file.Path); err != nil {
			return nil, err
		}
		if err := os.Rename(dump, prettyPath(file.Path)); err != nil {
			return nil, fmt.Errorf("%w: relocate AST dump of %s: %v", discovery.ErrMaterialize, file.Identity, err)
		}

		files = append(files, file)
	}

	return files, nil
}

func (a AstRoundTrip) Adapt(ctx context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	if a.Mode == RoundTripRun {
		return a.adaptRun(ctx, env, file)
	}
	return a.adaptCompile(ctx, env, file)
}

func (AstRoundTrip) adaptCompile(ctx context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	dir, cleanup, err := scratchDir()
	if err != nil {
		return domain.TestCase{}, err
	}
	defer cleanup()

	original, err := env.Run(ctx, env.Compiler(compiler.Target).Dir(dir).Arg(file.Path), env.Config.ValidateTimeout)
	if err != nil {
		return domain.TestCase{}, err
	}
	// An original gccrs rejects says nothing about the printer
	if !original.Success() {
		return domain.Skip(), nil
	}

	pretty := prettyPath(file.Path)
	return newTest(
		fmt.Sprintf("Compiling pretty-printed `%s`", pretty),
		env.Compiler(compiler.Target).Arg(pretty),
		0,
	)
}

// adaptRun builds and runs both programs. Binaries stay next to the staged
// files since the emitted test runs the pretty-printed one.
func (AstRoundTrip) adaptRun(ctx context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	timeout := env.Config.RunTimeout
	pretty := prettyPath(file.Path)
	base := strings.TrimSuffix(file.Path, filepath.Ext(file.Path))
	originalBin, prettyBin := base+".original-bin", base+".pretty-bin"

	for _, build := range []struct{ src, out string }{
		{file.Path, originalBin},
		{pretty, prettyBin},
	} {
		inv := env.Compiler(compiler.Target).Arg(build.src, "-o", build.out)
		result, err := env.Run(ctx, inv, timeout)
		if err != nil {
			return domain.TestCase{}, err
		}
		if !result.Success() {
			return domain.Skip(), nil
		}
	}

	original, err := env.Runner.Run(ctx, process.Spec{Binary: originalBin}, timeout)
	if err != nil {
		return domain.TestCase{}, err
	}
	printed, err := env.Runner.Run(ctx, process.Spec{Binary: prettyBin}, timeout)
	if err != nil {
		return domain.TestCase{}, err
	}
	if original.TimedOut || printed.TimedOut {
		return domain.Skip(), nil
	}

	tc, err := domain.NewTest(fmt.Sprintf("Running pretty-printed `%s`", pretty), prettyBin, printed.ExitCode)
	if err != nil {
		return domain.TestCase{}, fmt.Errorf("%s: %w", pretty, err)
	}
	return tc.WithTimeout(max(1, int(timeout.Seconds()))), nil
}

// prettyPath returns where the dump of a staged source file lives
func prettyPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + prettyExtension
}
