package passes

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tsa/internal/compiler"
	"tsa/internal/domain"
)

// rustcErrorMarker is the UI test annotation announcing an expected diagnostic
const rustcErrorMarker = "ERROR"

// SuccessVariant selects the prelude injected before a rustc test case
type SuccessVariant int

const (
	SuccessFull SuccessVariant = iota
	SuccessNoStd
	SuccessNoCore
)

func (v SuccessVariant) String() string {
	switch v {
	case SuccessNoStd:
		return "no-std"
	case SuccessNoCore:
		return "no-core"
	default:
		return ""
	}
}

func (v SuccessVariant) kind() Kind {
	switch v {
	case SuccessNoStd:
		return GccrsRustcSuccessNoStd
	case SuccessNoCore:
		return GccrsRustcSuccessNoCore
	default:
		return GccrsRustcSuccess
	}
}

func (v SuccessVariant) prelude() string {
	switch v {
	case SuccessNoStd:
		return "#![no_std]\n"
	case SuccessNoCore:
		return "#![feature(no_core)]\n#![no_core]\n"
	default:
		return ""
	}
}

// Successes runs gccrs on the rustc test cases that are expected to compile
type Successes struct {
	Variant SuccessVariant
}

func (s Successes) Name() string { return s.Variant.kind().String() }

func (Successes) FetchMode() FetchMode { return FetchParallel }

// Fetch stages into a directory per variant, since the files get rewritten
func (s Successes) Fetch(ctx context.Context, env *Env) ([]domain.TestFile, error) {
	cfg := env.Config
	return env.collect(ctx, referenceSuite(cfg, "src", "test", "ui"), cfg.StagingDir(s.Name()), cfg.ReferenceRepo)
}

func (s Successes) Adapt(ctx context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return domain.TestCase{}, fmt.Errorf("read %s: %w", file.Path, err)
	}

	// Only successes are of interest
	if strings.Contains(string(content), rustcErrorMarker) {
		return domain.Skip(), nil
	}

	if s.Variant != SuccessFull {
		if err := os.WriteFile(file.Path, append([]byte(s.Variant.prelude()), content...), 0644); err != nil {
			return domain.TestCase{}, fmt.Errorf("rewrite %s: %w", file.Path, err)
		}

		valid, err := s.validate(ctx, env, file)
		if err != nil {
			return domain.TestCase{}, err
		}
		if !valid {
			return domain.Skip(), nil
		}
	}

	name := fmt.Sprintf("Compile success `%s`", file.Path)
	if s.Variant != SuccessFull {
		name = fmt.Sprintf("Compile %s success `%s`", s.Variant, file.Path)
	}

	tc, err := newTest(name, env.Compiler(compiler.Target).Arg(file.Path), 0)
	if err != nil {
		return domain.TestCase{}, err
	}
	return tc.WithTimeout(5 * 60), nil
}

// validate checks that rustc still compiles the rewritten file within the validation timeout
func (s Successes) validate(ctx context.Context, env *Env, file domain.TestFile) (bool, error) {
	dir, cleanup, err := scratchDir()
	if err != nil {
		return false, err
	}
	defer cleanup()

	reference := env.Compiler(compiler.Reference).
		Edition(compiler.Edition2021).
		CrateName("rustc_output").
		CrateType(compiler.CrateTypeLibrary).
		Dir(dir).
		Arg(file.Path)

	result, err := env.Run(ctx, reference, env.Config.ValidateTimeout)
	if err != nil {
		return false, err
	}
	return result.Success(), nil
}
