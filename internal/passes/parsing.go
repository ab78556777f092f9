package passes

import (
	"context"
	"fmt"

	"tsa/internal/compiler"
	"tsa/internal/domain"
)

// Parsing checks that gccrs accepts exactly the files rustc can parse
type Parsing struct{}

func (Parsing) Name() string { return GccrsParsing.String() }

func (Parsing) FetchMode() FetchMode { return FetchParallel }

func (p Parsing) Fetch(ctx context.Context, env *Env) ([]domain.TestFile, error) {
	cfg := env.Config
	return env.collect(ctx, referenceSuite(cfg, "src", "test"), cfg.StagingDir(p.Name()), cfg.ReferenceRepo)
}

// Adapt uses rustc's parse-only status as ground truth for gccrs -fsyntax-only
func (Parsing) Adapt(ctx context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	reference := env.Compiler(compiler.Reference).
		Edition(compiler.Edition2021).
		Arg("-Z", "parse-only", file.Path)

	result, err := env.Run(ctx, reference, env.Config.ValidateTimeout)
	if err != nil {
		return domain.TestCase{}, err
	}
	if result.TimedOut {
		return domain.Skip(), nil
	}

	status := 0
	if !result.Success() {
		status = 1
	}

	tc, err := newTest(
		fmt.Sprintf("Parse `%s`", file.Path),
		env.Compiler(compiler.Target).Arg("-fsyntax-only", file.Path),
		status,
	)
	if err != nil {
		return domain.TestCase{}, err
	}
	return tc.WithTimeout(1), nil
}
