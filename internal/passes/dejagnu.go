package passes

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"tsa/internal/compiler"
	"tsa/internal/domain"
)

const (
	// dejagnuErrorMarker is the DejaGnu directive announcing an expected diagnostic
	dejagnuErrorMarker = "dg-error"
	// mainSignature marks files whose exit status depends on a main shim gccrs lacks
	mainSignature = "fn main()"
)

// Dejagnu runs rustc on gccrs' own test suite
type Dejagnu struct{}

func (Dejagnu) Name() string { return RustcDejagnu.String() }

func (Dejagnu) FetchMode() FetchMode { return FetchParallel }

func (d Dejagnu) Fetch(ctx context.Context, env *Env) ([]domain.TestFile, error) {
	cfg := env.Config
	return env.collect(ctx, targetSuite(cfg), cfg.StagingDir(d.Name()), cfg.TargetRepo)
}

// Adapt derives the expectation from the file content without running anything
func (Dejagnu) Adapt(_ context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	// Some test cases are not valid UTF-8, so work on raw bytes
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return domain.TestCase{}, fmt.Errorf("read %s: %w", file.Path, err)
	}

	tc, err := newTest(
		fmt.Sprintf("Run rustc on `%s`", file.Path),
		// Compile everything to the same executable name to avoid leaving one binary per test behind
		env.Compiler(compiler.Reference).Arg(file.Path, "-o", "rustc_out"),
		DejagnuExpectation(content),
	)
	if err != nil {
		return domain.TestCase{}, err
	}
	return tc.WithTimeout(5), nil
}

// DejagnuExpectation is the heuristic oracle for gccrs test files: 1 when the file
// expects a diagnostic, 0 otherwise, and 255 whenever it declares `fn main()`.
// TODO: drop the 255 override once gccrs has a main shim; until then a file with
// both a dg-error and `fn main() -> i32` could otherwise pass by accident.
func DejagnuExpectation(content []byte) int {
	if bytes.Contains(content, []byte(mainSignature)) {
		return 255
	}
	if bytes.Contains(content, []byte(dejagnuErrorMarker)) {
		return 1
	}
	return 0
}
