package passes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"tsa/internal/compiler"
	"tsa/internal/domain"
)

// Libcore compiles the core library of one rust version up to one step
type Libcore struct {
	Version LibraryVersion
	Step    Step
}

func (l Libcore) Name() string {
	return fmt.Sprintf("%s-%s-%s", LibCore, l.Version.Tag, l.Step)
}

// FetchMode is sequential: fetching checks out a revision of the shared reference repository
func (Libcore) FetchMode() FetchMode { return FetchSequential }

// Fetch checks out the version's tag, stages its core library and restores the
// repository's previous head, whether or not staging succeeded.
func (l Libcore) Fetch(ctx context.Context, env *Env) ([]domain.TestFile, error) {
	cfg := env.Config
	root := cfg.ReferenceRepo
	staging := cfg.StagingDir(LibCore.String() + "-" + l.Version.Tag)

	err := env.Reference.WithRevision(ctx, l.Version.Tag, func() error {
		// The whole crate is needed, so the name filter does not apply here
		_, err := env.Collector.Collect(ctx, filepath.Join(root, l.Version.Subtree), staging, root, env.Jobs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch libcore %s: %w", l.Version.Tag, err)
	}

	entry := filepath.Join(staging, filepath.FromSlash(l.Version.Entry))
	if _, err := os.Stat(entry); err != nil {
		return nil, fmt.Errorf("fetch libcore %s: missing crate root: %w", l.Version.Tag, err)
	}

	return []domain.TestFile{domain.NewTestFile(entry, l.Version.Entry)}, nil
}

func (l Libcore) Adapt(_ context.Context, env *Env, file domain.TestFile) (domain.TestCase, error) {
	return newTest(
		fmt.Sprintf("Compiling libcore %s (%s step)", l.Version.Tag, l.Step),
		env.Compiler(compiler.Target).Arg(file.Path, l.Step.Flag()),
		0,
	)
}
