package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsa/internal/config"
	"tsa/internal/domain"
	"tsa/internal/parser"
	"tsa/internal/process"
	"tsa/internal/storage"
	"tsa/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestGenerate(t *testing.T, passNames ...string) (*GenerateCommand, *config.Config) {
	t.Helper()
	root := t.TempDir()

	cfg := config.New()
	cfg.OutputDir = filepath.Join(root, "out")
	cfg.ArtifactPath = filepath.Join(root, "testsuite.yml")
	cfg.SummaryPath = filepath.Join(root, "summary.json")
	cfg.ReferenceRepo = filepath.Join(root, "rust")
	cfg.TargetRepo = filepath.Join(root, "gccrs")
	cfg.ReferenceCompiler = filepath.Join(root, "missing", "rustc")
	cfg.TargetCompiler = filepath.Join(root, "missing", "gccrs")
	cfg.Jobs = 2
	cfg.Flags.Passes = passNames

	require.NoError(t, os.MkdirAll(filepath.Join(cfg.ReferenceRepo, "src", "test"), 0755))
	require.NoError(t, os.MkdirAll(cfg.TargetRepo, 0755))

	gc := NewGenerateCommand(cfg, process.NewRunner(), storage.NewFileStorage(cfg), ui.NewFormatter(&bytes.Buffer{}))
	gc.SetProgress(false)
	return gc, cfg
}

func loadArtifact(t *testing.T, path string) []domain.TestCase {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cases, err := parser.NewArtifactParser().Parse(data)
	require.NoError(t, err)
	return cases
}

func TestGenerate_ConcatenatesInstancesInOrder(t *testing.T) {
	gc, cfg := newTestGenerate(t, "blake3")

	summary, err := gc.Generate(context.Background())
	require.NoError(t, err)

	cases := loadArtifact(t, cfg.ArtifactPath)
	require.Len(t, cases, 4)
	for i, suffix := range []string{"original", "gccrs-prelude", "rustc-no-std", "rustc-no-core"} {
		assert.Contains(t, cases[i].Name, suffix)
	}

	assert.Equal(t, 4, summary.Meta.TotalTests)
	assert.Equal(t, []string{"blake3"}, summary.Meta.Passes)
	assert.Len(t, summary.Instances, 4)
	assert.FileExists(t, cfg.SummaryPath)
}

func TestGenerate_EmptySelectionWritesHeaderOnly(t *testing.T) {
	gc, cfg := newTestGenerate(t, "gccrs-parsing")

	_, err := gc.Generate(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.ArtifactPath)
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactHeader, string(data))
}

func TestGenerate_AggregatesAdaptErrors(t *testing.T) {
	gc, cfg := newTestGenerate(t, "gccrs-parsing", "blake3")
	src := filepath.Join(cfg.ReferenceRepo, "src", "test")
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.rs"), []byte("fn main() {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.rs"), []byte("fn main() {}\n"), 0644))

	summary, err := gc.Generate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, process.ErrSpawn)
	assert.Contains(t, err.Error(), "src/test/a.rs")
	assert.Contains(t, err.Error(), "src/test/b.rs")

	// The rest of the run still made it to the artifact
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.Meta.TotalErrors)
	assert.Len(t, loadArtifact(t, cfg.ArtifactPath), 4)
}

func TestGenerate_FailFastWritesNothing(t *testing.T) {
	gc, cfg := newTestGenerate(t, "gccrs-parsing", "blake3")
	cfg.Flags.FailFast = true
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ReferenceRepo, "src", "test", "a.rs"), []byte("fn main() {}\n"), 0644))

	summary, err := gc.Generate(context.Background())
	assert.ErrorIs(t, err, process.ErrSpawn)
	assert.Nil(t, summary)
	assert.NoFileExists(t, cfg.ArtifactPath)
}

func TestGenerate_UnknownPass(t *testing.T) {
	gc, cfg := newTestGenerate(t, "blake3", "bogus")

	_, err := gc.Generate(context.Background())
	assert.Error(t, err)
	assert.NoFileExists(t, cfg.ArtifactPath)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestPassesCommand(t *testing.T) {
	cfg := config.New()
	var buf bytes.Buffer

	require.NoError(t, NewPassesCommand(cfg, &buf).Execute(nil, nil))
	out := buf.String()

	assert.Contains(t, out, "blake3 (4)")
	assert.Contains(t, out, "libcore (6)")
	assert.Contains(t, out, "└── ast-export-run")
	assert.Equal(t, 8, strings.Count(out, ")\n"))
}

func TestFilterCases(t *testing.T) {
	a, err := domain.NewTest("Parse `issue-1.rs`", "gccrs", 0)
	require.NoError(t, err)
	b, err := domain.NewTest("Parse `other.rs`", "gccrs", 0)
	require.NoError(t, err)

	assert.Equal(t, []domain.TestCase{a}, filterCases([]domain.TestCase{a, b}, "issue-"))
	assert.Len(t, filterCases([]domain.TestCase{a, b}, ""), 2)
}
