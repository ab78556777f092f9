package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsa/internal/config"
	"tsa/internal/domain"
)

func newTestStorage(t *testing.T) (*FileStorage, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.OutputDir = dir
	cfg.ArtifactPath = filepath.Join(dir, "nested", "testsuite.yml")
	return NewFileStorage(cfg), cfg
}

func TestFileStorage_ArtifactRoundTrip(t *testing.T) {
	st, cfg := newTestStorage(t)

	tc, err := domain.NewTest("Compile Blake3 reference implementation (original)", "gccrs", 0)
	require.NoError(t, err)
	tc = tc.WithArgs("out/blake3/blake3-original.rs")

	require.NoError(t, st.SaveArtifact(tc.Render()))

	data, err := os.ReadFile(cfg.ArtifactPath)
	require.NoError(t, err)
	assert.Equal(t, domain.ArtifactHeader+tc.Render(), string(data))

	cases, err := st.LoadArtifact(cfg.ArtifactPath)
	require.NoError(t, err)
	assert.Equal(t, []domain.TestCase{tc}, cases)

	entries, err := os.ReadDir(filepath.Dir(cfg.ArtifactPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestFileStorage_EmptyArtifact(t *testing.T) {
	st, cfg := newTestStorage(t)
	require.NoError(t, st.SaveArtifact(""))

	data, err := os.ReadFile(cfg.ArtifactPath)
	require.NoError(t, err)
	assert.Equal(t, "tests:\n", string(data))
}

func TestFileStorage_LoadMissingArtifact(t *testing.T) {
	st, _ := newTestStorage(t)
	_, err := st.LoadArtifact(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStorage_Summary(t *testing.T) {
	st, cfg := newTestStorage(t)

	summary := &domain.RunSummary{}
	summary.Add(domain.InstanceSummary{Pass: "blake3", Instance: "blake3-original", Files: 1, Tests: 1})
	summary.Add(domain.InstanceSummary{Pass: "libcore", Instance: "libcore-1.49.0-end", Files: 1, Errors: 1})

	// Disabled without a path
	require.NoError(t, st.SaveSummary(summary))

	cfg.SummaryPath = filepath.Join(cfg.OutputDir, "summary.json")
	require.NoError(t, st.SaveSummary(summary))

	loaded, err := LoadSummary(cfg.SummaryPath)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Meta.TotalFiles)
	assert.Equal(t, 1, loaded.Meta.TotalErrors)
	assert.Len(t, loaded.Instances, 2)
	assert.Equal(t, "libcore-1.49.0-end", loaded.Instances[1].Instance)
}
