package passes

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsing(t *testing.T) {
	env := testEnv(t)
	suite := referenceSuite(env.Config, "src", "test")
	writeFile(t, filepath.Join(suite, "ui", "good.rs"), "fn main() {}\n")
	writeFile(t, filepath.Join(suite, "ui", "bad.rs"), "fn main( // unparsable\n")

	files, cases := adaptAll(t, Parsing{}, env)
	require.Len(t, files, 2)

	// Find sorts, so bad.rs comes first
	bad, good := cases[0], cases[1]
	assert.Equal(t, uint8(1), bad.ExitCode)
	assert.Equal(t, uint8(0), good.ExitCode)

	assert.Equal(t, env.Config.TargetCompiler, good.Binary)
	assert.Contains(t, good.Args, "-fsyntax-only")
	assert.Equal(t, files[1].Path, good.Args[len(good.Args)-1])
	assert.Equal(t, 1, good.Timeout)
	assert.Contains(t, good.Name, "src/test/ui/good.rs")
}

func TestParsing_ReferenceTimeoutSkips(t *testing.T) {
	env := testEnv(t)
	env.Config.ValidateTimeout = 200 * time.Millisecond
	writeFile(t, filepath.Join(referenceSuite(env.Config, "src", "test"), "slow.rs"), "// hang\n")

	_, cases := adaptAll(t, Parsing{}, env)
	require.Len(t, cases, 1)
	assert.True(t, cases[0].IsSkip())
}

func TestParsing_Filter(t *testing.T) {
	env := testEnv(t)
	env.Config.Flags.Filter = "issue-*"
	suite := referenceSuite(env.Config, "src", "test")
	writeFile(t, filepath.Join(suite, "issue-1.rs"), "fn main() {}\n")
	writeFile(t, filepath.Join(suite, "other.rs"), "fn main() {}\n")

	files, _ := adaptAll(t, Parsing{}, env)
	require.Len(t, files, 1)
	assert.Equal(t, "src/test/issue-1.rs", files[0].Identity)
	assert.NoFileExists(t, filepath.Join(env.Config.StagingDir("gccrs-parsing"), "src", "test", "other.rs"))
}
