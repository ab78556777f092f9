package passes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTargetSuite(t *testing.T, env *Env, files map[string]string) {
	t.Helper()
	for name, content := range files {
		writeFile(t, filepath.Join(targetSuite(env.Config), name), content)
	}
}

func TestAstRoundTrip_Fetch(t *testing.T) {
	env := testEnv(t)
	writeTargetSuite(t, env, map[string]string{
		"compile/a.rs": "fn a() {}\n",
		"compile/b.rs": "fn b() {} // nodump\n",
	})

	p := AstRoundTrip{Mode: RoundTripCompile}
	files, err := p.Fetch(context.Background(), env)
	require.NoError(t, err)

	require.Len(t, files, 1, "files without a dump are dropped")
	assert.Equal(t, "gcc/testsuite/rust/compile/a.rs", files[0].Identity)
	assert.FileExists(t, files[0].Path)

	pretty, err := os.ReadFile(prettyPath(files[0].Path))
	require.NoError(t, err)
	assert.Equal(t, "fn a() {}\n", string(pretty))

	assert.NoFileExists(t, filepath.Join(env.Config.StagingDir(p.Name()), astDumpFile))
}

func TestAstRoundTrip_FetchDropsTimedOutDump(t *testing.T) {
	env := testEnv(t)
	env.Config.ValidateTimeout = 300 * time.Millisecond
	writeTargetSuite(t, env, map[string]string{
		"compile/a.rs":       "fn a() {}\n",
		"compile/partial.rs": "fn partial() {}\n",
	})

	p := AstRoundTrip{Mode: RoundTripCompile}
	files, err := p.Fetch(context.Background(), env)
	require.NoError(t, err)

	require.Len(t, files, 1, "a dump written by a timed-out run is not kept")
	assert.Equal(t, "gcc/testsuite/rust/compile/a.rs", files[0].Identity)

	dir := env.Config.StagingDir(p.Name())
	assert.NoFileExists(t, filepath.Join(dir, astDumpFile))
	assert.NoFileExists(t, prettyPath(filepath.Join(dir, "gcc/testsuite/rust/compile/partial.rs")))
}

func TestAstRoundTrip_Compile(t *testing.T) {
	env := testEnv(t)
	writeTargetSuite(t, env, map[string]string{
		"a.rs": "fn a() {}\n",
		"b.rs": "fn b() { // broken\n",
	})

	files, cases := adaptAll(t, AstRoundTrip{Mode: RoundTripCompile}, env)
	require.Len(t, cases, 2)

	assert.False(t, cases[0].IsSkip())
	assert.Equal(t, uint8(0), cases[0].ExitCode)
	assert.Equal(t, prettyPath(files[0].Path), cases[0].Args[len(cases[0].Args)-1])

	assert.True(t, cases[1].IsSkip(), "originals gccrs rejects are abstained")
}

func TestAstRoundTrip_Run(t *testing.T) {
	env := testEnv(t)
	writeTargetSuite(t, env, map[string]string{
		"exits.rs": "fn main() {}\n",
	})

	_, cases := adaptAll(t, AstRoundTrip{Mode: RoundTripRun}, env)
	require.Len(t, cases, 1)

	tc := cases[0]
	require.False(t, tc.IsSkip())
	assert.Equal(t, uint8(3), tc.ExitCode)
	assert.FileExists(t, tc.Binary)
	assert.Empty(t, tc.Args)
}

func TestAstRoundTrip_RunNeverTerminatingSkips(t *testing.T) {
	env := testEnv(t)
	writeTargetSuite(t, env, map[string]string{
		"spin.rs": "fn main() { loop {} }\n",
	})

	_, cases := adaptAll(t, AstRoundTrip{Mode: RoundTripRun}, env)
	require.Len(t, cases, 1)
	assert.True(t, cases[0].IsSkip())
}

func TestAstRoundTrip_RunBuildFailureSkips(t *testing.T) {
	env := testEnv(t)
	writeTargetSuite(t, env, map[string]string{
		"broken.rs": "fn main() { // broken\n",
	})

	_, cases := adaptAll(t, AstRoundTrip{Mode: RoundTripRun}, env)
	require.Len(t, cases, 1)
	assert.True(t, cases[0].IsSkip())
}
