package passes

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tsa/internal/config"
	"tsa/internal/domain"
	"tsa/internal/process"
)

// fakeRustc exits 1 on files mentioning "unparsable" and hangs on files mentioning "hang"
const fakeRustc = `#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    -*) ;;
    *) [ -f "$arg" ] && src="$arg" ;;
  esac
done
if grep -q hang "$src"; then exec sleep 30; fi
if grep -q unparsable "$src"; then exit 1; fi
exit 0
`

// fakeGccrs dumps the AST by copying its input unless the file mentions "nodump",
// writes a truncated dump and hangs on files mentioning "partial",
// fails to compile files mentioning "broken", and builds programs that exit 3, or
// hang when the source mentions "loop".
const fakeGccrs = `#!/bin/sh
src=""; out=""; dump=0
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift ;;
    -x) shift ;;
    -frust-dump-ast-pretty) dump=1 ;;
    -*) ;;
    *) src="$1" ;;
  esac
  shift
done
if [ "$dump" = 1 ]; then
  grep -q nodump "$src" && exit 1
  if grep -q partial "$src"; then
    printf 'fn trunc' > gccrs.ast-pretty.dump
    exec sleep 30
  fi
  cp "$src" gccrs.ast-pretty.dump
  exit 0
fi
grep -q broken "$src" && exit 1
if [ -n "$out" ]; then
  if grep -q loop "$src"; then
    printf '#!/bin/sh\nexec sleep 30\n' > "$out"
  else
    printf '#!/bin/sh\nexit 3\n' > "$out"
  fi
  chmod +x "$out"
fi
exit 0
`

// testEnv builds an environment with fake compilers and empty repositories
func testEnv(t *testing.T) *Env {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}

	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0755))

	cfg := config.New()
	cfg.OutputDir = filepath.Join(root, "out")
	cfg.ReferenceRepo = filepath.Join(root, "rust")
	cfg.TargetRepo = filepath.Join(root, "gccrs")
	cfg.ReferenceCompiler = writeScript(t, bin, "rustc", fakeRustc)
	cfg.TargetCompiler = writeScript(t, bin, "gccrs", fakeGccrs)
	cfg.ValidateTimeout = 2 * time.Second
	cfg.RunTimeout = 500 * time.Millisecond

	require.NoError(t, os.MkdirAll(cfg.ReferenceRepo, 0755))
	require.NoError(t, os.MkdirAll(cfg.TargetRepo, 0755))

	return NewEnv(cfg, process.NewRunner())
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0755))
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// adaptAll fetches with the pass and adapts every fetched file
func adaptAll(t *testing.T, p Pass, env *Env) ([]domain.TestFile, []domain.TestCase) {
	t.Helper()
	ctx := context.Background()

	files, err := p.Fetch(ctx, env)
	require.NoError(t, err)

	cases := make([]domain.TestCase, 0, len(files))
	for _, file := range files {
		tc, err := p.Adapt(ctx, env, file)
		require.NoError(t, err, file.Identity)
		cases = append(cases, tc)
	}
	return files, cases
}
