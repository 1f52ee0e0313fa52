package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStubCompiler creates a shell script that answers --version and
// creates whatever -o names, standing in for a real C compiler.
func writeStubCompiler(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "stubcc")
	script := `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "stubcc 1.0"
	exit 0
fi
out=""
prev=""
for a in "$@"; do
	if [ "$prev" = "-o" ]; then out="$a"; fi
	prev="$a"
done
if [ -n "$out" ]; then : > "$out"; fi
exit 0
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestRun_Build(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tmpDir := t.TempDir()
	compiler := writeStubCompiler(t, tmpDir)

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "smk.yaml"), []byte(`
name: demo
compiler: `+compiler+`
sources:
  - src/*.c
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "src", "main.c"),
		[]byte("int main(void) { return 0; }\n"), 0o600))

	chdir(t, tmpDir)
	os.Args = []string{"smk", "build"}

	assert.Equal(t, 0, run())
	assert.FileExists(t, filepath.Join(tmpDir, "build", "debug", "demo"))
}

func TestRun_MissingConfig(t *testing.T) {
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	chdir(t, t.TempDir())
	os.Args = []string{"smk", "build"}

	assert.Equal(t, 1, run())
}
