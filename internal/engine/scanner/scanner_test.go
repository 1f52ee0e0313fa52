package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
	"github.com/alex-iam/smk/internal/core/ports/mocks"
	"github.com/alex-iam/smk/internal/engine/scanner"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func quietLogger(t *testing.T) ports.Logger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func project(root string, sources []string, includeDirs ...string) *domain.Project {
	return &domain.Project{
		Name:        "app",
		Root:        root,
		Sources:     sources,
		IncludeDirs: includeDirs,
		BuildDir:    "build",
	}
}

func TestScan_QuotedIncludesResolveRelativeToIncluder(t *testing.T) {
	dir := t.TempDir()
	util := writeFile(t, dir, "src/util.h", "int util(void);\n")
	main := writeFile(t, dir, "src/main.c", "#include \"util.h\"\nint main(void) { return 0; }\n")

	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	graph, externals, err := s.Scan(context.Background(), project(dir, []string{main}))
	require.NoError(t, err)

	assert.Empty(t, externals)
	assert.Equal(t, 2, graph.Len())

	node, ok := graph.Node(domain.NewFilePath(main))
	require.True(t, ok)
	require.Len(t, node.Includes, 1)
	assert.Equal(t, util, node.Includes[0].String())
	assert.NotEmpty(t, node.Hash)

	header, ok := graph.Node(domain.NewFilePath(util))
	require.True(t, ok)
	assert.Equal(t, domain.KindHeader, header.Kind)
	assert.NotEmpty(t, header.Hash)
}

func TestScan_AngleIncludesUseSearchPathsOnly(t *testing.T) {
	dir := t.TempDir()
	// A header next to the source must NOT satisfy an angle include.
	writeFile(t, dir, "src/local.h", "")
	writeFile(t, dir, "include/local.h", "")
	writeFile(t, dir, "include/shared.h", "")
	main := writeFile(t, dir, "src/main.c", "#include <local.h>\n#include <shared.h>\nint main(void) { return 0; }\n")

	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	graph, externals, err := s.Scan(context.Background(), project(dir, []string{main}, filepath.Join(dir, "include")))
	require.NoError(t, err)

	assert.Empty(t, externals)
	node, ok := graph.Node(domain.NewFilePath(main))
	require.True(t, ok)
	require.Len(t, node.Includes, 2)
	assert.Equal(t, filepath.Join(dir, "include", "local.h"), node.Includes[0].String())
}

func TestScan_UnresolvedAngleIncludeIsExternal(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.c", "#include <stdio.h>\n#include <curl/curl.h>\nint main(void) { return 0; }\n")

	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	graph, externals, err := s.Scan(context.Background(), project(dir, []string{main}))
	require.NoError(t, err)

	assert.Equal(t, []string{"curl/curl.h", "stdio.h"}, externals)
	assert.Equal(t, 1, graph.Len(), "external includes must not become nodes")
}

func TestScan_TransitiveHeaders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.h", "int c(void);\n")
	writeFile(t, dir, "b.h", "#include \"c.h\"\n")
	writeFile(t, dir, "a.h", "#include \"b.h\"\n")
	main := writeFile(t, dir, "main.c", "#include \"a.h\"\nint main(void) { return 0; }\n")

	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	graph, _, err := s.Scan(context.Background(), project(dir, []string{main}))
	require.NoError(t, err)

	assert.Equal(t, 4, graph.Len())

	deps, err := graph.TransitiveIncludes(domain.NewFilePath(main))
	require.NoError(t, err)
	require.Len(t, deps, 3)
}

func TestScan_SharedHeaderScannedOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.h", "int common(void);\n")
	a := writeFile(t, dir, "a.c", "#include \"common.h\"\n")
	b := writeFile(t, dir, "b.c", "#include \"common.h\"\n")

	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	graph, _, err := s.Scan(context.Background(), project(dir, []string{a, b}))
	require.NoError(t, err)

	assert.Equal(t, 3, graph.Len())
}

func TestScan_MalformedDirectiveWarnsAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.h", "")
	main := writeFile(t, dir, "main.c", "#include HEADER_MACRO\n#include \"good.h\"\n")

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	s := scanner.NewScanner(fs.NewHasher(), log)
	graph, _, err := s.Scan(context.Background(), project(dir, []string{main}))
	require.NoError(t, err)

	node, ok := graph.Node(domain.NewFilePath(main))
	require.True(t, ok)
	assert.Len(t, node.Includes, 1, "good directive after the malformed one still scanned")
}

func TestScan_ConditionalBranchesAreBothScanned(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "debug.h", "")
	writeFile(t, dir, "release.h", "")
	main := writeFile(t, dir, "main.c", `#ifdef DEBUG
#include "debug.h"
#else
#include "release.h"
#endif
int main(void) { return 0; }
`)

	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	graph, _, err := s.Scan(context.Background(), project(dir, []string{main}))
	require.NoError(t, err)

	node, ok := graph.Node(domain.NewFilePath(main))
	require.True(t, ok)
	assert.Len(t, node.Includes, 2)
}

func TestScan_UnreadableSourceIsFatal(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.c")

	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	_, _, err := s.Scan(context.Background(), project(dir, []string{missing}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrUnreadableSource.Error())
}

func TestScan_NoSources(t *testing.T) {
	s := scanner.NewScanner(fs.NewHasher(), quietLogger(t))
	_, _, err := s.Scan(context.Background(), project(t.TempDir(), nil))
	assert.ErrorIs(t, err, domain.ErrNoSources)
}
