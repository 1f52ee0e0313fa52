package app_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alex-iam/smk/internal/adapters/config"
	"github.com/alex-iam/smk/internal/adapters/fs"
	"github.com/alex-iam/smk/internal/adapters/state"
	"github.com/alex-iam/smk/internal/adapters/syslib"
	"github.com/alex-iam/smk/internal/adapters/telemetry"
	"github.com/alex-iam/smk/internal/app"
	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports"
	"github.com/alex-iam/smk/internal/core/ports/mocks"
	"github.com/alex-iam/smk/internal/engine/scanner"
	"github.com/alex-iam/smk/internal/engine/scheduler"
	"github.com/alex-iam/smk/internal/engine/staleness"
)

// fixture assembles a real pipeline around a mocked toolchain.
type fixture struct {
	app *app.App
	tc  *mocks.MockToolchain
	dir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	tc := mocks.NewMockToolchain(ctrl)
	tc.EXPECT().Identity().Return("cc stub 1.0").AnyTimes()

	factory := mocks.NewMockToolchainFactory(ctrl)
	factory.EXPECT().New(gomock.Any()).Return(tc).AnyTimes()

	hasher := fs.NewHasher()
	resolver, err := syslib.NewResolver(factory, hasher, log)
	require.NoError(t, err)
	resolver.SetPkgConfigPath(filepath.Join(t.TempDir(), "no-pkg-config"))

	a := app.New(
		config.NewLoader(log),
		scanner.NewScanner(hasher, log),
		staleness.NewOracle(fs.NewVerifier()),
		resolver,
		scheduler.NewScheduler(hasher, fs.NewVerifier(), log, telemetry.NewNoOp()),
		state.Opener{},
		factory,
		hasher,
		log,
		telemetry.NewNoOp(),
	)

	return &fixture{app: a, tc: tc, dir: writeDemoProject(t)}
}

// stubArtifacts makes the mocked toolchain create its outputs so that
// incremental runs can verify artifact presence.
func (f *fixture) stubArtifacts(t *testing.T) {
	t.Helper()
	f.tc.EXPECT().Compile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.CompileRequest) error {
			require.NoError(t, os.MkdirAll(filepath.Dir(req.Object), 0o750))
			return os.WriteFile(req.Object, []byte("obj"), 0o600)
		}).
		AnyTimes()
	f.tc.EXPECT().Link(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.LinkRequest) error {
			require.NoError(t, os.MkdirAll(filepath.Dir(req.Output), 0o750))
			return os.WriteFile(req.Output, []byte("bin"), 0o600)
		}).
		AnyTimes()
}

func writeDemoProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"smk.yaml": `
name: demo
compiler: cc
sources:
  - src/*.c
include_dirs:
  - include
`,
		"include/util.h": "int util(void);\n",
		"src/main.c":     "#include \"util.h\"\n#include <math.h>\nint main(void) { return 0; }\n",
		"src/util.c":     "#include \"util.h\"\nint util(void) { return 1; }\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestApp_Run_BuildsThenReuses(t *testing.T) {
	f := newFixture(t)
	f.stubArtifacts(t)

	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Compiled)
	assert.Equal(t, 0, report.Reused)
	assert.True(t, report.Linked)
	assert.FileExists(t, report.Executable)

	// Nothing changed: everything is reused, including the link.
	report, err = f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Compiled)
	assert.Equal(t, 2, report.Reused)
	assert.False(t, report.Linked)
}

func TestApp_Run_HeaderEditRebuildsDependents(t *testing.T) {
	f := newFixture(t)
	f.stubArtifacts(t)

	_, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)

	header := filepath.Join(f.dir, "include", "util.h")
	require.NoError(t, os.WriteFile(header, []byte("int util(void);\nint util2(void);\n"), 0o600))

	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Compiled, "both units include util.h")
}

func TestApp_Run_BuildTypeChangesFlags(t *testing.T) {
	f := newFixture(t)
	f.stubArtifacts(t)

	_, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)

	// A release build compiles into its own output tree.
	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir, Type: "release"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Compiled)
	assert.Contains(t, report.Executable, string(os.PathSeparator)+"release"+string(os.PathSeparator))
}

func TestApp_Run_UnknownBuildType(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir, Type: "profile"})
	assert.Error(t, err)
}

func TestApp_Run_IncludeCycleIsFatal(t *testing.T) {
	f := newFixture(t)
	writeFile := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(f.dir, "include", name), []byte(content), 0o600))
	}
	writeFile("util.h", "#include \"other.h\"\n")
	writeFile("other.h", "#include \"util.h\"\n")

	_, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycleDetected)
}

func TestApp_Run_CompileDB(t *testing.T) {
	f := newFixture(t)
	f.stubArtifacts(t)
	f.tc.EXPECT().CompileCommand(gomock.Any()).
		DoAndReturn(func(req ports.CompileRequest) []string {
			return append([]string{"cc"}, "-c", req.Source, "-o", req.Object)
		}).
		Times(2)

	_, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir, CompileDB: true})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(f.dir, "compile_commands.json"))
	require.NoError(t, err)

	var entries []struct {
		Directory string   `json:"directory"`
		Arguments []string `json:"arguments"`
		File      string   `json:"file"`
	}
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, f.dir, entries[0].Directory)
	assert.NotEmpty(t, entries[0].Arguments)
}

func TestApp_Run_CompileFailureSurfacesInReport(t *testing.T) {
	f := newFixture(t)
	f.tc.EXPECT().Compile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.CompileRequest) error {
			if filepath.Base(req.Source) == "util.c" {
				return domain.ErrCompileFailed
			}
			require.NoError(t, os.MkdirAll(filepath.Dir(req.Object), 0o750))
			return os.WriteFile(req.Object, []byte("obj"), 0o600)
		}).
		Times(2)

	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)

	require.NotNil(t, report)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, filepath.Join(f.dir, "src", "util.c"), report.Failures[0].File)
	assert.False(t, report.Linked)
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	f.stubArtifacts(t)

	report, err := f.app.Run(context.Background(), app.RunOptions{Dir: f.dir})
	require.NoError(t, err)
	require.FileExists(t, report.Executable)

	require.NoError(t, f.app.Clean(f.dir))
	assert.NoDirExists(t, filepath.Join(f.dir, "build"))
}
