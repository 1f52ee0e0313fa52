package staleness_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/alex-iam/smk/internal/core/domain"
	"github.com/alex-iam/smk/internal/core/ports/mocks"
	"github.com/alex-iam/smk/internal/engine/staleness"
)

const flagsHash = "fh-1"

func testProject() *domain.Project {
	return &domain.Project{
		Name:     "app",
		Root:     "/p",
		BuildDir: "build",
		Type:     domain.BuildDebug,
	}
}

// testGraph builds main.c -> a.h -> b.h with stable hashes.
func testGraph(t *testing.T) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	require.NoError(t, g.AddNode(&domain.FileNode{
		Path: domain.NewFilePath("/p/b.h"),
		Kind: domain.KindHeader,
		Hash: "h-b",
	}))
	require.NoError(t, g.AddNode(&domain.FileNode{
		Path:     domain.NewFilePath("/p/a.h"),
		Kind:     domain.KindHeader,
		Hash:     "h-a",
		Includes: []domain.FilePath{domain.NewFilePath("/p/b.h")},
	}))
	require.NoError(t, g.AddNode(&domain.FileNode{
		Path:     domain.NewFilePath("/p/main.c"),
		Kind:     domain.KindSource,
		Hash:     "h-main",
		Includes: []domain.FilePath{domain.NewFilePath("/p/a.h")},
	}))
	return g
}

func freshFingerprint(object string) *domain.Fingerprint {
	return &domain.Fingerprint{
		Path:        "/p/main.c",
		ContentHash: "h-main",
		FlagsHash:   flagsHash,
		Artifact:    object,
		Outcome:     domain.OutcomeSuccess,
		Includes: map[string]string{
			"/p/a.h": "h-a",
			"/p/b.h": "h-b",
		},
	}
}

func classify(t *testing.T, fp *domain.Fingerprint, artifactExists, force bool) *domain.CompileTask {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockFingerprintStore(ctrl)
	verifier := mocks.NewMockVerifier(ctrl)

	store.EXPECT().Get("/p/main.c").Return(fp, nil).MaxTimes(1)
	verifier.EXPECT().ArtifactExists(gomock.Any()).Return(artifactExists, nil).MaxTimes(1)

	plan, err := staleness.NewOracle(verifier).Classify(testGraph(t), testProject(), store, flagsHash, force)
	require.NoError(t, err)
	require.Len(t, plan.Compiles, 1)
	return plan.Compiles[0]
}

func TestClassify_Fresh(t *testing.T) {
	task := classify(t, freshFingerprint("/p/build/debug/main.o"), true, false)
	assert.False(t, task.Stale)
	assert.Empty(t, task.Reason)
}

func TestClassify_NeverBuilt(t *testing.T) {
	task := classify(t, nil, true, false)
	assert.True(t, task.Stale)
	assert.Equal(t, "never built", task.Reason)
}

func TestClassify_PreviousFailure(t *testing.T) {
	fp := freshFingerprint("/p/build/debug/main.o")
	fp.Outcome = domain.OutcomeFailure
	task := classify(t, fp, true, false)
	assert.True(t, task.Stale)
	assert.Equal(t, "previous attempt failed", task.Reason)
}

func TestClassify_SourceChanged(t *testing.T) {
	fp := freshFingerprint("/p/build/debug/main.o")
	fp.ContentHash = "stale-hash"
	task := classify(t, fp, true, false)
	assert.True(t, task.Stale)
	assert.Equal(t, "source changed", task.Reason)
}

func TestClassify_FlagsChanged(t *testing.T) {
	fp := freshFingerprint("/p/build/debug/main.o")
	fp.FlagsHash = "other-flags"
	task := classify(t, fp, true, false)
	assert.True(t, task.Stale)
	assert.Equal(t, "compile flags changed", task.Reason)
}

func TestClassify_TransitiveHeaderChanged(t *testing.T) {
	fp := freshFingerprint("/p/build/debug/main.o")
	fp.Includes["/p/b.h"] = "old-hash"
	task := classify(t, fp, true, false)
	assert.True(t, task.Stale)
	assert.Equal(t, "header changed: /p/b.h", task.Reason)
}

func TestClassify_NewHeaderDependency(t *testing.T) {
	fp := freshFingerprint("/p/build/debug/main.o")
	delete(fp.Includes, "/p/b.h")
	task := classify(t, fp, true, false)
	assert.True(t, task.Stale)
	assert.Equal(t, "new header dependency /p/b.h", task.Reason)
}

func TestClassify_ArtifactMissing(t *testing.T) {
	task := classify(t, freshFingerprint("/p/build/debug/main.o"), false, false)
	assert.True(t, task.Stale)
	assert.Equal(t, "artifact missing", task.Reason)
}

func TestClassify_Force(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockFingerprintStore(ctrl)
	verifier := mocks.NewMockVerifier(ctrl)
	// Neither the store nor the verifier may be consulted.

	plan, err := staleness.NewOracle(verifier).Classify(testGraph(t), testProject(), store, flagsHash, true)
	require.NoError(t, err)
	require.Len(t, plan.Compiles, 1)
	assert.True(t, plan.Compiles[0].Stale)
	assert.Equal(t, "forced rebuild", plan.Compiles[0].Reason)
}

func TestClassify_PlanShape(t *testing.T) {
	task := classify(t, nil, true, false)
	assert.Equal(t, "/p/build/debug/main.o", task.Object)
}

func TestClassify_LinkTask(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockFingerprintStore(ctrl)
	store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	verifier := mocks.NewMockVerifier(ctrl)

	plan, err := staleness.NewOracle(verifier).Classify(testGraph(t), testProject(), store, flagsHash, false)
	require.NoError(t, err)

	require.NotNil(t, plan.Link)
	assert.Equal(t, "/p/build/debug/app", plan.Link.Output)
	assert.Equal(t, []string{"/p/build/debug/main.o"}, plan.Link.Objects)
	assert.Equal(t, flagsHash, plan.FlagsHash)
	assert.Equal(t, 1, plan.StaleCount())
}
