package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-iam/smk/internal/adapters/telemetry/progrock"
)

func TestNew(t *testing.T) {
	recorder := progrock.New()
	assert.NotNil(t, recorder)
}

func TestRecorder_Integration(t *testing.T) {
	recorder := progrock.New()

	_, vertex := recorder.Record(context.Background(), "compile main.c")

	_, err := vertex.Stdout().Write([]byte("standard output\n"))
	require.NoError(t, err)
	_, err = vertex.Stderr().Write([]byte("warning: unused variable\n"))
	require.NoError(t, err)

	vertex.Complete(nil)

	_, cached := recorder.Record(context.Background(), "compile util.c")
	cached.Cached()

	require.NoError(t, recorder.Close())
}
