package ports

import (
	"context"
	"io"
)

// Telemetry records per-task progress for a run.
//
//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks
type Telemetry interface {
	// Record starts recording a new vertex for a unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer capturing the task's standard output.
	Stdout() io.Writer

	// Stderr returns a writer capturing the task's error output.
	Stderr() io.Writer

	// Complete marks the vertex as finished, with err nil on success.
	Complete(err error)

	// Cached marks the vertex as skipped work (artifact reuse).
	Cached()
}
