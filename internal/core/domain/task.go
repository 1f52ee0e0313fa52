package domain

// TaskState is the state of a scheduled task.
type TaskState string

const (
	// StatePending indicates the task is waiting for its dependencies.
	StatePending TaskState = "Pending"
	// StateReady indicates the task is eligible for dispatch.
	StateReady TaskState = "Ready"
	// StateRunning indicates the task is currently executing.
	StateRunning TaskState = "Running"
	// StateDone indicates the task finished successfully or was reused.
	StateDone TaskState = "Done"
	// StateFailed indicates the task execution failed.
	StateFailed TaskState = "Failed"
)

// CompileTask is one translation unit compiled into one object artifact.
// Compile tasks have no dependencies on each other.
type CompileTask struct {
	Source *FileNode
	Object string

	// Stale marks the unit for recompilation this run. Fresh units
	// skip the toolchain but still feed their artifact to the link.
	Stale bool

	// Reason explains the staleness decision, for reporting.
	Reason string
}

// LinkTask is the single terminal task producing the executable. It
// becomes eligible only after every compile task reached Done.
type LinkTask struct {
	Output  string
	Objects []string

	// LibFlags are the resolved system-library linker flags.
	LibFlags []string

	// Missing lists external references no strategy could satisfy.
	// Compilation proceeds; a non-empty list fails the link fatally.
	Missing []string
}

// Plan is the scheduled work for one run: all compile tasks plus the
// terminal link task.
type Plan struct {
	Compiles []*CompileTask
	Link     *LinkTask

	// FlagsHash identifies the toolchain and flag configuration the
	// plan was computed against.
	FlagsHash string
}

// StaleCount returns the number of compile tasks marked stale.
func (p *Plan) StaleCount() int {
	n := 0
	for _, t := range p.Compiles {
		if t.Stale {
			n++
		}
	}
	return n
}
