package domain

// Failure is one (file, reason) pair surfaced to the CLI boundary.
type Failure struct {
	File   string
	Reason string
}

// Report summarizes a completed run. It always carries the complete
// list of failures, not just the first one.
type Report struct {
	// Compiled is the number of translation units recompiled this run.
	Compiled int

	// Reused is the number of fresh units whose artifact was reused.
	Reused int

	// Linked reports whether the link step ran (false when skipped or
	// never eligible).
	Linked bool

	// Executable is the absolute path of the produced binary, when the
	// run succeeded.
	Executable string

	Failures []Failure
}

// Failed reports whether any task in the run failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}
