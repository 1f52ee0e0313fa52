package domain

import "time"

// Outcome records how the last build attempt for a file ended.
type Outcome string

const (
	// OutcomeSuccess marks a fingerprint written after a successful task.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure marks a fingerprint written after a failed task.
	OutcomeFailure Outcome = "failure"
)

// Fingerprint is the persisted build record for one translation unit.
// It is the single source of truth for incremental decisions across
// runs. Unknown fields in the persisted form are ignored so the store
// stays forward compatible across tool versions.
type Fingerprint struct {
	Path        string    `json:"path,omitzero"`
	ContentHash string    `json:"content_hash,omitzero"`
	FlagsHash   string    `json:"flags_hash,omitzero"`
	Artifact    string    `json:"artifact,omitzero"`
	Outcome     Outcome   `json:"outcome,omitzero"`
	Timestamp   time.Time `json:"timestamp,omitzero"`

	// Includes records the content hash of every file in the unit's
	// transitive include set at the time of the build attempt.
	Includes map[string]string `json:"includes,omitempty"`
}
