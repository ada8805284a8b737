// Package state persists compilation provenance using SQLite.
// It tracks runs and the artifacts each run emitted.
package state

import "time"

// RunStatus describes the lifecycle of a compilation run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one compilation run.
type Run struct {
	ID          string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string

	// Input files the run was compiled from.
	RefLut      string
	RulesFile   string
	RegionsFile string
}

// Artifact kinds, one per output table.
const (
	ArtifactFsLut       = "fs_lut"
	ArtifactMrtrixLut   = "mrtrix_lut"
	ArtifactSubcortList = "subcort_list"
	ArtifactAparcLut    = "aparc_lut"
)

// Artifact is one output file emitted by a run.
type Artifact struct {
	ID       int64
	RunID    string
	Kind     string
	Path     string
	Entries  int
	Bytes    int64
	Checksum string
}
