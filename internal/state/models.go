package state

import "time"

// StateVersion is the schema version for state file migration
const StateVersion = 1

// RunState records which pipeline stages completed for a workspace, and the
// input fingerprints they completed with.
type RunState struct {
	Version  int                   `json:"version"`
	InputDir string                `json:"input_dir"`
	Mode     string                `json:"mode,omitempty"`
	LastRun  time.Time             `json:"last_run"`
	Stages   map[string]StageState `json:"stages"`
}

// StageState is the completion record of one stage.
type StageState struct {
	Fingerprint string    `json:"fingerprint"`
	CompletedAt time.Time `json:"completed_at"`
	Artifacts   []string  `json:"artifacts,omitempty"`
}

// NewRunState creates an empty run state.
func NewRunState(inputDir, mode string) *RunState {
	return &RunState{
		Version:  StateVersion,
		InputDir: inputDir,
		Mode:     mode,
		LastRun:  time.Now(),
		Stages:   make(map[string]StageState),
	}
}

// StageCount returns the number of completed stages.
func (s *RunState) StageCount() int {
	return len(s.Stages)
}

// GetStage returns a stage record by name.
func (s *RunState) GetStage(name string) (StageState, bool) {
	st, ok := s.Stages[name]
	return st, ok
}
