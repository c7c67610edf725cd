package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

const StateFileName = ".q2run-state.json"

// Manager persists run state in the workspace so interrupted pipelines can
// resume. With Disabled set every stage reports as needing a run.
type Manager struct {
	baseDir  string
	state    *RunState
	mu       sync.RWMutex
	dirty    bool
	logger   *utils.Logger
	disabled bool
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	BaseDir  string
	InputDir string
	Mode     string
	Logger   *utils.Logger
	Disabled bool
}

// NewManager creates a Manager.
func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		baseDir:  opts.BaseDir,
		logger:   opts.Logger,
		disabled: opts.Disabled,
		state:    NewRunState(opts.InputDir, opts.Mode),
	}
}

// Load reads the state file. A missing file, corrupt file, or schema
// mismatch leaves the fresh in-memory state in place and returns the
// corresponding sentinel so callers can log it.
func (m *Manager) Load() error {
	if m.disabled {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.statePath())
	if os.IsNotExist(err) {
		return ErrStateNotFound
	}
	if err != nil {
		return err
	}

	var st RunState
	if err := json.Unmarshal(data, &st); err != nil {
		return ErrStateCorrupted
	}

	if st.Version != StateVersion {
		if m.logger != nil {
			m.logger.Warn().
				Int("file_version", st.Version).
				Int("expected_version", StateVersion).
				Msg("State version mismatch, starting fresh")
		}
		return ErrVersionMismatch
	}

	if st.InputDir != m.state.InputDir || st.Mode != m.state.Mode {
		if m.logger != nil {
			m.logger.Warn().
				Str("recorded_input", st.InputDir).
				Str("current_input", m.state.InputDir).
				Msg("State belongs to different inputs, starting fresh")
		}
		return ErrStateNotFound
	}

	m.state = &st
	return nil
}

// Save writes the state file atomically if anything changed.
func (m *Manager) Save() error {
	if m.disabled {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.state.LastRun = time.Now()

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}

	path := m.statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := utils.AtomicWriteFile(path, data, 0644); err != nil {
		return err
	}

	m.dirty = false
	if m.logger != nil {
		m.logger.Debug().
			Int("stages", len(m.state.Stages)).
			Str("path", path).
			Msg("State saved")
	}
	return nil
}

// ShouldRun reports whether a stage must execute: it never completed, or its
// input fingerprint changed since it did.
func (m *Manager) ShouldRun(stage, fingerprint string) bool {
	if m.disabled {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.state.Stages[stage]
	if !ok {
		return true
	}
	return st.Fingerprint != fingerprint
}

// MarkDone records a completed stage.
func (m *Manager) MarkDone(stage, fingerprint string, artifacts []string) {
	if m.disabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Stages[stage] = StageState{
		Fingerprint: fingerprint,
		CompletedAt: time.Now(),
		Artifacts:   artifacts,
	}
	m.dirty = true
}

// GetStage returns the completion record of one stage.
func (m *Manager) GetStage(name string) (StageState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.GetStage(name)
}

// Reset forgets all completed stages (used by --force).
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.state.Stages) > 0 {
		m.dirty = true
	}
	m.state.Stages = make(map[string]StageState)
}

// IsDisabled reports whether state tracking is off.
func (m *Manager) IsDisabled() bool {
	return m.disabled
}

func (m *Manager) statePath() string {
	return filepath.Join(m.baseDir, StateFileName)
}
