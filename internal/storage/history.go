// Package storage persists release gate runs.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultMaxRuns caps the history when the store is created without a limit.
const DefaultMaxRuns = 200

// StepRun is the outcome of one gate step.
type StepRun struct {
	Label    string        `json:"label"`
	Check    string        `json:"check,omitempty"`
	Passed   bool          `json:"passed"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// GateRun is one recorded release gate run.
type GateRun struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Passed     bool          `json:"passed"`
	FailedStep string        `json:"failed_step,omitempty"`
	ExitCode   int           `json:"exit_code"`
	Trigger    string        `json:"trigger,omitempty"` // cli, schedule, mcp
	Steps      []StepRun     `json:"steps"`
}

// HistoryStore keeps gate runs in a local JSON file, oldest first.
type HistoryStore struct {
	mu      sync.Mutex
	dir     string
	maxRuns int
}

// NewHistoryStore creates a history store at the given directory. maxRuns
// below 1 falls back to DefaultMaxRuns.
func NewHistoryStore(dir string, maxRuns int) *HistoryStore {
	if maxRuns < 1 {
		maxRuns = DefaultMaxRuns
	}
	return &HistoryStore{dir: dir, maxRuns: maxRuns}
}

func (s *HistoryStore) filePath() string {
	return filepath.Join(s.dir, "history.json")
}

// Append records a run, dropping the oldest runs beyond the cap.
func (s *HistoryStore) Append(run GateRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	runs, err := s.readUnsafe()
	if err != nil {
		runs = nil // Start fresh if file is corrupted
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	runs = append(runs, run)
	if len(runs) > s.maxRuns {
		runs = runs[len(runs)-s.maxRuns:]
	}

	return s.writeUnsafe(runs)
}

// List returns all recorded runs, oldest first.
func (s *HistoryStore) List() ([]GateRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readUnsafe()
}

// Recent returns the last n runs, most recent first.
func (s *HistoryStore) Recent(n int) ([]GateRun, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}

	if n > 0 && len(runs) > n {
		runs = runs[len(runs)-n:]
	}
	out := make([]GateRun, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i])
	}
	return out, nil
}

// Clear removes all runs.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeUnsafe(nil)
}

func (s *HistoryStore) readUnsafe() ([]GateRun, error) {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var runs []GateRun
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return runs, nil
}

func (s *HistoryStore) writeUnsafe(runs []GateRun) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if runs == nil {
		runs = []GateRun{}
	}
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmp := s.filePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return os.Rename(tmp, s.filePath())
}

// FormatDuration formats a run duration for display (e.g. 1534ms → "1.5s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
