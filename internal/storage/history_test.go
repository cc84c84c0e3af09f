package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryAppendAndRecent(t *testing.T) {
	s := NewHistoryStore(filepath.Join(t.TempDir(), ".sitegate"), 0)

	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(GateRun{ID: id, Passed: id != "b"}))
	}

	recent, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)
	assert.False(t, recent[1].Passed)
	assert.False(t, recent[0].StartedAt.IsZero())

	all, err := s.Recent(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHistoryCap(t *testing.T) {
	s := NewHistoryStore(t.TempDir(), 2)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(GateRun{ID: id}))
	}

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "c", runs[1].ID)
}

func TestHistoryCorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0o644))

	s := NewHistoryStore(dir, 10)
	_, err := s.List()
	require.Error(t, err)

	require.NoError(t, s.Append(GateRun{ID: "fresh"}))
	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "fresh", runs[0].ID)
}

func TestHistoryRoundTripsSteps(t *testing.T) {
	s := NewHistoryStore(t.TempDir(), 10)
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(GateRun{
		ID:         "x",
		StartedAt:  started,
		Duration:   1500 * time.Millisecond,
		FailedStep: "local link check",
		ExitCode:   1,
		Steps: []StepRun{
			{Label: "js syntax", Passed: true, Duration: time.Second},
			{Label: "local link check", Check: "links", ExitCode: 1},
		},
	}))

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].StartedAt.Equal(started))
	assert.Equal(t, "links", runs[0].Steps[1].Check)
	assert.Equal(t, 1, runs[0].ExitCode)
}

func TestHistoryClear(t *testing.T) {
	s := NewHistoryStore(t.TempDir(), 10)
	require.NoError(t, s.Append(GateRun{ID: "a"}))
	require.NoError(t, s.Clear())

	runs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestHistoryConcurrentAppend(t *testing.T) {
	s := NewHistoryStore(t.TempDir(), 100)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append(GateRun{ID: "run"}))
		}()
	}
	wg.Wait()

	runs, err := s.List()
	require.NoError(t, err)
	assert.Len(t, runs, 20)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", FormatDuration(1534*time.Millisecond))
	assert.Equal(t, "2m5s", FormatDuration(125*time.Second))
}
