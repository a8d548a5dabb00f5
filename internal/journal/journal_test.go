package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestCurrentSessionMintsOnce(t *testing.T) {
	j := newTestJournal(t)

	first, err := j.CurrentSession()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := j.CurrentSession()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestRotateSessionChangesID(t *testing.T) {
	j := newTestJournal(t)

	first, err := j.CurrentSession()
	require.NoError(t, err)

	rotated, err := j.RotateSession()
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated)

	current, err := j.CurrentSession()
	require.NoError(t, err)
	assert.Equal(t, rotated, current)
}

func TestAppendAndList(t *testing.T) {
	j := newTestJournal(t)
	session, err := j.CurrentSession()
	require.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ops := []string{"init", "open", "buy", "sell"}
	for i, op := range ops {
		require.NoError(t, j.Append(Entry{
			SessionID:    session,
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
			Op:           op,
			PositionID:   "1",
			Mark:         1000,
			Amount:       float64(i),
			BalanceAfter: 10 - float64(i),
		}))
	}

	entries, err := j.List(session, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	// Most recent first.
	assert.Equal(t, "sell", entries[0].Op)
	assert.Equal(t, "init", entries[3].Op)
	assert.Equal(t, base.Add(3*time.Minute), entries[0].Timestamp.UTC())
	assert.Equal(t, 7.0, entries[0].BalanceAfter)

	limited, err := j.List(session, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "sell", limited[0].Op)
	assert.Equal(t, "buy", limited[1].Op)
}

// Entries from another session are invisible.
func TestListScopedToSession(t *testing.T) {
	j := newTestJournal(t)
	first, err := j.CurrentSession()
	require.NoError(t, err)
	require.NoError(t, j.Append(Entry{SessionID: first, Timestamp: time.Now(), Op: "init"}))

	second, err := j.RotateSession()
	require.NoError(t, err)
	require.NoError(t, j.Append(Entry{SessionID: second, Timestamp: time.Now(), Op: "init"}))

	entries, err := j.List(second, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestClear(t *testing.T) {
	j := newTestJournal(t)
	first, err := j.CurrentSession()
	require.NoError(t, err)
	require.NoError(t, j.Append(Entry{SessionID: first, Timestamp: time.Now(), Op: "init"}))

	second, err := j.RotateSession()
	require.NoError(t, err)
	require.NoError(t, j.Append(Entry{SessionID: second, Timestamp: time.Now(), Op: "init"}))

	require.NoError(t, j.Clear(second))

	entries, err := j.List(second, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Other sessions keep their entries.
	entries, err = j.List(first, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
