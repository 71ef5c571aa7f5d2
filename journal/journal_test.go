package journal

import (
	"fmt"
	"testing"
	"time"

	"github.com/justapithecus/lode/lode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sharedFactory returns a StoreFactory that always returns the given store,
// so separate journals observe the same in-memory state.
func sharedFactory(store lode.Store) lode.StoreFactory {
	return func() (lode.Store, error) { return store, nil }
}

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestParseEntry(t *testing.T) {
	e, err := ParseEntry("1 + 2 = 3")
	require.NoError(t, err)
	assert.Equal(t, "1 + 2", e.Expression)
	assert.Equal(t, "3", e.Result)
	assert.Equal(t, "1 + 2 = 3", e.String())

	e, err = ParseEntry("5 - 7 = -2")
	require.NoError(t, err)
	assert.Equal(t, "-2", e.Result)

	for _, bad := range []string{"", "3", " = 3", "1 + 2 = "} {
		_, err := ParseEntry(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestJournal_AppendAndList(t *testing.T) {
	start := time.Date(2026, 3, 1, 23, 59, 58, 0, time.UTC)
	j, err := New(sharedFactory(lode.NewMemory()), WithClock(stepClock(start)))
	require.NoError(t, err)

	for _, s := range []string{"1 + 2 = 3", "3 × 4 = 12", "12 ÷ 4 = 3"} {
		_, err := j.Record(t.Context(), s)
		require.NoError(t, err)
	}

	entries, err := j.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "12 ÷ 4 = 3", entries[0].String(), "newest first")
	assert.Equal(t, "1 + 2 = 3", entries[2].String())
	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
	}
	assert.Equal(t, start.Add(3*time.Second), entries[0].Timestamp)
}

func TestJournal_ListLimit(t *testing.T) {
	j, err := New(sharedFactory(lode.NewMemory()), WithClock(stepClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, err)

	for i := range 5 {
		_, err := j.Record(t.Context(), fmt.Sprintf("%d + 0 = %d", i, i))
		require.NoError(t, err)
	}

	entries, err := j.List(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "4 + 0 = 4", entries[0].String())
	assert.Equal(t, "3 + 0 = 3", entries[1].String())
}

func TestJournal_Empty(t *testing.T) {
	j, err := New(sharedFactory(lode.NewMemory()))
	require.NoError(t, err)

	entries, err := j.List(t.Context(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournal_KeepsProvidedIDs(t *testing.T) {
	j, err := New(sharedFactory(lode.NewMemory()))
	require.NoError(t, err)

	e := &Entry{ID: "calc-1", Expression: "2 × 2", Result: "4", Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, j.Append(t.Context(), e))

	entries, err := j.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, *e, entries[0])
}

func TestJournal_SharedStore(t *testing.T) {
	store := lode.NewMemory()
	writer, err := New(sharedFactory(store))
	require.NoError(t, err)
	_, err = writer.Record(t.Context(), "7 - 2 = 5")
	require.NoError(t, err)

	reader, err := New(sharedFactory(store))
	require.NoError(t, err)
	entries, err := reader.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "7 - 2", entries[0].Expression)
}

func TestJournal_FS(t *testing.T) {
	root := t.TempDir()
	j, err := NewFS(root)
	require.NoError(t, err)
	_, err = j.Record(t.Context(), "9 ÷ 3 = 3")
	require.NoError(t, err)

	reopened, err := NewFS(root)
	require.NoError(t, err)
	entries, err := reopened.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "3", entries[0].Result)
}

func TestNewFS_RequiresRoot(t *testing.T) {
	_, err := NewFS("")
	assert.Error(t, err)
}
