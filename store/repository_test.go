package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/abacus/log"
	"github.com/pithecene-io/abacus/metrics"
	"github.com/pithecene-io/abacus/prefs"
)

func newTestRepo(t *testing.T, codec Codec) (*Repository, *Memory, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewLogger(log.SessionMeta{SessionID: "test", StorageBackend: BackendMemory}).WithOutput(&buf)
	mem := NewMemory()
	return NewRepository(mem, codec, logger, nil), mem, &buf
}

func TestRepository_FirstRunDefaults(t *testing.T) {
	repo, _, logs := newTestRepo(t, nil)

	entries, err := repo.LoadHistory(t.Context())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)

	p, err := repo.LoadPreferences(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prefs.Defaults(), p)
	assert.Zero(t, logs.Len(), "absence is not logged")
}

func TestRepository_HistoryRoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			repo, _, _ := newTestRepo(t, codec)
			want := []string{"1 + 2 = 3", "3 × 4 = 12"}

			require.NoError(t, repo.SaveHistory(t.Context(), want))
			got, err := repo.LoadHistory(t.Context())
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, repo.ClearHistory(t.Context()))
			got, err = repo.LoadHistory(t.Context())
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestRepository_HistoryJSONPayload(t *testing.T) {
	repo, mem, _ := newTestRepo(t, nil)
	require.NoError(t, repo.SaveHistory(t.Context(), nil))

	raw, err := mem.Get(t.Context(), KeyHistory)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestRepository_LegacyHistory(t *testing.T) {
	repo, mem, _ := newTestRepo(t, nil)
	legacy := `[
		{"id":"2","expression":"3 × 4","result":12,"timestamp":"2024-01-01T00:00:02Z"},
		{"id":"1","expression":"1 + 2","result":3,"timestamp":"2024-01-01T00:00:01Z"}
	]`
	require.NoError(t, mem.Set(t.Context(), KeyHistory, []byte(legacy)))

	got, err := repo.LoadHistory(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"1 + 2 = 3", "3 × 4 = 12"}, got)
}

func TestRepository_MalformedHistory(t *testing.T) {
	for _, payload := range []string{"{not json", `{"a":1}`, `[1, 2]`, `[{"result":3}]`} {
		t.Run(payload, func(t *testing.T) {
			repo, mem, logs := newTestRepo(t, nil)
			require.NoError(t, mem.Set(t.Context(), KeyHistory, []byte(payload)))

			got, err := repo.LoadHistory(t.Context())
			require.NoError(t, err, "malformed data must not surface")
			assert.Empty(t, got)
			assert.Contains(t, logs.String(), `"level":"warn"`)
			assert.Contains(t, logs.String(), KeyHistory)
		})
	}
}

func TestRepository_PreferencesRoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			repo, _, _ := newTestRepo(t, codec)
			want := prefs.ToggleTheme(prefs.Defaults())
			want.DecimalPlaces = 3

			require.NoError(t, repo.SavePreferences(t.Context(), want))
			got, err := repo.LoadPreferences(t.Context())
			require.NoError(t, err)
			assert.Equal(t, want, got)

			reset, err := repo.ResetPreferences(t.Context())
			require.NoError(t, err)
			assert.Equal(t, prefs.Defaults(), reset)

			got, err = repo.LoadPreferences(t.Context())
			require.NoError(t, err)
			assert.Equal(t, prefs.Defaults(), got)
		})
	}
}

func TestRepository_PartialPreferencesMergeDefaults(t *testing.T) {
	repo, mem, _ := newTestRepo(t, nil)
	require.NoError(t, mem.Set(t.Context(), KeyPreferences, []byte(`{"theme":"dark"}`)))

	got, err := repo.LoadPreferences(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, got.Theme)
	assert.Equal(t, 8, got.DecimalPlaces)
	assert.True(t, got.ShowHistory)
}

func TestRepository_RepairsOutOfRangePreferences(t *testing.T) {
	repo, mem, logs := newTestRepo(t, nil)
	require.NoError(t, mem.Set(t.Context(), KeyPreferences, []byte(`{"theme":"dark","decimalPlaces":42}`)))

	got, err := repo.LoadPreferences(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prefs.ThemeDark, got.Theme)
	assert.Equal(t, 8, got.DecimalPlaces)
	assert.Contains(t, logs.String(), "repaired stored preferences")
}

func TestRepository_MalformedPreferences(t *testing.T) {
	repo, mem, logs := newTestRepo(t, nil)
	require.NoError(t, mem.Set(t.Context(), KeyPreferences, []byte(`"dark"`)))

	got, err := repo.LoadPreferences(t.Context())
	require.NoError(t, err)
	assert.Equal(t, prefs.Defaults(), got)
	assert.True(t, strings.Contains(logs.String(), "malformed stored data"))
}

// failingStore fails every operation with err.
type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Set(context.Context, string, []byte) error   { return f.err }
func (f failingStore) Delete(context.Context, string) error        { return f.err }
func (f failingStore) Close() error                                { return nil }

func TestRepository_BackendFailuresSurface(t *testing.T) {
	backendErr := NewStorageError(ErrNetwork, "get", KeyHistory, errors.New("connection refused"))
	collector := metrics.NewCollector("test", "redis")
	repo := NewRepository(failingStore{err: backendErr}, nil, nil, collector)

	_, err := repo.LoadHistory(t.Context())
	assert.ErrorIs(t, err, ErrNetwork)

	_, err = repo.LoadPreferences(t.Context())
	assert.ErrorIs(t, err, ErrNetwork)

	assert.ErrorIs(t, repo.SaveHistory(t.Context(), []string{"x"}), ErrNetwork)
	assert.ErrorIs(t, repo.ClearHistory(t.Context()), ErrNetwork)

	s := collector.Snapshot()
	assert.Equal(t, int64(2), s.StoreWriteFailure)
	assert.Equal(t, int64(0), s.StoreWriteSuccess)
}

func TestRepository_CountsWrites(t *testing.T) {
	collector := metrics.NewCollector("test", "memory")
	repo := NewRepository(NewMemory(), nil, nil, collector)

	require.NoError(t, repo.SaveHistory(t.Context(), []string{"1 + 1 = 2"}))
	require.NoError(t, repo.SavePreferences(t.Context(), prefs.Defaults()))
	_, err := repo.ResetPreferences(t.Context())
	require.NoError(t, err)

	assert.Equal(t, int64(3), collector.Snapshot().StoreWriteSuccess)
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec("")
	require.NoError(t, err)
	assert.Equal(t, CodecJSON, c.Name())

	c, err = NewCodec(CodecMsgpack)
	require.NoError(t, err)
	assert.Equal(t, CodecMsgpack, c.Name())

	_, err = NewCodec("xml")
	assert.Error(t, err)
}
