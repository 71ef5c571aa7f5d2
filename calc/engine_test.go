package calc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/abacus/history"
	"github.com/pithecene-io/abacus/metrics"
)

func feed(t *testing.T, e *Engine, keys string) Result {
	t.Helper()
	events, err := ParseKeys([]string{keys})
	require.NoError(t, err)
	return e.ApplyAll(events)
}

func TestEngine_AdditionScenario(t *testing.T) {
	e := NewEngine()
	res := feed(t, e, "1+2=")

	assert.Equal(t, "3", res.Display)
	assert.Equal(t, "1 + 2 = 3", res.Recorded)
	assert.Equal(t, []string{"1 + 2 = 3"}, e.History())
}

func TestEngine_DivisionByZeroScenario(t *testing.T) {
	e := NewEngine()
	feed(t, e, "2+3=")
	before := e.History()

	res := feed(t, e, "5/0=")

	assert.Equal(t, ErrorDisplay, res.Display)
	assert.Equal(t, FailureDivisionByZero, res.Failure)
	assert.True(t, e.State().ErrorState)
	assert.Equal(t, before, e.History(), "history must not change on failure")
}

func TestEngine_DecimalScenario(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, "4", feed(t, e, "1.5+2.5=").Display)
}

func TestEngine_ChainScenario(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, "20", feed(t, e, "2+3*4=").Display)
	assert.Equal(t, []string{"2 + 3 = 5", "5 × 4 = 20"}, e.History())
}

func TestEngine_OperatorThenEqualsRecordsNothing(t *testing.T) {
	e := NewEngine()
	res := feed(t, e, "7+=")

	assert.True(t, res.Ignored)
	assert.Equal(t, "7", res.Display)
	assert.Empty(t, e.History())
}

func TestEngine_ClearKeepsHistory(t *testing.T) {
	e := NewEngine()
	feed(t, e, "1+2=")
	feed(t, e, "9+")
	e.Apply(Clear{})

	assert.Equal(t, "0", e.Display())
	assert.Equal(t, NewState(), e.State())
	assert.Equal(t, []string{"1 + 2 = 3"}, e.History())
}

func TestEngine_ClearHistoryKeepsState(t *testing.T) {
	e := NewEngine()
	feed(t, e, "1+2=")
	feed(t, e, "4+5")
	e.ClearHistory()

	assert.Empty(t, e.History())
	assert.Equal(t, "5", e.Display())
	assert.Equal(t, "4 +", e.Pending())
}

func TestEngine_HistoryEvictsOldest(t *testing.T) {
	e := NewEngine()
	for i := 1; i <= history.DefaultCapacity+1; i++ {
		feed(t, e, fmt.Sprintf("%d+0=", i))
		e.Apply(Clear{})
	}

	entries := e.History()
	require.Len(t, entries, history.DefaultCapacity)
	assert.Equal(t, "2 + 0 = 2", entries[0])
	assert.Equal(t, "11 + 0 = 11", entries[len(entries)-1])
}

func TestEngine_RecoversAfterClear(t *testing.T) {
	e := NewEngine()
	feed(t, e, "5/0=")
	require.Equal(t, ErrorDisplay, e.Display())

	res := feed(t, e, "12")
	assert.True(t, res.Ignored)
	assert.Equal(t, ErrorDisplay, res.Display)

	e.Apply(Clear{})
	assert.Equal(t, "6", feed(t, e, "2*3=").Display)
}

func TestEngine_Restore(t *testing.T) {
	e := NewEngine(WithHistory(history.NewWithCapacity(2)))
	e.Restore([]string{"a", "b", "c"})

	assert.Equal(t, []string{"b", "c"}, e.History())
	feed(t, e, "1+1=")
	assert.Equal(t, []string{"c", "1 + 1 = 2"}, e.History())
}

func TestEngine_Metrics(t *testing.T) {
	c := metrics.NewCollector("session-001", "memory")
	e := NewEngine(WithMetrics(c))

	feed(t, e, "1+2=") // 4 applied, 1 calculation
	feed(t, e, "=")    // ignored
	feed(t, e, "5/0=") // division by zero
	feed(t, e, "1")    // ignored in error state
	e.Apply(Clear{})
	e.ClearHistory()

	s := c.Snapshot()
	assert.Equal(t, int64(1), s.Calculations)
	assert.Equal(t, int64(1), s.DivisionByZero)
	assert.Equal(t, int64(1), s.Clears)
	assert.Equal(t, int64(1), s.HistoryClears)
	assert.Equal(t, int64(2), s.EventsIgnored)
	assert.Equal(t, int64(9), s.EventsApplied)
	assert.Equal(t, int64(3), s.EventsByKind["equals"])
}

func TestEngine_ApplyAllEmpty(t *testing.T) {
	e := NewEngine()
	res := e.ApplyAll(nil)
	assert.Equal(t, "0", res.Display)
	assert.True(t, res.Ignored)
}
