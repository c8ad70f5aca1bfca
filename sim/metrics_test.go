package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMetrics_SizedForLevels(t *testing.T) {
	m := NewMetrics(3)
	assert.Len(t, m.DispatchesPerLevel, 3)
	assert.NotNil(t, m.ProcStats)
	assert.Zero(t, m.ActiveTicks)
}

func TestMetrics_Summarize_EmptyRun(t *testing.T) {
	// GIVEN metrics from a run that admitted nothing
	m := NewMetrics(3)
	m.IdleTicks = 10

	// WHEN summarized
	sum := m.summarize(DefaultConfig(), StopQuiescent)

	// THEN totals reflect only the idle tail and averages stay zero
	assert.Equal(t, int64(10), sum.TotalTicks)
	assert.Equal(t, StopQuiescent, sum.StopReason)
	assert.Zero(t, sum.AvgTurnaroundMs)
	assert.Zero(t, sum.AvgResponseMs)
	assert.Empty(t, sum.Procs)
}

func TestMetrics_Summarize_SortsProcsByPID(t *testing.T) {
	// GIVEN stats recorded out of pid order
	m := NewMetrics(1)
	for _, pid := range []int{3, 1, 2} {
		m.noteAdmit(&Proc{PID: pid, Name: "spin", WorkLeftMs: 10})
	}

	// WHEN summarized
	sum := m.summarize(DefaultConfig(), StopTickCap)

	// THEN the report lists procs in ascending pid order
	pids := make([]int, 0, len(sum.Procs))
	for _, st := range sum.Procs {
		pids = append(pids, st.PID)
	}
	assert.Equal(t, []int{1, 2, 3}, pids)
}

func TestMetrics_Summarize_DetachesDispatchSlice(t *testing.T) {
	// GIVEN a summary taken mid-run
	m := NewMetrics(2)
	m.DispatchesPerLevel[0] = 4
	sum := m.summarize(DefaultConfig(), StopNone)

	// WHEN the live counters keep moving
	m.DispatchesPerLevel[0] = 9

	// THEN the summary holds the values from when it was taken
	assert.Equal(t, int64(4), sum.DispatchesPerLevel[0])
}

func TestMetrics_Lifecycle_TracksFirstRunAndExit(t *testing.T) {
	// GIVEN one proc admitted at tick 0
	m := NewMetrics(3)
	p := &Proc{PID: 1, Name: "spin", WorkLeftMs: 20}
	m.noteAdmit(p)

	st := m.ProcStats[1]
	assert.False(t, st.FirstRunTick.Present())
	assert.False(t, st.ExitTick.Present())

	// WHEN it runs at ticks 4 and 7 and exits at 7
	m.noteDispatch(p, 0, 4)
	m.noteDispatch(p, 1, 7)
	m.noteExit(p, 7, 1)

	// THEN first-run sticks to the earliest dispatch
	first, err := st.FirstRunTick.Get()
	assert.NoError(t, err)
	assert.Equal(t, int64(4), first)
	exit, err := st.ExitTick.Get()
	assert.NoError(t, err)
	assert.Equal(t, int64(7), exit)
	assert.Equal(t, int64(2), st.TicksRun)
	assert.Equal(t, 1, st.FinalLevel)

	// AND the summary prices turnaround and response in ms
	sum := m.summarize(DefaultConfig(), StopQuiescent)
	assert.Equal(t, 80.0, sum.AvgTurnaroundMs) // (7-0+1) ticks * 10 ms
	assert.Equal(t, 40.0, sum.AvgResponseMs)   // (4-0) ticks * 10 ms

	// single sample: every percentile equals it
	assert.Equal(t, 80.0, sum.TurnaroundP50Ms)
	assert.Equal(t, 80.0, sum.TurnaroundP99Ms)
	assert.Equal(t, 40.0, sum.ResponseP90Ms)
}
