// sim/metrics.go
//
// Per-run counters and the end-of-run summary. Counters are updated inline
// by the dispatch path; Summary/summarize turn them into a report that
// marshals cleanly to JSON (ticks a process never reached render as null).

package sim

import (
	"sort"

	"github.com/markphelps/optional"
)

// ProcStats accumulates the lifetime of one admitted process.
type ProcStats struct {
	PID          int            `json:"pid"`
	Name         string         `json:"name"`
	WorkMs       int            `json:"work_ms"`
	AdmittedTick int64          `json:"admitted_tick"`
	FirstRunTick optional.Int64 `json:"first_run_tick"`
	ExitTick     optional.Int64 `json:"exit_tick"`
	TicksRun     int64          `json:"ticks_run"`
	FinalLevel   int            `json:"final_level"`
}

// Metrics carries the counters for one simulator instance.
type Metrics struct {
	ActiveTicks        int64
	IdleTicks          int64
	Admitted           int
	Exited             int
	Demotions          int64
	Requeues           int64
	DispatchesPerLevel []int64
	ProcStats          map[int]*ProcStats
}

// NewMetrics returns zeroed counters sized for numLevels priority levels.
func NewMetrics(numLevels int) *Metrics {
	return &Metrics{
		DispatchesPerLevel: make([]int64, numLevels),
		ProcStats:          make(map[int]*ProcStats),
	}
}

func (m *Metrics) noteAdmit(p *Proc) {
	m.Admitted++
	m.ProcStats[p.PID] = &ProcStats{
		PID:          p.PID,
		Name:         p.Name,
		WorkMs:       p.WorkLeftMs,
		AdmittedTick: p.AdmittedTick,
	}
}

func (m *Metrics) noteDispatch(p *Proc, lvl int, tick int64) {
	m.ActiveTicks++
	m.DispatchesPerLevel[lvl]++
	st := m.ProcStats[p.PID]
	if !st.FirstRunTick.Present() {
		st.FirstRunTick = optional.NewInt64(tick)
	}
	st.TicksRun++
	st.FinalLevel = lvl
}

func (m *Metrics) noteExit(p *Proc, tick int64, lvl int) {
	m.Exited++
	st := m.ProcStats[p.PID]
	st.ExitTick = optional.NewInt64(tick)
	st.FinalLevel = lvl
}

// Summary is the end-of-run report.
type Summary struct {
	Config             Config      `json:"config"`
	StopReason         StopReason  `json:"stop_reason"`
	TotalTicks         int64       `json:"total_ticks"`
	ActiveTicks        int64       `json:"active_ticks"`
	IdleTicks          int64       `json:"idle_ticks"`
	Admitted           int         `json:"admitted"`
	Exited             int         `json:"exited"`
	Demotions          int64       `json:"demotions"`
	Requeues           int64       `json:"requeues"`
	DispatchesPerLevel []int64     `json:"dispatches_per_level"`
	AvgTurnaroundMs    float64     `json:"avg_turnaround_ms"`
	TurnaroundP50Ms    float64     `json:"turnaround_p50_ms"`
	TurnaroundP90Ms    float64     `json:"turnaround_p90_ms"`
	TurnaroundP99Ms    float64     `json:"turnaround_p99_ms"`
	AvgResponseMs      float64     `json:"avg_response_ms"`
	ResponseP50Ms      float64     `json:"response_p50_ms"`
	ResponseP90Ms      float64     `json:"response_p90_ms"`
	ResponseP99Ms      float64     `json:"response_p99_ms"`
	Procs              []ProcStats `json:"procs"`
}

// summarize folds the counters into a Summary. Turnaround covers admission
// through exit inclusive; response covers admission through first dispatch.
// Processes that never exited (or never ran) are excluded from the
// respective average.
func (m *Metrics) summarize(cfg Config, reason StopReason) *Summary {
	s := &Summary{
		Config:             cfg,
		StopReason:         reason,
		TotalTicks:         m.ActiveTicks + m.IdleTicks,
		ActiveTicks:        m.ActiveTicks,
		IdleTicks:          m.IdleTicks,
		Admitted:           m.Admitted,
		Exited:             m.Exited,
		Demotions:          m.Demotions,
		Requeues:           m.Requeues,
		DispatchesPerLevel: append([]int64(nil), m.DispatchesPerLevel...),
		Procs:              make([]ProcStats, 0, len(m.ProcStats)),
	}

	var turnarounds, responses []float64
	for _, st := range m.ProcStats {
		s.Procs = append(s.Procs, *st)
		if exit, err := st.ExitTick.Get(); err == nil {
			turnarounds = append(turnarounds, float64((exit-st.AdmittedTick+1)*int64(cfg.TickUnitMs)))
		}
		if first, err := st.FirstRunTick.Get(); err == nil {
			responses = append(responses, float64((first-st.AdmittedTick)*int64(cfg.TickUnitMs)))
		}
	}
	sort.Slice(s.Procs, func(i, j int) bool { return s.Procs[i].PID < s.Procs[j].PID })

	if len(turnarounds) > 0 {
		s.AvgTurnaroundMs = avg(turnarounds)
		s.TurnaroundP50Ms = percentile(turnarounds, 50)
		s.TurnaroundP90Ms = percentile(turnarounds, 90)
		s.TurnaroundP99Ms = percentile(turnarounds, 99)
	}
	if len(responses) > 0 {
		s.AvgResponseMs = avg(responses)
		s.ResponseP50Ms = percentile(responses, 50)
		s.ResponseP90Ms = percentile(responses, 90)
		s.ResponseP99Ms = percentile(responses, 99)
	}
	return s
}
