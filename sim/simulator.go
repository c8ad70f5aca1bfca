// sim/simulator.go
//
// The tick driver and the per-tick dispatch algorithm. The loop structure
// reproduces the reference scheduler exactly; the emitted trace is a strict
// external contract, so the ordering of checks here is load-bearing.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/proywm/sched-simulation/sim/trace"
)

// StopReason tells why a run ended.
type StopReason string

const (
	// StopNone means the simulation has not terminated yet.
	StopNone StopReason = ""
	// StopQuiescent means every queue stayed empty past the idle threshold.
	StopQuiescent StopReason = "quiescent"
	// StopTickCap means the hard tick cap was exhausted.
	StopTickCap StopReason = "tick-cap"
)

// level pairs one run-queue with its fixed quantum and trace label.
type level struct {
	queue   *RunQueue
	quantum int
	label   string
}

// Simulator owns the run-queues, the registry, and the virtual clock.
// It advances in whole ticks: each Tick dispatches the highest-priority
// ready process for one tick, or records an idle tick when every queue is
// empty. Wall-clock time never enters scheduling decisions.
type Simulator struct {
	Clock    int64 // completed driver iterations (virtual time in ticks)
	Registry *Registry
	Metrics  *Metrics

	cfg        Config
	levels     []level
	sink       trace.Sink
	idleStreak int   // consecutive idle iterations, reset by any dispatch
	capTicks   int64 // iterations charged against cfg.TickCap
	done       bool
	stopReason StopReason
}

// NewSimulator builds a simulator with a fresh Registry. The sink receives
// every trace event; pass nil to discard events.
func NewSimulator(cfg Config, sink trace.Sink) (*Simulator, error) {
	return NewSimulatorWithRegistry(cfg, sink, NewRegistry())
}

// NewSimulatorWithRegistry is NewSimulator with a caller-supplied Registry,
// letting pids continue across simulator instances within one session.
func NewSimulatorWithRegistry(cfg Config, sink trace.Sink, registry *Registry) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	levels := make([]level, len(cfg.Levels))
	for i, lc := range cfg.Levels {
		levels[i] = level{
			queue:   &RunQueue{},
			quantum: lc.QuantumTicks,
			label:   cfg.LevelLabel(i),
		}
	}
	if sink == nil {
		sink = trace.SinkFunc(func(trace.Event) {})
	}
	return &Simulator{
		Registry: registry,
		Metrics:  NewMetrics(len(cfg.Levels)),
		cfg:      cfg,
		levels:   levels,
		sink:     sink,
	}, nil
}

// Config returns the active configuration.
func (s *Simulator) Config() Config {
	return s.cfg
}

// Done reports whether the run has terminated.
func (s *Simulator) Done() bool {
	return s.done
}

// StopReason returns why the run ended, or StopNone while it is live.
func (s *Simulator) StopReason() StopReason {
	return s.stopReason
}

// Admit places a new process at the tail of level 0 with that level's full
// quantum. workMs is the total CPU demand; the workload loader drops
// non-positive amounts before admission.
func (s *Simulator) Admit(name string, workMs int) *Proc {
	p := s.Registry.NewProc(name, workMs)
	p.Level = 0
	p.TicksLeft = s.levels[0].quantum
	p.AdmittedTick = s.Clock
	s.levels[0].queue.Enqueue(p)
	s.Metrics.noteAdmit(p)
	logrus.Debugf("[tick %07d] admitted pid=%d name=%s work=%dms", s.Clock, p.PID, p.Name, p.WorkLeftMs)
	return p
}

// Run drives Tick until termination and returns the stop reason.
func (s *Simulator) Run() StopReason {
	for s.Tick() {
	}
	return s.stopReason
}

// Tick advances the simulation by one driver iteration: one dispatched tick,
// or one idle tick when every queue is empty. It reports whether the run can
// continue; once it returns false, further calls are no-ops.
//
// Two ordering details the trace contract depends on:
//   - the cap check happens before anything else, so a run that exhausts
//     the cap emits no extra line;
//   - an idle iteration counts its tick before testing the threshold, so
//     quiescence emits exactly IdleThreshold idle lines and then stops.
func (s *Simulator) Tick() bool {
	if s.done {
		return false
	}
	if s.capTicks > s.cfg.TickCap {
		s.finish(StopTickCap)
		return false
	}

	if s.allEmpty() {
		s.idleStreak++
		tick := s.Clock
		s.Clock++
		if s.cfg.CountIdleTowardCap {
			s.capTicks++
		}
		if s.idleStreak > s.cfg.IdleThreshold {
			s.finish(StopQuiescent)
			return false
		}
		s.Metrics.IdleTicks++
		s.sink.Record(trace.NewIdle(tick, s.cfg.TickUnitMs))
		return true
	}

	s.idleStreak = 0
	tick := s.Clock
	s.Clock++
	s.capTicks++
	s.dispatch(tick)
	return true
}

func (s *Simulator) finish(reason StopReason) {
	s.done = true
	s.stopReason = reason
	logrus.Infof("[tick %07d] simulation ended (%s)", s.Clock, reason)
}

func (s *Simulator) allEmpty() bool {
	for i := range s.levels {
		if s.levels[i].queue.Len() > 0 {
			return false
		}
	}
	return true
}

// dispatch runs one tick of the highest-priority ready process and then
// requeues, demotes, or exits it. Exit always wins over requeueing.
func (s *Simulator) dispatch(tick int64) {
	var p *Proc
	lvl := -1
	for i := range s.levels {
		if s.levels[i].queue.Len() > 0 {
			p = s.levels[i].queue.Dequeue()
			lvl = i
			break
		}
	}
	if p == nil {
		panic("BUG: dispatch called with every queue empty")
	}
	// Every queued proc must hold quantum; requeue paths refresh it.
	if p.TicksLeft < 1 {
		panic(fmt.Sprintf("BUG: pid %d dispatched at %s with no quantum left", p.PID, s.levels[lvl].label))
	}

	p.State = StateRunning
	p.WorkLeftMs -= s.cfg.TickUnitMs
	p.TicksLeft--
	s.Metrics.noteDispatch(p, lvl, tick)

	s.sink.Record(trace.Event{
		Kind:       trace.KindRun,
		Tick:       tick,
		PID:        p.PID,
		Name:       p.Name,
		Queue:      s.levels[lvl].label,
		ConsumedMs: s.cfg.TickUnitMs,
		WorkLeftMs: p.WorkLeftMs,
		TicksLeft:  p.TicksLeft,
	})
	logrus.Debugf("[tick %07d] ran pid=%d at %s work_left=%dms quantum_left=%d",
		tick, p.PID, s.levels[lvl].label, p.WorkLeftMs, p.TicksLeft)

	if p.WorkLeftMs <= 0 {
		p.State = StateExited
		s.Registry.Retire(p)
		s.Metrics.noteExit(p, tick, lvl)
		s.sink.Record(trace.Event{Kind: trace.KindExit, Tick: tick, PID: p.PID, Name: p.Name})
		return
	}

	p.State = StateReady
	switch {
	case p.TicksLeft > 0:
		// quantum remains: back of the same level
		s.levels[lvl].queue.Enqueue(p)
		s.Metrics.Requeues++
	case lvl < len(s.levels)-1:
		// quantum expired: drop one level, granted that level's full quantum
		p.Level = lvl + 1
		p.TicksLeft = s.levels[lvl+1].quantum
		s.levels[lvl+1].queue.Enqueue(p)
		s.Metrics.Demotions++
	default:
		// bottom level: refresh the quantum in place
		p.TicksLeft = s.levels[lvl].quantum
		s.levels[lvl].queue.Enqueue(p)
		s.Metrics.Requeues++
	}
}

// ProcRef is a point-in-time view of one queued process.
type ProcRef struct {
	PID        int    `json:"pid"`
	Name       string `json:"name"`
	WorkLeftMs int    `json:"work_left"`
	TicksLeft  int    `json:"ticks_left"`
}

// LevelSnapshot is a point-in-time view of one priority level.
type LevelSnapshot struct {
	Label   string    `json:"label"`
	Quantum int       `json:"quantum"`
	Procs   []ProcRef `json:"procs"`
}

// Snapshot captures every queue front-to-back. The result is detached from
// live state and safe to retain across ticks.
func (s *Simulator) Snapshot() []LevelSnapshot {
	snap := make([]LevelSnapshot, len(s.levels))
	for i := range s.levels {
		ls := LevelSnapshot{
			Label:   s.levels[i].label,
			Quantum: s.levels[i].quantum,
			Procs:   make([]ProcRef, 0, s.levels[i].queue.Len()),
		}
		for _, p := range s.levels[i].queue.Items() {
			ls.Procs = append(ls.Procs, ProcRef{
				PID:        p.PID,
				Name:       p.Name,
				WorkLeftMs: p.WorkLeftMs,
				TicksLeft:  p.TicksLeft,
			})
		}
		snap[i] = ls
	}
	return snap
}

// Summary assembles the end-of-run report.
func (s *Simulator) Summary() *Summary {
	return s.Metrics.summarize(s.cfg, s.stopReason)
}
