// Defines the Proc struct that models an individual process in the
// simulation, and the Registry that allocates pids and tracks live procs.

package sim

import (
	"fmt"
)

// ProcState represents the lifecycle state of a process.
type ProcState string

const (
	StateReady   ProcState = "ready"
	StateRunning ProcState = "running"
	StateExited  ProcState = "exited"
)

// Proc models a single CPU-bound process. Each proc has:
// - a pid and a name (the workload directive that created it)
// - remaining CPU demand in ms
// - its current priority level and the quantum remaining there
type Proc struct {
	PID  int
	Name string

	WorkLeftMs int // remaining CPU demand; the proc exits when this hits 0
	Level      int // index of the priority level whose queue holds the proc
	TicksLeft  int // remaining quantum at the current level, in ticks

	State        ProcState
	AdmittedTick int64 // clock value when the proc entered level 0
}

// String returns a human-readable representation of a Proc.
func (p *Proc) String() string {
	return fmt.Sprintf("Proc: (PID: %d, Name: %s, State: %s, WorkLeft: %dms, Level: %d, TicksLeft: %d)",
		p.PID, p.Name, p.State, p.WorkLeftMs, p.Level, p.TicksLeft)
}

// Registry allocates process identifiers and tracks live processes.
//
// pids increase monotonically from 1 and are never reused. The counter is
// per-Registry state: admitting two workloads through one Registry continues
// the sequence, while a fresh Registry restarts at 1.
type Registry struct {
	nextPID int
	live    map[int]*Proc
}

// NewRegistry creates an empty Registry whose first pid will be 1.
func NewRegistry() *Registry {
	return &Registry{nextPID: 1, live: make(map[int]*Proc)}
}

// NewProc creates a ready proc with a fresh pid and the given CPU demand.
func (r *Registry) NewProc(name string, workMs int) *Proc {
	p := &Proc{
		PID:        r.nextPID,
		Name:       name,
		WorkLeftMs: workMs,
		State:      StateReady,
	}
	r.nextPID++
	r.live[p.PID] = p
	return p
}

// Retire removes an exited proc from the live set.
func (r *Registry) Retire(p *Proc) {
	delete(r.live, p.PID)
}

// RetireAll removes every live proc, e.g. when a session replaces its
// workload mid-run. The pid sequence is untouched.
func (r *Registry) RetireAll() {
	for pid := range r.live {
		delete(r.live, pid)
	}
}

// Live returns the number of live (admitted, not yet exited) processes.
func (r *Registry) Live() int {
	return len(r.live)
}

// IsLive reports whether the given pid is currently live.
func (r *Registry) IsLive(pid int) bool {
	_, ok := r.live[pid]
	return ok
}
