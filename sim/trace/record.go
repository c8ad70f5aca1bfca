// Package trace defines the scheduling trace record and its wire formats.
// This package has no dependencies on sim/; it stores pure data types.
//
// The text format is a strict contract consumed by external timeline
// tooling; the byte layout of every line matters. Three shapes exist:
//
//	Process <name> <pid> has consumed <ms> ms in <label>
//	Process <name> <pid> EXIT
//	Process idle 0 has consumed <ms> ms in IDLE
//
// The JSON format emits one object per run or idle tick with the keys
// t, pid, name, queue, ms, work_left, ticks_left. Exit records have no
// JSON shape and render as text in both formats; the timeline tooling
// matches EXIT lines by regex regardless of format.
package trace

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the three record shapes.
type Kind int

const (
	// KindRun is a process consuming one tick of CPU at some level.
	KindRun Kind = iota
	// KindIdle is a tick during which every queue was empty.
	KindIdle
	// KindExit marks a process leaving the system; it shares the tick of
	// the run record that exhausted its work.
	KindExit
)

// String returns the record kind as a short lowercase word.
func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindIdle:
		return "idle"
	case KindExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Idle records carry a fixed pseudo-process identity.
const (
	IdlePID   = 0
	IdleName  = "idle"
	IdleQueue = "IDLE"
)

// Event is a single scheduling observation. One run or idle event is
// produced per tick, plus an exit event on a process's final tick.
type Event struct {
	Kind Kind
	Tick int64 // 0-based tick index; exit events reuse the final run's tick

	PID   int
	Name  string
	Queue string // level label for runs, IdleQueue for idle ticks

	ConsumedMs int // CPU consumed this tick (the tick unit); 0 for exits
	WorkLeftMs int // remaining work after this tick; may be negative on the final tick
	TicksLeft  int // remaining quantum after this tick
}

// NewIdle builds the idle record for one empty tick.
func NewIdle(tick int64, ms int) Event {
	return Event{
		Kind:       KindIdle,
		Tick:       tick,
		PID:        IdlePID,
		Name:       IdleName,
		Queue:      IdleQueue,
		ConsumedMs: ms,
	}
}

// Text renders the event in the line format external tooling parses.
func (e Event) Text() string {
	if e.Kind == KindExit {
		return fmt.Sprintf("Process %s %d EXIT", e.Name, e.PID)
	}
	return fmt.Sprintf("Process %s %d has consumed %d ms in %s", e.Name, e.PID, e.ConsumedMs, e.Queue)
}

// jsonEvent fixes the key names and order of the JSON line format.
type jsonEvent struct {
	T         int64  `json:"t"`
	PID       int    `json:"pid"`
	Name      string `json:"name"`
	Queue     string `json:"queue"`
	MS        int    `json:"ms"`
	WorkLeft  int    `json:"work_left"`
	TicksLeft int    `json:"ticks_left"`
}

// JSONLine renders the event as a single-line JSON object.
func (e Event) JSONLine() string {
	b, err := json.Marshal(jsonEvent{
		T:         e.Tick,
		PID:       e.PID,
		Name:      e.Name,
		Queue:     e.Queue,
		MS:        e.ConsumedMs,
		WorkLeft:  e.WorkLeftMs,
		TicksLeft: e.TicksLeft,
	})
	if err != nil {
		panic(fmt.Sprintf("BUG: trace event does not marshal: %v", err))
	}
	return string(b)
}
