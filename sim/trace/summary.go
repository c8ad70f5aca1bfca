package trace

// Summary aggregates per-process statistics from a collected event stream.
type Summary struct {
	TotalEvents int
	RunTicks    int
	IdleTicks   int
	Exits       int

	TicksByPID  map[int]int      // pid → run ticks consumed
	QueuesByPID map[int][]string // pid → queue label per run, in dispatch order
	ExitTicks   map[int]int64    // pid → tick of the exit record
	Names       map[int]string   // pid → process name
}

// Summarize computes aggregate statistics from a Collector.
// Safe for nil or empty collectors (returns zero-value fields).
func Summarize(c *Collector) *Summary {
	summary := &Summary{
		TicksByPID:  make(map[int]int),
		QueuesByPID: make(map[int][]string),
		ExitTicks:   make(map[int]int64),
		Names:       make(map[int]string),
	}
	if c == nil {
		return summary
	}

	summary.TotalEvents = len(c.Events)
	for _, e := range c.Events {
		switch e.Kind {
		case KindRun:
			summary.RunTicks++
			summary.TicksByPID[e.PID]++
			summary.QueuesByPID[e.PID] = append(summary.QueuesByPID[e.PID], e.Queue)
			summary.Names[e.PID] = e.Name
		case KindIdle:
			summary.IdleTicks++
		case KindExit:
			summary.Exits++
			summary.ExitTicks[e.PID] = e.Tick
		}
	}

	return summary
}
