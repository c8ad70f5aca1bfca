package trace

import (
	"fmt"
	"io"
)

// Format selects how events render on the wire.
type Format string

const (
	// FormatText is the classic line format (the default).
	FormatText Format = "text"
	// FormatJSON emits one JSON object per run/idle tick.
	FormatJSON Format = "json"
)

// ParseFormat parses a string into a Format. The empty string defaults
// to text.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("invalid trace format: %s (must be 'text' or 'json')", s)
	}
}

// Sink receives events as the simulation produces them.
type Sink interface {
	Record(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Record calls f(e).
func (f SinkFunc) Record(e Event) { f(e) }

// Writer renders events to w, one line per event. Exit events render as
// text in both formats (see the package comment).
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter creates a Writer emitting the given format.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Record writes one line for the event.
func (tw *Writer) Record(e Event) {
	if tw.format == FormatJSON && e.Kind != KindExit {
		fmt.Fprintln(tw.w, e.JSONLine())
		return
	}
	fmt.Fprintln(tw.w, e.Text())
}

// Collector retains events in memory, in emission order.
type Collector struct {
	Events []Event
}

// NewCollector creates a Collector ready for recording.
func NewCollector() *Collector {
	return &Collector{Events: make([]Event, 0)}
}

// Record appends the event.
func (c *Collector) Record(e Event) {
	c.Events = append(c.Events, e)
}

// Lines renders every collected event through Text().
func (c *Collector) Lines() []string {
	lines := make([]string, 0, len(c.Events))
	for _, e := range c.Events {
		lines = append(lines, e.Text())
	}
	return lines
}
