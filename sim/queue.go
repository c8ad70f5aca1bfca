// Implements the RunQueue, the FIFO lane of ready processes owned by each
// priority level.

package sim

import (
	"fmt"
	"strings"
)

// RunQueue represents a FIFO queue of ready processes. Every priority level
// owns exactly one RunQueue, and the engine keeps each process linked into
// at most one queue at a time.
type RunQueue struct {
	queue []*Proc
}

// Enqueue adds a process to the back of the queue.
func (rq *RunQueue) Enqueue(p *Proc) {
	if p == nil {
		panic("Enqueue: proc must not be nil")
	}
	rq.queue = append(rq.queue, p)
}

// Dequeue removes and returns the process at the front of the queue.
// Returns nil if the queue is empty.
func (rq *RunQueue) Dequeue() *Proc {
	if len(rq.queue) == 0 {
		return nil
	}
	head := rq.queue[0]
	rq.queue = rq.queue[1:]
	return head
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *RunQueue) Peek() *Proc {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// Len returns the number of processes in the queue.
func (rq *RunQueue) Len() int {
	return len(rq.queue)
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (rq *RunQueue) Items() []*Proc {
	return rq.queue
}

func (rq *RunQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(fmt.Sprint(p.PID))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
