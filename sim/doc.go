// Package sim provides the deterministic MLFQ scheduling engine.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - proc.go: Proc lifecycle (ready → running → exited) and pid allocation
//   - queue.go: RunQueue, the FIFO lane owned by each priority level
//   - simulator.go: the tick driver and the per-tick dispatch algorithm
//
// # Architecture
//
// The engine is a discrete-event simulation quantized to whole ticks.
// Virtual time advances only through Simulator.Tick; wall-clock time never
// influences scheduling decisions, so a given configuration and workload
// always produce the same trace.
//
// Supporting packages:
//   - sim/workload: command-string parsing and synthetic workload generation
//   - sim/trace: the trace record and its text/JSON wire formats
//
// The sim package pushes trace.Event values into a trace.Sink supplied at
// construction; it never formats output itself. Configuration (levels,
// quanta, tick unit, termination bounds) arrives as a validated Config.
package sim
