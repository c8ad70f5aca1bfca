// Package workload loads and synthesizes spin workloads: the command
// strings that describe which processes to admit and how much CPU each
// one demands.
package workload

import (
	"strings"
)

// CommandName is the only directive the mini-language recognizes.
const CommandName = "spin"

// DefaultCommand is the workload simulated when no command string is given.
const DefaultCommand = "spin 10000 &; spin 200000 &; spin 3000000 &;"

// Spec describes one process to admit: a name and its total CPU demand.
type Spec struct {
	Name   string
	WorkMs int
}

// Parse scans a command string for spin directives and returns one Spec
// per well-formed one, in order of appearance.
//
// The scanner is deliberately permissive:
//   - whitespace, ';' and '&' between directives are noise;
//   - "spin" may be followed directly by digits ("spin100" is accepted);
//   - a directive with no digits or a zero amount is silently dropped;
//   - after a recognized "spin", everything up to the next ';' is ignored,
//     so at most one directive is taken per ';'-separated segment;
//   - unrecognized tokens skip their whole segment.
//
// Parsing has no side effects: the same string always yields the same
// specs, and pids are assigned only later, at admission.
func Parse(cmdline string) []Spec {
	specs := make([]Spec, 0)
	i, n := 0, len(cmdline)
	for i < n {
		for i < n && isNoise(cmdline[i]) {
			i++
		}
		if i >= n {
			break
		}
		if strings.HasPrefix(cmdline[i:], CommandName) {
			i += len(CommandName)
			for i < n && isBlank(cmdline[i]) {
				i++
			}
			ms := 0
			for i < n && cmdline[i] >= '0' && cmdline[i] <= '9' {
				ms = ms*10 + int(cmdline[i]-'0')
				i++
			}
			if ms > 0 {
				specs = append(specs, Spec{Name: CommandName, WorkMs: ms})
			}
		}
		for i < n && cmdline[i] != ';' {
			i++
		}
	}
	return specs
}

func isNoise(c byte) bool {
	return c == ' ' || c == '\t' || c == ';' || c == '&'
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
