package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execRoot runs the CLI with the given argv and returns its combined output.
// Flag variables are package-level and persist across Execute calls, so the
// helper restores them afterwards to keep tests independent.
func execRoot(t *testing.T, args ...string) string {
	t.Helper()
	defer func(cl, cp, tf, sp, ll string) {
		cmdline, configPath, traceFormat, summaryPath, logLevel = cl, cp, tf, sp, ll
	}(cmdline, configPath, traceFormat, summaryPath, logLevel)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestRootCmd_PositionalWorkload_ExactTrace(t *testing.T) {
	// GIVEN a two-proc workload passed as the positional argument
	out := execRoot(t, "spin 10 &; spin 20 &;")

	// THEN the trace matches the reference line for line
	want := []string{
		"Process spin 1 has consumed 10 ms in L0",
		"Process spin 1 EXIT",
		"Process spin 2 has consumed 10 ms in L0",
		"Process spin 2 has consumed 10 ms in L1",
		"Process spin 2 EXIT",
	}
	for i := 0; i < 10; i++ {
		want = append(want, "Process idle 0 has consumed 10 ms in IDLE")
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", out)
}

func TestRootCmd_PositionalOverridesCmdFlag(t *testing.T) {
	// GIVEN both a positional workload (20 ms) and --cmd (10 ms)
	out := execRoot(t, "spin 20 &;", "--cmd", "spin 10 &;")

	// THEN the positional one runs: 20 ms of demand reaches level 1
	assert.Equal(t, 1, strings.Count(out, "in L1"))
}

func TestRootCmd_CmdFlagWorkload(t *testing.T) {
	// GIVEN a workload passed via --cmd only
	out := execRoot(t, "--cmd", "spin 10 &;")

	// THEN it runs and exits within level 0
	assert.Contains(t, out, "Process spin 1 has consumed 10 ms in L0")
	assert.Contains(t, out, "Process spin 1 EXIT")
	assert.NotContains(t, out, "in L1")
}

func TestRootCmd_JSONFormat_RunLinesAreJSON_ExitStaysText(t *testing.T) {
	// GIVEN a single-proc workload traced as JSON
	out := execRoot(t, "spin 10 &;", "--format", "json")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 2)

	// THEN the run line is a JSON object with the visualizer's keys
	assert.Equal(t,
		`{"t":0,"pid":1,"name":"spin","queue":"L0","ms":10,"work_left":0,"ticks_left":0}`,
		lines[0])

	// AND the exit line stays in text form
	assert.Equal(t, "Process spin 1 EXIT", lines[1])

	// AND the idle tail is JSON with the reserved pid 0
	var idle map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &idle))
	assert.Equal(t, float64(0), idle["pid"])
	assert.Equal(t, "idle", idle["name"])
	assert.Equal(t, "IDLE", idle["queue"])
}

func TestRootCmd_ConfigFile_CustomLevels(t *testing.T) {
	// GIVEN a config with a single labeled level of quantum 2
	path := filepath.Join(t.TempDir(), "sched.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`levels:
  - quantum_ticks: 2
    label: HIGH
`), 0644))

	// WHEN a 30 ms proc runs under it
	out := execRoot(t, "spin 30 &;", "--config", path)

	// THEN every dispatch uses the configured label
	assert.Equal(t, 3, strings.Count(out, "has consumed 10 ms in HIGH"))
	assert.Equal(t, 1, strings.Count(out, "EXIT"))
	assert.NotContains(t, out, "in L0")
}

func TestRootCmd_SummaryFile_WritesReport(t *testing.T) {
	// GIVEN a run asked to write its summary
	path := filepath.Join(t.TempDir(), "summary.json")
	execRoot(t, "spin 10 &;", "--summary", path)

	// THEN the file holds the end-of-run report
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var sum map[string]any
	require.NoError(t, json.Unmarshal(data, &sum))
	assert.Equal(t, float64(1), sum["admitted"])
	assert.Equal(t, float64(1), sum["exited"])
	assert.Equal(t, "quiescent", sum["stop_reason"])
	assert.Equal(t, float64(10), sum["avg_turnaround_ms"])
}

func TestWriteSummary_UnwritablePath_ReturnsError(t *testing.T) {
	err := writeSummary(nil, filepath.Join(t.TempDir(), "missing", "summary.json"))
	assert.ErrorContains(t, err, "write summary")
}
