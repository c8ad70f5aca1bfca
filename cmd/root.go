package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/proywm/sched-simulation/sim"
	"github.com/proywm/sched-simulation/sim/trace"
	"github.com/proywm/sched-simulation/sim/workload"
)

var (
	// CLI flags for the scheduler run
	cmdline     string // workload command string, e.g. "spin 10000 &; spin 200000 &;"
	configPath  string // optional YAML scheduler config
	traceFormat string // trace rendering: text or json
	summaryPath string // optional end-of-run summary JSON file
	logLevel    string // log verbosity level
)

// rootCmd runs the scheduler simulation and prints the trace to stdout.
// The workload may be given as a positional argument or via --cmd; with
// neither, the classic three-spin demo workload runs.
var rootCmd = &cobra.Command{
	Use:   "mlfqsim [command-string]",
	Short: "Discrete-event simulator for a multi-level feedback queue CPU scheduler",
	Long: `mlfqsim replays a workload of CPU-bound spin commands through a
multi-level feedback queue scheduler and prints one trace line per tick.
The trace is consumed by visualizers; its line format is a contract.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
	Run: func(cmd *cobra.Command, args []string) {
		format, err := trace.ParseFormat(traceFormat)
		if err != nil {
			logrus.Fatalf("Invalid trace format: %v", err)
		}

		cfg := sim.DefaultConfig()
		if configPath != "" {
			cfg, err = sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Unable to load config: %v", err)
			}
		}

		command := cmdline
		if len(args) == 1 {
			command = args[0]
		}
		if command == "" {
			command = workload.DefaultCommand
		}
		specs := workload.Parse(command)
		logrus.Infof("Starting simulation with %d procs across %d levels", len(specs), len(cfg.Levels))

		s, err := sim.NewSimulator(cfg, trace.NewWriter(cmd.OutOrStdout(), format))
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		for _, spec := range specs {
			s.Admit(spec.Name, spec.WorkMs)
		}

		startTime := time.Now()
		reason := s.Run()
		logrus.Infof("Simulation complete: %d admitted, %d exited, stopped %s after %d ticks (wall %v)",
			s.Metrics.Admitted, s.Metrics.Exited, reason, s.Clock, time.Since(startTime))

		if summaryPath != "" {
			if err := writeSummary(s.Summary(), summaryPath); err != nil {
				logrus.Fatalf("Unable to write summary: %v", err)
			}
		}
	},
}

// writeSummary renders the end-of-run report as indented JSON.
func writeSummary(sum *sim.Summary, path string) error {
	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML scheduler config (defaults to the classic 1/2/4 setup)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.Flags().StringVar(&cmdline, "cmd", "", "Workload command string (overridden by the positional argument)")
	rootCmd.Flags().StringVar(&traceFormat, "format", "text", "Trace format: text or json")
	rootCmd.Flags().StringVar(&summaryPath, "summary", "", "Write an end-of-run summary JSON to this file")
}
