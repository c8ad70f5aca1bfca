package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/proywm/sched-simulation/sim/workload"
)

var (
	// CLI flags for workload generation
	genProcs   int     // number of spin commands to emit
	genDist    string  // sampling distribution for per-proc demand
	genMeanMs  float64 // mean demand (constant, normal)
	genStdevMs float64 // demand stddev (normal)
	genMinMs   int     // clamp floor
	genMaxMs   int     // clamp ceiling
	genAlpha   float64 // tail index (pareto)
	genSeed    uint64  // RNG seed
)

// genCmd emits a randomized workload command string, composable with the
// root command: mlfqsim "$(mlfqsim gen --procs 8 --dist pareto)".
var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a randomized spin workload command string",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := workload.GenConfig{
			Count:   genProcs,
			Dist:    genDist,
			MeanMs:  genMeanMs,
			StdevMs: genStdevMs,
			MinMs:   genMinMs,
			MaxMs:   genMaxMs,
			Alpha:   genAlpha,
			Seed:    genSeed,
		}
		specs, err := workload.Generate(cfg)
		if err != nil {
			logrus.Fatalf("Unable to generate workload: %v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), workload.Command(specs))
	},
}

func init() {
	genCmd.Flags().IntVar(&genProcs, "procs", 5, "Number of spin commands to generate")
	genCmd.Flags().StringVar(&genDist, "dist", "uniform", "Demand distribution (constant, uniform, normal, pareto)")
	genCmd.Flags().Float64Var(&genMeanMs, "mean-ms", 100000, "Mean CPU demand in ms (constant, normal; pareto scale)")
	genCmd.Flags().Float64Var(&genStdevMs, "stdev-ms", 50000, "CPU demand stddev in ms (normal)")
	genCmd.Flags().IntVar(&genMinMs, "min-ms", 10, "Minimum CPU demand in ms")
	genCmd.Flags().IntVar(&genMaxMs, "max-ms", 1000000, "Maximum CPU demand in ms")
	genCmd.Flags().Float64Var(&genAlpha, "alpha", 1.5, "Pareto tail index (pareto)")
	genCmd.Flags().Uint64Var(&genSeed, "seed", 42, "Seed for random demand generation")

	rootCmd.AddCommand(genCmd)
}
