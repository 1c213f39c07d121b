package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

// Runs DIMACS max-flow instances (-g, positional arguments, or a -config suite) through the selected engines
// and writes a CSV report to -o or stdout.
func main() {
	options := graph.FlagsToOptions()

	instances := flag.Args()
	if options.Name != "" {
		instances = append([]string{options.Name}, instances...)
	}
	if options.Config != "" {
		suite, err := LoadSuite(options.Config)
		enforce.ENFORCE(err)
		options = suite.Apply(options)
		instances = append(instances, suite.Instances...)
	}
	if len(instances) == 0 {
		log.Error().Msg("No instances given.")
		flag.Usage()
		os.Exit(1)
	}

	runID := uuid.NewString()
	log.Info().Msg("Run " + runID + ": " + utils.V(len(instances)) + " instances, engines " + utils.V(options.Engines) +
		", repeat " + utils.V(options.Repeat) + ", threads " + utils.V(options.Threads))

	var all []Result
	failed := false
	for _, path := range instances {
		results, err := RunInstance(context.Background(), path, options, runID)
		if err != nil {
			log.Error().Err(err).Msg("Instance failed: " + path)
			failed = true
		}
		for _, r := range results {
			log.Info().Msg(utils.F("%-12s", r.Engine) + " " + r.Instance + " value " + utils.V(r.Value) +
				" build " + millis(r.Build) + "ms solve " + millis(r.Solve) + "ms")
		}
		all = append(all, results...)
	}

	out := os.Stdout
	if options.Output != "" {
		out = utils.CreateFile(options.Output)
	}
	enforce.ENFORCE(WriteReport(out, all))
	if out != os.Stdout {
		enforce.ENFORCE(out.Close())
	}
	utils.MemoryStats()
	if failed {
		os.Exit(1)
	}
}
