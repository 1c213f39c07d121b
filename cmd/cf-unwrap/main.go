package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ScottSallinen/cutflow/cmd/common"
	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/unwrap"
	"github.com/ScottSallinen/cutflow/utils"
)

// Reads a wrapped field from -g (or stdin) and writes the unwrapped field to -o (or stdout).
// The first engine of -e solves the cuts; -contract toggles contraction.
func main() {
	utils.SetLoggerOutput(os.Stderr)
	options := graph.FlagsToOptions()

	var in io.Reader = os.Stdin
	if options.Name != "" {
		f := utils.OpenFile(options.Name)
		defer f.Close()
		in = f
	}
	size, wrapped, err := unwrap.ReadField(in)
	enforce.ENFORCE(err)
	log.Info().Msg("Read a " + utils.V(size) + "x" + utils.V(size) + " field.")

	factory, err := common.Undirected(options.Engines[0], options)
	enforce.ENFORCE(err)

	seed := options.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	watch := utils.Watch{}
	watch.Start()
	unwrapped, res := unwrap.Unwrap(size, wrapped, factory, rand.New(rand.NewSource(seed)))
	log.Info().Msg("Unwrapped with " + options.Engines[0] + " in " + utils.V(watch.Elapsed().Milliseconds()) + "ms, " +
		utils.V(res.Iterations) + " iterations, total cut " + utils.V(utils.Sum(res.Flows)) + ", seed " + utils.V(seed))
	if len(unwrapped) > 0 {
		log.Info().Msg("Range [" + utils.F("%.3f", floats.Min(unwrapped)) + ", " + utils.F("%.3f", floats.Max(unwrapped)) +
			"], mean " + utils.F("%.3f", stat.Mean(unwrapped, nil)))
	}

	out := os.Stdout
	if options.Output != "" {
		out = utils.CreateFile(options.Output)
		defer out.Close()
	}
	enforce.ENFORCE(unwrap.WriteField(out, size, unwrapped))
}
