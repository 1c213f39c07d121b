package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/dimacs"
	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

// Writes DIMACS instances: a random network, or with -g an existing instance with its arc lines shuffled.
func main() {
	nPtr := flag.Uint("n", 1000, "Random network: node count (source and sink excluded).")
	mPtr := flag.Int("m", 4000, "Random network: arc count.")
	capPtr := flag.Int64("cap", 1000, "Random network: maximum capacity.")
	undirectedPtr := flag.Bool("u", false, "Random network: undirected edges (written as arc pairs).")
	utils.SetLoggerOutput(os.Stderr)
	options := graph.FlagsToOptions()

	seed := options.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	var inst *dimacs.Instance
	var comment string
	if options.Name != "" {
		var err error
		inst, err = dimacs.ParseFile(options.Name)
		enforce.ENFORCE(err)
		utils.Shuffle(inst.Arcs, rng)
		comment = "shuffled " + options.Name + " seed " + utils.V(seed)
	} else {
		net := graph.RandomNetwork(rng, uint32(*nPtr), *mPtr, *capPtr, *undirectedPtr)
		inst = dimacs.FromNetwork(net)
		comment = "random network seed " + utils.V(seed)
	}

	out := os.Stdout
	if options.Output != "" {
		out = utils.CreateFile(options.Output)
		defer out.Close()
	}
	enforce.ENFORCE(dimacs.Write(out, inst, comment))
	log.Info().Msg("Wrote " + utils.V(inst.Nodes) + " nodes, " + utils.V(len(inst.Arcs)) + " arcs (" + comment + ")")
}
