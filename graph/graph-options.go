package graph

import (
	"flag"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/cutflow/utils"
)

type Options struct {
	Engines          []string // Engine names to run (pseudoflow, augment, bidir). The first one is the primary engine.
	LowestLabel      bool     // Pseudoflow: process the lowest-label strong root first, instead of the highest.
	FifoBuckets      bool     // Pseudoflow: root buckets are FIFO instead of LIFO. Only affects performance.
	RecoverFlow      bool     // Pseudoflow: turn the final pseudoflow into a feasible flow, making per-arc flows available.
	CheckCorrectness bool     // Verify results: optimality check after flow recovery, cut recount against the segmentation.
	Contract         bool     // Undirected problems: contract nodes that no minimum cut can separate before solving.
	DebugLevel       uint8    // Level 0 for info, 1 for debug, 2 for trace.
	Threads          int      // Independent engine instances solved at the same time.
	Repeat           int      // Times each instance is solved per engine (timings are reported as the median).
	Seed             uint64   // Seed for randomized parts (edge weights for unwrapping). 0 picks one from the clock.
	Name             string   // Input file. Empty means standard input where the binary supports it.
	Config           string   // Optional suite configuration file.
	Output           string   // Optional report output file.
	LogFile          string   // Optional rotating JSON log file.
}

// Declare your own flags before you call this function.
func FlagsToOptions() (options Options) {
	graphPtr := flag.String("g", "", "Input file.")
	enginePtr := flag.String("e", "pseudoflow", "Comma separated engines: pseudoflow, augment, bidir, or all.")
	lowestPtr := flag.Bool("lowest", false, "Pseudoflow: use the lowest-label variant.")
	fifoPtr := flag.Bool("fifo", false, "Pseudoflow: FIFO root buckets (default LIFO).")
	recoverPtr := flag.Bool("recover", false, "Pseudoflow: recover a feasible flow after the cut is found.")
	checkPtr := flag.Bool("c", false, "Check correctness after execution (implies -recover for pseudoflow).")
	contractPtr := flag.Bool("contract", true, "Undirected problems: contract safe nodes before solving.")
	threadPtr := flag.Int("t", 1, "Number of independent instances to solve concurrently.")
	repeatPtr := flag.Int("r", 1, "Repeat each solve this many times.")
	seedPtr := flag.Uint64("seed", 0, "Random seed (0 uses the clock).")
	configPtr := flag.String("config", "", "Suite configuration file (yaml/json/toml).")
	outputPtr := flag.String("o", "", "Report output file.")
	logFilePtr := flag.String("logfile", "", "Also write JSON logs to this file (rotated).")
	debugPtr := flag.Int("debug", 0, "Adds extra debug output. Level 0 for info, 1 for debug, 2 for trace.")
	colourPtr := flag.Bool("nc", false, "Removes the colouring from the log output.")
	flag.Parse()

	if *colourPtr {
		utils.SetLoggerConsole(true)
	}
	utils.SetLevel(*debugPtr)
	if *logFilePtr != "" {
		utils.SetLoggerFile(*logFilePtr, 64)
	}

	engines := ParseEngines(*enginePtr)
	if len(engines) == 0 {
		log.Error().Msg("No engine selected.")
		flag.Usage()
		os.Exit(1)
	}

	threadCount := *threadPtr
	if threadCount <= 0 {
		log.Panic().Msg("Invalid thread count.")
	} else if threadCount > runtime.NumCPU() {
		log.Warn().Msg("Thread count is greater than CPU count?")
	}
	if *repeatPtr <= 0 {
		log.Panic().Msg("Invalid repeat count.")
	}

	options = Options{
		Engines:          engines,
		LowestLabel:      *lowestPtr,
		FifoBuckets:      *fifoPtr,
		RecoverFlow:      *recoverPtr || *checkPtr,
		CheckCorrectness: *checkPtr,
		Contract:         *contractPtr,
		DebugLevel:       uint8(*debugPtr),
		Threads:          threadCount,
		Repeat:           *repeatPtr,
		Seed:             *seedPtr,
		Name:             *graphPtr,
		Config:           *configPtr,
		Output:           *outputPtr,
		LogFile:          *logFilePtr,
	}
	return options
}

// ParseEngines splits a comma separated engine list; "all" expands to every engine.
func ParseEngines(list string) (engines []string) {
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "":
		case "all":
			engines = append(engines, EngineNames...)
		default:
			engines = append(engines, name)
		}
	}
	return engines
}

// EngineNames lists every registered engine in a stable order.
var EngineNames = []string{"pseudoflow", "augment", "bidir"}
