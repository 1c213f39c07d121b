package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/unwrap"
	"github.com/ScottSallinen/cutflow/utils"
)

// Writes a wrapped gaussian field to stdout: cf-gaussian SIZE GAUSSIAN_SIGMA NOISE_SIGMA SCALE
func main() {
	utils.SetLoggerOutput(os.Stderr)
	seedPtr := flag.Uint64("seed", 0, "Random seed for the noise (0 uses the clock).")
	debugPtr := flag.Int("debug", 0, "Level 0 for info, 1 for debug, 2 for trace.")
	flag.Parse()
	utils.SetLevel(*debugPtr)

	if flag.NArg() != 4 {
		log.Error().Msg("Usage: cf-gaussian [-seed N] SIZE GAUSSIAN_SIGMA NOISE_SIGMA SCALE")
		os.Exit(1)
	}
	size, err := strconv.Atoi(flag.Arg(0))
	enforce.ENFORCE(err)
	enforce.ENFORCE(size > 0, "size must be positive")
	params := make([]float64, 3)
	for i := range params {
		params[i], err = strconv.ParseFloat(flag.Arg(i+1), 64)
		enforce.ENFORCE(err)
	}
	enforce.ENFORCE(params[0] != 0, "gaussian sigma must not be zero")

	seed := *seedPtr
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	field := unwrap.WrapField(unwrap.Gaussian(size, params[0], params[1], params[2], rand.NewSource(seed)))
	enforce.ENFORCE(unwrap.WriteField(os.Stdout, size, field))
	log.Debug().Msg("Wrote a " + utils.V(size) + "x" + utils.V(size) + " field, seed " + utils.V(seed))
}
