// Package unwrap recovers a continuous phase field from its wrapped values (in (-pi, pi]) on a square grid by
// repeated minimum cuts: every iteration lifts the sink side of a cut by one period, until a cut no longer splits
// the grid.
package unwrap

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

// MaxIterations bounds the number of cuts per solve.
const MaxIterations = 200

// Edge between two grid points; the phase difference is taken as wrapped[T] - wrapped[S].
type Edge struct {
	S, T uint32
}

// Grid returns the 4-connected edges of a size x size grid in row-major order.
func Grid(size int) []Edge {
	edges := make([]Edge, 0, 2*size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			id := uint32(y*size + x)
			if x < size-1 {
				edges = append(edges, Edge{id, id + 1})
			}
			if y < size-1 {
				edges = append(edges, Edge{id, id + uint32(size)})
			}
		}
	}
	return edges
}

// Wrap maps a phase into (-pi, pi].
func Wrap(phi float64) float64 {
	return math.Atan2(math.Sin(phi), math.Cos(phi))
}

// Ambiguities returns, per edge, the number of periods the wrapped difference is off from the nearest estimate.
func Ambiguities(wrapped []float64, edges []Edge) []int32 {
	ambig := make([]int32, len(edges))
	for i, e := range edges {
		dphi := wrapped[e.T] - wrapped[e.S]
		ambig[i] = -int32(math.Round((dphi - Wrap(dphi)) / (2 * math.Pi)))
	}
	return ambig
}

// Result of one solve.
type Result struct {
	X          []int32 // Periods added to each point.
	Iterations int
	Flows      []int64 // Cut value of every iteration.
}

// Solve computes the period offsets for npt points. Each iteration builds a fresh undirected problem from factory:
// edges whose shifted ambiguity is zero get a random weight, the others vote for terminal weights at their ends.
func Solve(npt uint32, edges []Edge, ambig []int32, factory graph.UndirectedFactory, rng *rand.Rand) Result {
	res := Result{X: make([]int32, npt)}
	tweights := make([]int64, npt)
	setup, solve := utils.Watch{}, utils.Watch{}

	for res.Iterations < MaxIterations {
		res.Iterations++
		setup.Tic()
		g := factory(npt)
		for i := range tweights {
			tweights[i] = 0
		}
		for i, e := range edges {
			s, t := e.S, e.T
			shifted := ambig[i] + res.X[s] - res.X[t]
			if shifted < 0 {
				s, t = t, s
			}
			if shifted == 0 {
				g.AddArc(s, t, int64(100+rng.Intn(10000)))
			} else {
				tweights[s]++
				tweights[t]--
			}
		}
		for i, tw := range tweights {
			if utils.Abs(tw) <= 1 {
				continue
			}
			if tw > 0 {
				g.AddTerminalWeights(uint32(i), tw, 0)
			} else {
				g.AddTerminalWeights(uint32(i), 0, -tw)
			}
		}
		setup.Toc()

		solve.Tic()
		flow := g.ComputeMaxFlow()
		solve.Toc()
		res.Flows = append(res.Flows, flow)

		somethingSource, somethingSink := false, false
		for i := range res.X {
			if g.SegmentOf(uint32(i)) == graph.SINK {
				res.X[i]++
				somethingSink = true
			} else {
				somethingSource = true
			}
		}
		log.Debug().Msg("unwrap: iteration " + utils.V(res.Iterations) + " flow " + utils.V(flow))
		if !somethingSink || !somethingSource {
			break
		}
	}
	log.Info().Msg("unwrap: " + utils.V(res.Iterations) + " iterations, setup " + utils.F("%.3f", setup.Seconds()) +
		"s, maxflow " + utils.F("%.3f", solve.Seconds()) + "s")
	return res
}

// Unwrap unwraps a size x size field.
func Unwrap(size int, wrapped []float64, factory graph.UndirectedFactory, rng *rand.Rand) ([]float64, Result) {
	npt := size * size
	edges := Grid(size)
	res := Solve(uint32(npt), edges, Ambiguities(wrapped, edges), factory, rng)
	unwrapped := make([]float64, npt)
	for i := range unwrapped {
		unwrapped[i] = wrapped[i] + 2*math.Pi*float64(res.X[i])
	}
	return unwrapped, res
}
