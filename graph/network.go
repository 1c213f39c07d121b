package graph

import (
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/enforce"
)

// Arc of a Network: capacity From->To plus the residual capacity To->From.
type Arc struct {
	From, To uint32
	Cap      int64
	RevCap   int64
}

// Terminal weights of one node.
type Terminal struct {
	Node   uint32
	Source int64
	Sink   int64
}

// Network is a plain description of a directed instance, replayable into any engine.
// With Undirected set, each arc is an undirected edge of capacity Cap (RevCap ignored).
type Network struct {
	Nodes      uint32
	Arcs       []Arc
	Terminals  []Terminal
	Undirected bool
}

// Build replays the network into a new engine from factory.
func (n *Network) Build(factory Factory) FlowEngine {
	enforce.ENFORCE(!n.Undirected, "Build called on an undirected network")
	engine := factory(n.Nodes, uint32(len(n.Arcs)))
	for _, a := range n.Arcs {
		engine.AddArc(a.From, a.To, a.Cap, a.RevCap)
	}
	for _, t := range n.Terminals {
		engine.AddTerminalWeights(t.Node, t.Source, t.Sink)
	}
	return engine
}

// BuildUndirected replays an undirected network into a new engine from factory.
func (n *Network) BuildUndirected(factory UndirectedFactory) UndirectedFlowEngine {
	enforce.ENFORCE(n.Undirected, "BuildUndirected called on a directed network")
	engine := factory(n.Nodes)
	for _, a := range n.Arcs {
		engine.AddArc(a.From, a.To, a.Cap)
	}
	for _, t := range n.Terminals {
		engine.AddTerminalWeights(t.Node, t.Source, t.Sink)
	}
	return engine
}

// CutValue is the capacity leaving the source side under the given segmentation.
func (n *Network) CutValue(segmentOf func(node uint32) bool) (cut int64) {
	for _, a := range n.Arcs {
		from, to := segmentOf(a.From), segmentOf(a.To)
		if from == to {
			continue
		}
		if n.Undirected {
			cut += a.Cap
		} else if from == SOURCE {
			cut += a.Cap
		} else {
			cut += a.RevCap
		}
	}
	for _, t := range n.Terminals {
		if segmentOf(t.Node) == SINK {
			cut += t.Source
		} else {
			cut += t.Sink
		}
	}
	return cut
}

// BruteForceMinCut enumerates every bipartition. Only for small test instances.
func (n *Network) BruteForceMinCut() int64 {
	enforce.ENFORCE(n.Nodes <= 20, "BruteForceMinCut on ", n.Nodes, " nodes")
	best := int64(-1)
	for mask := uint64(0); mask < uint64(1)<<n.Nodes; mask++ {
		cut := n.CutValue(func(node uint32) bool { return mask&(uint64(1)<<node) != 0 })
		if best < 0 || cut < best {
			best = cut
		}
	}
	return best
}

// RandomNetwork draws arcs between distinct random nodes and sparse terminal weights.
func RandomNetwork(rng *rand.Rand, nodes uint32, arcs int, maxCap int64, undirected bool) *Network {
	n := &Network{Nodes: nodes, Undirected: undirected}
	if nodes < 2 {
		return n
	}
	for i := 0; i < arcs; i++ {
		from := uint32(rng.Intn(int(nodes)))
		to := uint32(rng.Intn(int(nodes) - 1))
		if to >= from {
			to++
		}
		a := Arc{From: from, To: to, Cap: rng.Int63n(maxCap + 1)}
		if !undirected && rng.Intn(3) == 0 {
			a.RevCap = rng.Int63n(maxCap + 1)
		}
		n.Arcs = append(n.Arcs, a)
	}
	for v := uint32(0); v < nodes; v++ {
		switch rng.Intn(4) {
		case 0:
			n.Terminals = append(n.Terminals, Terminal{Node: v, Source: rng.Int63n(maxCap) + 1})
		case 1:
			n.Terminals = append(n.Terminals, Terminal{Node: v, Sink: rng.Int63n(maxCap) + 1})
		case 2:
			if rng.Intn(4) == 0 {
				n.Terminals = append(n.Terminals, Terminal{Node: v, Source: rng.Int63n(maxCap + 1), Sink: rng.Int63n(maxCap + 1)})
			}
		}
	}
	return n
}
