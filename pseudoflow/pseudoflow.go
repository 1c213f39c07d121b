// Package pseudoflow implements the Hochbaum pseudoflow algorithm (HPF): highest-label (or lowest-label)
// selection of strong roots over a normalized tree forest, the gap heuristic, and an optional recovery pass that
// turns the final pseudoflow into a feasible flow.
package pseudoflow

import (
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

const none int32 = -1

type node struct {
	label       uint32
	excess      int64
	parent      int32
	childList   int32
	next        int32 // Next sibling, or next root in a bucket.
	nextScan    int32
	arcToParent int32
	nextArc     int32
	numAdjacent uint32
	visited     uint32
	outOfTree   []int32
}

type arc struct {
	from      int32
	to        int32
	flow      int64
	capacity  int64
	direction uint8 // 1: the tree child is from. 0: the tree child is to.
}

type bucket struct {
	start int32
	end   int32
}

// Stats counts the work done by one solve.
type Stats struct {
	Pushes   uint64
	Merges   uint64
	Relabels uint64
	Gaps     uint64
	ArcScans uint64
}

// Engine is one pseudoflow instance. It owns all of its storage; independent engines may solve concurrently.
type Engine struct {
	nodeCount uint32 // Caller nodes.
	numNodes  uint32 // Caller nodes plus source and sink; also the lift label.
	source    int32
	sink      int32

	nodes      []node
	arcs       []arc
	sourceCap  []int64
	sinkCap    []int64
	arcHint    uint32
	realArcs   uint32 // Arc pairs added by AddArc.
	buckets    []bucket
	labelCount []uint32

	highestStrongLabel uint32
	lowestStrongLabel  uint32

	lowestLabel bool
	fifo        bool
	recover     bool
	check       bool

	state  graph.State
	offset int64
	value  int64
	stats  Stats
}

// New allocates an engine for nodeCount nodes and at most arcCountHint AddArc calls.
func New(nodeCount, arcCountHint uint32, options graph.Options) *Engine {
	numNodes := uint64(nodeCount) + 2
	graph.CheckArena(numNodes+1, 2*uint64(arcCountHint)+uint64(nodeCount))

	e := &Engine{
		nodeCount:   nodeCount,
		numNodes:    uint32(numNodes),
		source:      int32(nodeCount),
		sink:        int32(nodeCount) + 1,
		nodes:       make([]node, numNodes),
		arcs:        make([]arc, 0, 2*uint64(arcCountHint)+uint64(nodeCount)),
		sourceCap:   make([]int64, nodeCount),
		sinkCap:     make([]int64, nodeCount),
		arcHint:     arcCountHint,
		lowestLabel: options.LowestLabel,
		fifo:        options.FifoBuckets,
		recover:     options.RecoverFlow || options.CheckCorrectness,
		check:       options.CheckCorrectness,
	}
	for i := range e.nodes {
		e.nodes[i] = node{parent: none, childList: none, next: none, nextScan: none, arcToParent: none}
	}
	return e
}

// Factory returns a graph.Factory producing pseudoflow engines with the given options.
func Factory(options graph.Options) graph.Factory {
	return func(nodeCount, arcCountHint uint32) graph.FlowEngine {
		return New(nodeCount, arcCountHint, options)
	}
}

func (e *Engine) AddArc(s, t uint32, fwdCap, revCap int64) {
	graph.CheckMutable(e.state, "AddArc")
	graph.CheckNode(s, e.nodeCount, "AddArc")
	graph.CheckNode(t, e.nodeCount, "AddArc")
	graph.CheckCapacity(fwdCap, "AddArc")
	graph.CheckCapacity(revCap, "AddArc")
	if e.realArcs >= e.arcHint {
		enforce.FAULT(enforce.ConfigurationFault, "AddArc: more than the declared ", e.arcHint, " arcs")
	}
	e.realArcs++
	e.arcs = append(e.arcs,
		arc{from: int32(s), to: int32(t), capacity: fwdCap, direction: 1},
		arc{from: int32(t), to: int32(s), capacity: revCap, direction: 1},
	)
}

func (e *Engine) AddTerminalWeights(node uint32, sourceCap, sinkCap int64) {
	graph.CheckMutable(e.state, "AddTerminalWeights")
	graph.CheckNode(node, e.nodeCount, "AddTerminalWeights")
	graph.CheckCapacity(sourceCap, "AddTerminalWeights")
	graph.CheckCapacity(sinkCap, "AddTerminalWeights")
	e.sourceCap[node] += sourceCap
	e.sinkCap[node] += sinkCap
}

// ComputeMaxFlow runs phase one (and recovery when configured) on the first call; later calls return the cached value.
func (e *Engine) ComputeMaxFlow() int64 {
	if e.state >= graph.Solved {
		return e.value
	}
	watch := utils.Watch{}
	watch.Start()

	e.initialize()
	initTime := watch.Toc()

	watch.Tic()
	e.phaseOne()
	e.value = e.minCut() + e.offset
	e.state = graph.Solved
	solveTime := watch.Toc()

	if e.recover {
		watch.Tic()
		e.recoverFlow()
		e.state = graph.FlowRecovered
		if e.check {
			e.verify()
		}
		log.Debug().Msg("pseudoflow: recovery " + utils.V(watch.Toc().Milliseconds()) + "ms")
	}

	log.Debug().Msg("pseudoflow: nodes " + utils.V(e.nodeCount) + " arcs " + utils.V(len(e.arcs)) +
		" value " + utils.V(e.value) + " init " + utils.V(initTime.Milliseconds()) + "ms solve " + utils.V(solveTime.Milliseconds()) + "ms")
	log.Trace().Msg("pseudoflow: pushes " + utils.V(e.stats.Pushes) + " merges " + utils.V(e.stats.Merges) +
		" relabels " + utils.V(e.stats.Relabels) + " gaps " + utils.V(e.stats.Gaps) + " scans " + utils.V(e.stats.ArcScans))
	return e.value
}

// SegmentOf reports graph.SOURCE for nodes lifted above every remaining label, graph.SINK otherwise.
// Nodes without any usable arc belong to the source side.
func (e *Engine) SegmentOf(node uint32) bool {
	graph.CheckSolved(e.state, "SegmentOf")
	graph.CheckNode(node, e.nodeCount, "SegmentOf")
	nd := &e.nodes[node]
	if nd.numAdjacent == 0 {
		return graph.SOURCE
	}
	if nd.label >= e.numNodes {
		return graph.SOURCE
	}
	return graph.SINK
}

// ArcFlow returns the flow on the k-th AddArc pair: s->t on the forward arc, t->s on the reverse arc.
func (e *Engine) ArcFlow(k uint32) (forward, reverse int64) {
	if e.state != graph.FlowRecovered {
		enforce.FAULT(enforce.ProtocolViolationFault, "ArcFlow called without a recovered flow (state ", e.state.String(), ")")
	}
	if k >= e.realArcs {
		enforce.FAULT(enforce.ConfigurationFault, "ArcFlow: arc ", k, " was never added")
	}
	return e.arcs[2*k].flow, e.arcs[2*k+1].flow
}

func (e *Engine) State() graph.State {
	return e.state
}

func (e *Engine) Stats() Stats {
	return e.stats
}
