package graph

import (
	"math"

	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/utils"
)

// Sides of the minimum cut, as returned by SegmentOf.
const (
	SOURCE = false
	SINK   = true
)

// FlowEngine is the operation set every directed max-flow solver provides.
// Node ids are dense in [0, nodeCount); the super-source and super-sink are implicit.
//
// Ordering: AddArc and AddTerminalWeights are only valid before the first ComputeMaxFlow, which finalizes the
// topology. SegmentOf is only valid after it. Violations are ProtocolViolationFault panics.
type FlowEngine interface {
	// AddArc adds the directed residual pair s->t (fwdCap) and t->s (revCap).
	AddArc(s, t uint32, fwdCap, revCap int64)
	// AddTerminalWeights connects node to the super-source (sourceCap) and super-sink (sinkCap).
	// Repeated calls accumulate; both zero is a no-op.
	AddTerminalWeights(node uint32, sourceCap, sinkCap int64)
	// ComputeMaxFlow solves on the first call and returns the cached value afterwards.
	ComputeMaxFlow() int64
	// SegmentOf reports SOURCE (false) or SINK (true) for node in the minimum cut.
	SegmentOf(node uint32) bool
}

// UndirectedFlowEngine is the same contract for undirected capacities.
type UndirectedFlowEngine interface {
	AddArc(u, v uint32, cap int64)
	AddTerminalWeights(node uint32, sourceCap, sinkCap int64)
	ComputeMaxFlow() int64
	SegmentOf(node uint32) bool
}

// Factory constructs an engine sized for nodeCount nodes and at most arcCountHint AddArc calls.
type Factory func(nodeCount uint32, arcCountHint uint32) FlowEngine

// UndirectedFactory constructs an undirected engine for nodeCount nodes.
type UndirectedFactory func(nodeCount uint32) UndirectedFlowEngine

// State of an engine instance.
type State uint8

const (
	Building      State = iota // Accepting arcs and terminal weights.
	Initialized                // Topology finalized, solving not finished.
	Solved                     // Value and segmentation valid.
	FlowRecovered              // Per-arc flows valid (engines that support it).
)

func (s State) String() string {
	switch s {
	case Building:
		return "Building"
	case Initialized:
		return "Initialized"
	case Solved:
		return "Solved"
	case FlowRecovered:
		return "FlowRecovered"
	}
	return "State(" + utils.V(uint8(s)) + ")"
}

// CheckMutable faults unless topology may still change.
func CheckMutable(state State, op string) {
	if state != Building {
		enforce.FAULT(enforce.ProtocolViolationFault, op, " called after the topology was finalized (state ", state.String(), ")")
	}
}

// CheckSolved faults unless a solve has completed.
func CheckSolved(state State, op string) {
	if state < Solved {
		enforce.FAULT(enforce.ProtocolViolationFault, op, " called before ComputeMaxFlow (state ", state.String(), ")")
	}
}

// CheckNode faults when node is outside the declared node count.
func CheckNode(node, nodeCount uint32, op string) {
	if node >= nodeCount {
		enforce.FAULT(enforce.ConfigurationFault, op, ": node ", node, " outside declared node count ", nodeCount)
	}
}

// CheckCapacity faults on negative capacities.
func CheckCapacity(c int64, op string) {
	if c < 0 {
		enforce.FAULT(enforce.ConfigurationFault, op, ": negative capacity ", c)
	}
}

// CheckArena faults when nodeCount internal nodes and arcs arcs cannot be indexed by int32.
func CheckArena(nodes, arcs uint64) {
	if nodes > math.MaxInt32 || arcs > math.MaxInt32 {
		enforce.FAULT(enforce.AllocationFailure, "cannot size storage for ", nodes, " nodes and ", arcs, " arcs")
	}
}
