package pseudoflow

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/utils"
)

// recoverFlow turns the pseudoflow into a feasible flow. Deficits are handed back to the sink arcs; each remaining
// excess is decomposed into paths back to the source (or cycles), which are cancelled.
func (e *Engine) recoverFlow() {
	for _, ai := range e.nodes[e.sink].outOfTree {
		a := &e.arcs[ai]
		from := &e.nodes[a.from]
		if from.excess >= 0 {
			continue
		}
		if from.excess+a.flow < 0 {
			from.excess += a.flow
			a.flow = 0
		} else {
			a.flow += from.excess
			from.excess = 0
		}
	}

	for _, ai := range e.nodes[e.source].outOfTree {
		to := e.arcs[ai].to
		e.nodes[to].outOfTree = append(e.nodes[to].outOfTree, ai)
	}
	e.nodes[e.source].excess = 0
	e.nodes[e.sink].excess = 0

	// Every lifted node lists the positive-flow arcs entering it, largest flow first.
	for v := uint32(0); v < e.nodeCount; v++ {
		nd := &e.nodes[v]
		if nd.label < e.numNodes || nd.parent == none {
			continue
		}
		if a := nd.arcToParent; e.arcs[a].flow > 0 {
			to := e.arcs[a].to
			e.nodes[to].outOfTree = append(e.nodes[to].outOfTree, a)
		}
	}
	byFlow := func(a, b int32) int {
		fa, fb := e.arcs[a].flow, e.arcs[b].flow
		switch {
		case fa > fb:
			return -1
		case fa < fb:
			return 1
		}
		return 0
	}
	for v := uint32(0); v < e.nodeCount; v++ {
		nd := &e.nodes[v]
		if nd.label < e.numNodes {
			continue
		}
		nd.nextArc = 0
		kept := nd.outOfTree[:0]
		for _, ai := range nd.outOfTree {
			if e.arcs[ai].flow != 0 {
				kept = append(kept, ai)
			}
		}
		nd.outOfTree = kept
		slices.SortFunc(nd.outOfTree, byFlow)
	}

	iteration := uint32(1)
	for v := uint32(0); v < e.nodeCount; v++ {
		for e.nodes[v].excess > 0 {
			iteration++
			e.decompose(int32(v), &iteration)
		}
	}
}

// minisort restores the descending order after the flow of the current arc of v decreased.
func (e *Engine) minisort(v int32) {
	nd := &e.nodes[v]
	temp := nd.outOfTree[nd.nextArc]
	flow := e.arcs[temp].flow
	i := nd.nextArc + 1
	for ; i < int32(len(nd.outOfTree)) && flow < e.arcs[nd.outOfTree[i]].flow; i++ {
		nd.outOfTree[i-1] = nd.outOfTree[i]
	}
	nd.outOfTree[i-1] = temp
}

// cancel subtracts amount from the current arc of v and returns the node the arc comes from.
func (e *Engine) cancel(v int32, amount int64) int32 {
	nd := &e.nodes[v]
	a := nd.outOfTree[nd.nextArc]
	e.arcs[a].flow -= amount
	if e.arcs[a].flow != 0 {
		e.minisort(v)
	} else {
		nd.nextArc++
	}
	return e.arcs[a].from
}

// decompose follows the largest inflow arcs back from excessNode. Reaching the source removes the path bottleneck
// from the excess; revisiting a node closes a cycle, whose bottleneck is cancelled instead.
func (e *Engine) decompose(excessNode int32, iteration *uint32) {
	current := excessNode
	bottleneck := e.nodes[excessNode].excess

	for current != e.source && e.nodes[current].visited < *iteration {
		nd := &e.nodes[current]
		nd.visited = *iteration
		a := &e.arcs[nd.outOfTree[nd.nextArc]]
		bottleneck = utils.Min(bottleneck, a.flow)
		current = a.from
	}

	if current == e.source {
		e.nodes[excessNode].excess -= bottleneck
		for current = excessNode; current != e.source; {
			current = e.cancel(current, bottleneck)
		}
		return
	}

	*iteration++
	nd := &e.nodes[current]
	bottleneck = e.arcs[nd.outOfTree[nd.nextArc]].flow
	for e.nodes[current].visited < *iteration {
		nd := &e.nodes[current]
		nd.visited = *iteration
		a := &e.arcs[nd.outOfTree[nd.nextArc]]
		bottleneck = utils.Min(bottleneck, a.flow)
		current = a.from
	}

	*iteration++
	for e.nodes[current].visited < *iteration {
		e.nodes[current].visited = *iteration
		current = e.cancel(current, bottleneck)
	}
}

// verify checks capacity bounds, conservation at every node, and that the flow into the sink matches the cut.
func (e *Engine) verify() {
	excess := make([]int64, e.numNodes)
	for i := range e.arcs {
		a := &e.arcs[i]
		if a.flow < 0 || a.flow > a.capacity {
			enforce.FAULT(enforce.InvariantViolation, "capacity constraint violated on arc (", a.from, ", ", a.to, "): flow ", a.flow, " capacity ", a.capacity)
		}
		excess[a.from] -= a.flow
		excess[a.to] += a.flow
	}
	for v := uint32(0); v < e.nodeCount; v++ {
		if excess[v] != 0 {
			enforce.FAULT(enforce.InvariantViolation, "flow balance violated at node ", v, ": excess ", excess[v])
		}
	}
	if cut := e.value - e.offset; excess[e.sink] != cut {
		enforce.FAULT(enforce.InvariantViolation, "flow into the sink ", excess[e.sink], " does not equal the cut ", cut)
	}
	log.Debug().Msg("pseudoflow: solution checks as feasible and optimal")
}
