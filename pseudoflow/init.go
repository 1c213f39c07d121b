package pseudoflow

import (
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

// initialize adds the terminal arcs, fills the out-of-tree lists and saturates every terminal arc.
func (e *Engine) initialize() {
	for v := uint32(0); v < e.nodeCount; v++ {
		s, t := e.sourceCap[v], e.sinkCap[v]
		common := utils.Min(s, t)
		e.offset += common
		if s -= common; s > 0 {
			e.arcs = append(e.arcs, arc{from: e.source, to: int32(v), capacity: s, direction: 1})
		} else if t -= common; t > 0 {
			e.arcs = append(e.arcs, arc{from: int32(v), to: e.sink, capacity: t, direction: 1})
		}
	}
	e.sourceCap, e.sinkCap = nil, nil

	for i := range e.arcs {
		a := &e.arcs[i]
		if a.capacity == 0 || a.from == a.to {
			continue
		}
		e.nodes[a.from].numAdjacent++
		e.nodes[a.to].numAdjacent++
	}
	for i := range e.nodes {
		if e.nodes[i].numAdjacent > 0 {
			e.nodes[i].outOfTree = make([]int32, 0, e.nodes[i].numAdjacent)
		}
	}
	for i := range e.arcs {
		a := &e.arcs[i]
		if a.capacity == 0 || a.from == a.to {
			continue
		}
		switch {
		case a.from == e.source:
			e.nodes[e.source].outOfTree = append(e.nodes[e.source].outOfTree, int32(i))
		case a.to == e.sink:
			e.nodes[e.sink].outOfTree = append(e.nodes[e.sink].outOfTree, int32(i))
		default:
			e.nodes[a.from].outOfTree = append(e.nodes[a.from].outOfTree, int32(i))
		}
	}

	e.buckets = make([]bucket, e.numNodes+1)
	for i := range e.buckets {
		e.buckets[i] = bucket{start: none, end: none}
	}
	e.labelCount = make([]uint32, e.numNodes+1)

	for _, ai := range e.nodes[e.source].outOfTree {
		a := &e.arcs[ai]
		a.flow = a.capacity
		e.nodes[a.to].excess += a.capacity
	}
	for _, ai := range e.nodes[e.sink].outOfTree {
		a := &e.arcs[ai]
		a.flow = a.capacity
		e.nodes[a.from].excess -= a.capacity
	}

	for v := uint32(0); v < e.nodeCount; v++ {
		if e.nodes[v].excess > 0 {
			e.nodes[v].label = 1
			e.labelCount[1]++
			e.addToBucket(int32(v), 1)
		}
	}
	e.nodes[e.source].label = e.numNodes
	e.nodes[e.sink].label = 0
	e.labelCount[0] = e.nodeCount - e.labelCount[1]

	e.highestStrongLabel = 1
	e.lowestStrongLabel = 1
	e.state = graph.Initialized
}
