// Package bidir solves max-flow by growing a search tree from the source and one from the sink, always expanding
// the smaller frontier, and augmenting along every path where the trees touch.
package bidir

import (
	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

type tree uint8

const (
	free tree = iota
	sourceTree
	sinkTree
)

type Engine struct {
	graph.Residual

	tree      []tree
	parentArc []int32 // Source tree: arc into the node. Sink tree: arc out of the node towards the sink.
	frontierS []int32
	frontierT []int32
	meetings  []int32

	rounds uint64
	paths  uint64
}

func New(nodeCount, arcCountHint uint32) *Engine {
	return &Engine{Residual: graph.NewResidual(nodeCount, arcCountHint)}
}

func Factory() graph.Factory {
	return func(nodeCount, arcCountHint uint32) graph.FlowEngine {
		return New(nodeCount, arcCountHint)
	}
}

func (e *Engine) ComputeMaxFlow() int64 {
	if e.State >= graph.Solved {
		return e.Flow()
	}
	watch := utils.Watch{}
	watch.Start()
	e.Finalize()

	numNodes := len(e.First) - 1
	e.tree = make([]tree, numNodes)
	e.parentArc = make([]int32, numNodes)

	flow := int64(0)
	for e.grow() {
		e.rounds++
		for _, m := range e.meetings {
			if pushed := e.augment(m); pushed > 0 {
				e.paths++
				flow += pushed
			}
		}
	}
	e.tree, e.parentArc, e.frontierS, e.frontierT, e.meetings = nil, nil, nil, nil, nil
	e.Finish(flow)

	log.Debug().Msg("bidir: nodes " + utils.V(e.NodeCount) + " value " + utils.V(e.Flow()) + " rounds " + utils.V(e.rounds) +
		" paths " + utils.V(e.paths) + " in " + utils.V(watch.Elapsed().Milliseconds()) + "ms")
	return e.Flow()
}

// grow rebuilds both trees level by level until one level produces meeting arcs (source tree -> sink tree).
// Returns false when a frontier dies out first: no augmenting path is left.
func (e *Engine) grow() bool {
	for i := range e.tree {
		e.tree[i] = free
	}
	e.tree[e.Source], e.tree[e.Sink] = sourceTree, sinkTree
	e.frontierS = append(e.frontierS[:0], e.Source)
	e.frontierT = append(e.frontierT[:0], e.Sink)
	e.meetings = e.meetings[:0]

	for len(e.frontierS) > 0 && len(e.frontierT) > 0 {
		if len(e.frontierS) <= len(e.frontierT) {
			e.frontierS = e.expandSource(e.frontierS)
		} else {
			e.frontierT = e.expandSink(e.frontierT)
		}
		if len(e.meetings) > 0 {
			return true
		}
	}
	return false
}

func (e *Engine) expandSource(frontier []int32) []int32 {
	next := make([]int32, 0, len(frontier))
	for _, u := range frontier {
		for _, a := range e.Adj[e.First[u]:e.First[u+1]] {
			if e.Cap[a] == 0 {
				continue
			}
			switch v := e.Head[a]; e.tree[v] {
			case free:
				e.tree[v] = sourceTree
				e.parentArc[v] = a
				next = append(next, v)
			case sinkTree:
				e.meetings = append(e.meetings, a)
			}
		}
	}
	return next
}

func (e *Engine) expandSink(frontier []int32) []int32 {
	next := make([]int32, 0, len(frontier))
	for _, v := range frontier {
		for _, a := range e.Adj[e.First[v]:e.First[v+1]] {
			in := a ^ 1 // Head[a] -> v.
			if e.Cap[in] == 0 {
				continue
			}
			switch u := e.Head[a]; e.tree[u] {
			case free:
				e.tree[u] = sinkTree
				e.parentArc[u] = in
				next = append(next, u)
			case sourceTree:
				e.meetings = append(e.meetings, in)
			}
		}
	}
	return next
}

// augment pushes the bottleneck of the path source ~> tail(m) -> head(m) ~> sink, if it is still positive.
func (e *Engine) augment(m int32) int64 {
	bottleneck := e.Cap[m]
	for x := e.Head[m^1]; x != e.Source && bottleneck > 0; {
		a := e.parentArc[x]
		bottleneck = utils.Min(bottleneck, e.Cap[a])
		x = e.Head[a^1]
	}
	for y := e.Head[m]; y != e.Sink && bottleneck > 0; {
		a := e.parentArc[y]
		bottleneck = utils.Min(bottleneck, e.Cap[a])
		y = e.Head[a]
	}
	if bottleneck == 0 {
		return 0
	}

	e.Push(m, bottleneck)
	for x := e.Head[m^1]; x != e.Source; {
		a := e.parentArc[x]
		e.Push(a, bottleneck)
		x = e.Head[a^1]
	}
	for y := e.Head[m]; y != e.Sink; {
		a := e.parentArc[y]
		e.Push(a, bottleneck)
		y = e.Head[a]
	}
	return bottleneck
}
