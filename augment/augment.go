// Package augment solves max-flow with blocking-flow augmenting paths (Dinic) over a graph.Residual.
package augment

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

const unreached = -1

type Engine struct {
	graph.Residual
	phases uint64
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

// ComputeMaxFlow alternates a BFS level graph from the source with blocking flows along it, until the sink is
// unreachable. Later calls return the cached value.
func (e *Engine) ComputeMaxFlow() int64 {
	if e.State >= graph.Solved {
		return e.Flow()
	}
	watch := utils.Watch{}
	watch.Start()
	e.Finalize()

	numNodes := len(e.First) - 1
	level := make([]int32, numNodes)
	current := make([]int32, numNodes)
	path := make([]int32, 0, 64)
	flow := int64(0)

	for e.levels(level) {
		e.phases++
		copy(current, e.First[:numNodes])
		for {
			pushed := e.augment(level, current, &path)
			if pushed == 0 {
				break
			}
			e.paths++
			flow += pushed
		}
	}
	e.Finish(flow)

	log.Debug().Msg("augment: nodes " + utils.V(e.NodeCount) + " value " + utils.V(e.Flow()) + " phases " + utils.V(e.phases) +
		" paths " + utils.V(e.paths) + " in " + utils.V(watch.Elapsed().Milliseconds()) + "ms")
	return e.Flow()
}

// levels labels every node by its BFS distance from the source over positive residual arcs.
func (e *Engine) levels(level []int32) bool {
	for i := range level {
		level[i] = unreached
	}
	level[e.Source] = 0
	queue := make([]int32, 0, len(level))
	queue = append(queue, e.Source)
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		if u == e.Sink {
			break
		}
		for _, a := range e.Adj[e.First[u]:e.First[u+1]] {
			if v := e.Head[a]; e.Cap[a] > 0 && level[v] == unreached {
				level[v] = level[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return level[e.Sink] != unreached
}

// augment finds one source-sink path in the level graph from the current-arc pointers and saturates its
// bottleneck. Dead ends are removed from the level graph on the way back.
func (e *Engine) augment(level, current []int32, path *[]int32) int64 {
	*path = (*path)[:0]
	u := e.Source
	for {
		if u == e.Sink {
			bottleneck := int64(math.MaxInt64)
			for _, a := range *path {
				bottleneck = utils.Min(bottleneck, e.Cap[a])
			}
			for _, a := range *path {
				e.Push(a, bottleneck)
			}
			return bottleneck
		}

		advanced := false
		for ; current[u] < e.First[u+1]; current[u]++ {
			a := e.Adj[current[u]]
			if v := e.Head[a]; e.Cap[a] > 0 && level[v] == level[u]+1 {
				*path = append(*path, a)
				u = v
				advanced = true
				break
			}
		}
		if advanced {
			continue
		}
		if u == e.Source {
			return 0
		}
		level[u] = unreached
		last := (*path)[len(*path)-1]
		*path = (*path)[:len(*path)-1]
		u = e.Head[last^1]
		current[u]++
	}
}
