// Package slimcut solves undirected min-cut problems through any directed graph.FlowEngine.
//
// Before solving, nodes that no minimum cut can separate from a neighbour are contracted into it: when one incident
// edge carries more than half of the capacity at a node, cutting that edge always costs more than cutting all the
// others, so the two ends stay together. The shrunk instance is handed to one inner engine built from a
// graph.Factory, and its segmentation is mapped back to every original node.
package slimcut

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

const unmapped = ^uint32(0)

// Graph is an undirected instance with the contraction pass in front of the inner engine.
type Graph struct {
	nodeCount uint32
	source    uint32 // Sentinel for the source terminal: nodeCount.
	sink      uint32 // Sentinel for the sink terminal: nodeCount + 1.
	factory   graph.Factory
	contract  bool

	adj   []map[uint32]int64 // Neighbour -> aggregated capacity. Symmetric at rest.
	total []int64            // Capacity incident to each node.
	rep   []uint32           // Representative each node was merged into.
	newID []uint32           // Dense inner-engine id of each surviving representative.

	state      graph.State
	value      int64
	folded     int64 // Capacity that ended up directly between source and sink.
	offset     int64 // Terminal capacity cancelled at nodes tied to both terminals.
	contracted uint32
	survivors  uint32
	passes     uint32
	segment    utils.Bitmap
}

// New returns an undirected engine that contracts before solving with engines from factory.
func New(nodeCount uint32, factory graph.Factory) *Graph {
	return newGraph(nodeCount, factory, true)
}

// NewDirect returns an undirected engine that hands the full instance to the inner engine.
func NewDirect(nodeCount uint32, factory graph.Factory) *Graph {
	return newGraph(nodeCount, factory, false)
}

// Factory wraps a directed factory into an undirected one.
func Factory(factory graph.Factory, contract bool) graph.UndirectedFactory {
	return func(nodeCount uint32) graph.UndirectedFlowEngine {
		return newGraph(nodeCount, factory, contract)
	}
}

func newGraph(nodeCount uint32, factory graph.Factory, contract bool) *Graph {
	graph.CheckArena(uint64(nodeCount)+2, 0)
	return &Graph{
		nodeCount: nodeCount,
		source:    nodeCount,
		sink:      nodeCount + 1,
		factory:   factory,
		contract:  contract,
		adj:       make([]map[uint32]int64, nodeCount+2),
	}
}

func (g *Graph) addEdge(u, v uint32, c int64) {
	if g.adj[u] == nil {
		g.adj[u] = make(map[uint32]int64)
	}
	if g.adj[v] == nil {
		g.adj[v] = make(map[uint32]int64)
	}
	g.adj[u][v] += c
	g.adj[v][u] += c
}

// AddArc adds an undirected edge. Parallel edges add up; self loops never cross a cut and are dropped.
func (g *Graph) AddArc(u, v uint32, c int64) {
	graph.CheckMutable(g.state, "AddArc")
	graph.CheckNode(u, g.nodeCount, "AddArc")
	graph.CheckNode(v, g.nodeCount, "AddArc")
	graph.CheckCapacity(c, "AddArc")
	if c == 0 || u == v {
		return
	}
	g.addEdge(u, v, c)
}

func (g *Graph) AddTerminalWeights(node uint32, sourceCap, sinkCap int64) {
	graph.CheckMutable(g.state, "AddTerminalWeights")
	graph.CheckNode(node, g.nodeCount, "AddTerminalWeights")
	graph.CheckCapacity(sourceCap, "AddTerminalWeights")
	graph.CheckCapacity(sinkCap, "AddTerminalWeights")
	if sourceCap > 0 {
		g.addEdge(node, g.source, sourceCap)
	}
	if sinkCap > 0 {
		g.addEdge(node, g.sink, sinkCap)
	}
}

func (g *Graph) ComputeMaxFlow() int64 {
	if g.state >= graph.Solved {
		return g.value
	}
	g.state = graph.Initialized
	watch := utils.Watch{}
	watch.Start()

	g.total = make([]int64, len(g.adj))
	for u, m := range g.adj {
		for _, c := range m {
			g.total[u] += c
		}
	}
	g.rep = make([]uint32, len(g.adj))
	for u := range g.rep {
		g.rep[u] = uint32(u)
	}

	if g.contract {
		g.contractGraph()
	}
	g.resolve()
	g.renumber()
	g.folded = g.adj[g.source][g.sink]
	contractTime := watch.Toc()

	if g.survivors == 0 {
		g.value = g.folded
		g.mapSegments(nil)
	} else {
		g.simplifyTerminals()
		inner := g.buildInner()
		g.adj, g.total = nil, nil
		watch.Tic()
		g.value = inner.ComputeMaxFlow() + g.folded + g.offset
		watch.Toc()
		g.mapSegments(inner)
	}
	g.adj, g.total, g.newID = nil, nil, nil
	g.state = graph.Solved

	log.Debug().Msg("slimcut: nodes " + utils.V(g.nodeCount) + " contracted " + utils.V(g.contracted) + " survivors " + utils.V(g.survivors) +
		" passes " + utils.V(g.passes) + " value " + utils.V(g.value) + " contraction " + utils.V(contractTime.Milliseconds()) + "ms total " +
		utils.V(watch.Elapsed().Milliseconds()) + "ms")
	return g.value
}

// contractGraph repeats full passes over the representatives until a pass contracts nothing.
func (g *Graph) contractGraph() {
	for change := true; change; {
		change = false
		g.passes++
		for u := uint32(0); u < g.nodeCount; u++ {
			if g.rep[u] == u && g.contractNode(u) {
				g.contracted++
				change = true
			}
		}
	}
}

// contractNode merges u with the neighbour holding more than half of its capacity, if there is one.
// At most one neighbour can qualify.
func (g *Graph) contractNode(u uint32) bool {
	total := g.total[u]
	for v, f := range g.adj[u] {
		if f > total-f {
			g.contractEdge(utils.Min(u, v), utils.Max(u, v))
			return true
		}
	}
	return false
}

// contractEdge merges u into v: the other neighbours of u are rewired to v, summing with existing edges.
func (g *Graph) contractEdge(u, v uint32) {
	g.rep[u] = v
	uv := g.adj[u][v]
	for t, f := range g.adj[u] {
		if t == v {
			continue
		}
		g.addEdge(t, v, f)
		g.total[v] += f
		delete(g.adj[t], u)
	}
	delete(g.adj[v], u)
	g.total[v] -= uv
	g.total[u] = 0
	g.adj[u] = nil
}

// resolve points every node directly at its final representative.
func (g *Graph) resolve() {
	for u := uint32(0); u < g.nodeCount; u++ {
		r := g.rep[u]
		for r != g.rep[r] {
			r = g.rep[r]
		}
		g.rep[u] = r
	}
}

// renumber gives the surviving representatives dense ids.
func (g *Graph) renumber() {
	g.newID = make([]uint32, g.nodeCount)
	g.survivors = 0
	for u := uint32(0); u < g.nodeCount; u++ {
		if g.rep[u] == u {
			g.newID[u] = g.survivors
			g.survivors++
		} else {
			g.newID[u] = unmapped
		}
	}
}

// simplifyTerminals cancels the smaller of the source and sink edges of a node against the larger one.
// The cancelled amount crosses every cut, so it is kept aside in offset.
func (g *Graph) simplifyTerminals() {
	for u := uint32(0); u < g.nodeCount; u++ {
		m := g.adj[u]
		if m == nil {
			continue
		}
		s, sok := m[g.source]
		t, tok := m[g.sink]
		if !sok || !tok {
			continue
		}
		common := utils.Min(s, t)
		g.offset += common
		g.setTerminal(u, g.source, s-common)
		g.setTerminal(u, g.sink, t-common)
	}
}

func (g *Graph) setTerminal(u, terminal uint32, c int64) {
	if c == 0 {
		delete(g.adj[u], terminal)
		delete(g.adj[terminal], u)
		return
	}
	g.adj[u][terminal] = c
	g.adj[terminal][u] = c
}

// buildInner creates the inner engine and adds the surviving edges in ascending node order.
func (g *Graph) buildInner() graph.FlowEngine {
	arcs := uint32(0)
	for u := uint32(0); u < g.nodeCount; u++ {
		for v := range g.adj[u] {
			if u < v && v < g.nodeCount {
				arcs++
			}
		}
	}
	inner := g.factory(g.survivors, arcs)

	for u := uint32(0); u < g.nodeCount; u++ {
		m := g.adj[u]
		if m == nil {
			continue
		}
		keys := maps.Keys(m)
		slices.Sort(keys)
		for _, v := range keys {
			if u < v && v < g.nodeCount {
				inner.AddArc(g.newID[u], g.newID[v], m[v], m[v])
			}
		}
		if s, t := m[g.source], m[g.sink]; s > 0 || t > 0 {
			inner.AddTerminalWeights(g.newID[u], s, t)
		}
	}
	return inner
}

// mapSegments records the side of every original node. Nodes merged into a terminal take its side.
func (g *Graph) mapSegments(inner graph.FlowEngine) {
	g.segment = utils.NewBitmap(g.nodeCount)
	for u := uint32(0); u < g.nodeCount; u++ {
		switch r := g.rep[u]; r {
		case g.source:
		case g.sink:
			g.segment.QuickSet(u)
		default:
			if inner.SegmentOf(g.newID[r]) == graph.SINK {
				g.segment.QuickSet(u)
			}
		}
	}
}

func (g *Graph) SegmentOf(node uint32) bool {
	graph.CheckSolved(g.state, "SegmentOf")
	graph.CheckNode(node, g.nodeCount, "SegmentOf")
	return g.segment.Contains(node)
}

// Contracted is the number of contractions performed.
func (g *Graph) Contracted() uint32 {
	return g.contracted
}

// Survivors is the number of nodes handed to the inner engine.
func (g *Graph) Survivors() uint32 {
	return g.survivors
}
