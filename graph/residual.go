package graph

import (
	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/utils"
)

// Residual is a paired-arc residual network shared by the path-based engines.
// Arc a and a^1 are mutual reverses; Cap holds residual capacity. Caller nodes are [0, NodeCount), the
// super-source and super-sink follow at Source and Sink.
type Residual struct {
	NodeCount uint32
	Source    int32
	Sink      int32
	State     State

	Head  []int32 // Head of each arc.
	Cap   []int64 // Residual capacity of each arc.
	First []int32 // CSR offsets into Adj, one entry per internal node plus one.
	Adj   []int32 // Outgoing arcs grouped by tail.

	orig      []int64 // Capacity as added.
	sourceCap []int64
	sinkCap   []int64
	arcHint   uint32
	pairs     uint32 // AddArc calls so far.

	Offset   int64 // Flow through node-local source+sink pairs, added to every cut.
	flow     int64
	sinkSide utils.Bitmap
}

func NewResidual(nodeCount, arcCountHint uint32) Residual {
	internal := uint64(nodeCount) + 2
	CheckArena(internal, 2*uint64(arcCountHint)+2*uint64(nodeCount))
	return Residual{
		NodeCount: nodeCount,
		Source:    int32(nodeCount),
		Sink:      int32(nodeCount) + 1,
		Head:      make([]int32, 0, 2*arcCountHint),
		Cap:       make([]int64, 0, 2*arcCountHint),
		orig:      make([]int64, 0, 2*arcCountHint),
		sourceCap: make([]int64, nodeCount),
		sinkCap:   make([]int64, nodeCount),
		arcHint:   arcCountHint,
	}
}

func (r *Residual) AddArc(s, t uint32, fwdCap, revCap int64) {
	CheckMutable(r.State, "AddArc")
	CheckNode(s, r.NodeCount, "AddArc")
	CheckNode(t, r.NodeCount, "AddArc")
	CheckCapacity(fwdCap, "AddArc")
	CheckCapacity(revCap, "AddArc")
	if r.pairs >= r.arcHint {
		enforce.FAULT(enforce.ConfigurationFault, "AddArc: more than the declared ", r.arcHint, " arcs")
	}
	r.pairs++
	r.pushPair(int32(s), int32(t), fwdCap, revCap)
}

func (r *Residual) pushPair(s, t int32, fwdCap, revCap int64) {
	r.Head = append(r.Head, t, s)
	r.Cap = append(r.Cap, fwdCap, revCap)
	r.orig = append(r.orig, fwdCap, revCap)
}

func (r *Residual) AddTerminalWeights(node uint32, sourceCap, sinkCap int64) {
	CheckMutable(r.State, "AddTerminalWeights")
	CheckNode(node, r.NodeCount, "AddTerminalWeights")
	CheckCapacity(sourceCap, "AddTerminalWeights")
	CheckCapacity(sinkCap, "AddTerminalWeights")
	r.sourceCap[node] += sourceCap
	r.sinkCap[node] += sinkCap
}

// Finalize adds the terminal arcs and builds the CSR adjacency. Idempotent.
func (r *Residual) Finalize() {
	if r.State != Building {
		return
	}
	for v := uint32(0); v < r.NodeCount; v++ {
		s, t := r.sourceCap[v], r.sinkCap[v]
		common := utils.Min(s, t)
		r.Offset += common
		if s -= common; s > 0 {
			r.pushPair(r.Source, int32(v), s, 0)
		} else if t -= common; t > 0 {
			r.pushPair(int32(v), r.Sink, t, 0)
		}
	}
	r.sourceCap, r.sinkCap = nil, nil

	numNodes := int(r.NodeCount) + 2
	r.First = make([]int32, numNodes+1)
	for a := range r.Head {
		r.First[r.Head[a^1]+1]++
	}
	for i := 0; i < numNodes; i++ {
		r.First[i+1] += r.First[i]
	}
	r.Adj = make([]int32, len(r.Head))
	fill := make([]int32, numNodes)
	copy(fill, r.First[:numNodes])
	for a := range r.Head {
		tail := r.Head[a^1]
		r.Adj[fill[tail]] = int32(a)
		fill[tail]++
	}
	r.State = Initialized
}

// Push moves amount along arc a.
func (r *Residual) Push(a int32, amount int64) {
	r.Cap[a] -= amount
	r.Cap[a^1] += amount
}

// Finish records the flow value and labels every node that can still reach the sink as sink side.
func (r *Residual) Finish(flow int64) {
	r.flow = flow + r.Offset
	numNodes := uint32(r.NodeCount) + 2
	r.sinkSide = utils.NewBitmap(numNodes)
	r.sinkSide.QuickSet(uint32(r.Sink))
	queue := make([]int32, 0, 64)
	queue = append(queue, r.Sink)
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, a := range r.Adj[r.First[x]:r.First[x+1]] {
			u := r.Head[a]
			if r.Cap[a^1] > 0 && !r.sinkSide.Contains(uint32(u)) {
				r.sinkSide.QuickSet(uint32(u))
				queue = append(queue, u)
			}
		}
	}
	r.State = Solved
}

func (r *Residual) Flow() int64 {
	return r.flow
}

func (r *Residual) SegmentOf(node uint32) bool {
	CheckSolved(r.State, "SegmentOf")
	CheckNode(node, r.NodeCount, "SegmentOf")
	return r.sinkSide.Contains(node)
}

// ArcFlow is the flow of the k-th AddArc pair, split into its forward (s->t) and reverse (t->s) parts.
func (r *Residual) ArcFlow(k uint32) (forward, reverse int64) {
	CheckSolved(r.State, "ArcFlow")
	if k >= r.pairs {
		enforce.FAULT(enforce.ConfigurationFault, "ArcFlow: arc ", k, " was never added")
	}
	net := r.orig[2*k] - r.Cap[2*k]
	if net >= 0 {
		return net, 0
	}
	return 0, -net
}
