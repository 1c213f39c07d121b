package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/enforce"
)

func faultOf(t *testing.T, fn func()) enforce.FaultKind {
	t.Helper()
	var f enforce.Fault
	require.ErrorAs(t, enforce.Try(fn), &f)
	return f.Kind
}

func TestCutValue(t *testing.T) {
	net := &Network{
		Nodes: 3,
		Arcs:  []Arc{{0, 1, 3, 1}, {1, 2, 10, 0}},
		Terminals: []Terminal{
			{Node: 0, Source: 5},
			{Node: 2, Sink: 5},
		},
	}
	sides := map[uint32]bool{0: SOURCE, 1: SINK, 2: SINK}
	assert.Equal(t, int64(3), net.CutValue(func(n uint32) bool { return sides[n] }))

	// Everything on the sink side cuts the source terminal.
	assert.Equal(t, int64(5), net.CutValue(func(uint32) bool { return SINK }))
	// Reverse capacity counts when the arc points into the source side.
	sides = map[uint32]bool{0: SINK, 1: SOURCE, 2: SINK}
	assert.Equal(t, int64(5+1+10+0), net.CutValue(func(n uint32) bool { return sides[n] }))
	assert.Equal(t, int64(3), net.BruteForceMinCut())
}

func TestCutValueUndirected(t *testing.T) {
	net := &Network{
		Nodes:      3,
		Undirected: true,
		Arcs:       []Arc{{0, 1, 9, 0}, {1, 2, 1, 0}},
		Terminals:  []Terminal{{Node: 0, Source: 20}, {Node: 2, Sink: 20}},
	}
	assert.Equal(t, int64(1), net.BruteForceMinCut())
	assert.Equal(t, int64(9), net.CutValue(func(n uint32) bool { return n != 0 }))
}

func TestRandomNetwork(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	net := RandomNetwork(rng, 10, 50, 7, false)
	assert.Len(t, net.Arcs, 50)
	for _, a := range net.Arcs {
		assert.NotEqual(t, a.From, a.To)
		assert.Less(t, a.From, uint32(10))
		assert.Less(t, a.To, uint32(10))
		assert.LessOrEqual(t, a.Cap, int64(7))
	}
	undirected := RandomNetwork(rng, 10, 20, 7, true)
	for _, a := range undirected.Arcs {
		assert.Zero(t, a.RevCap)
	}
	assert.Empty(t, RandomNetwork(rng, 1, 20, 7, false).Arcs)
}

func TestBuildMismatch(t *testing.T) {
	net := &Network{Nodes: 2, Undirected: true}
	assert.Equal(t, enforce.InvariantViolation, faultOf(t, func() { net.Build(nil) }))
}

func TestChecks(t *testing.T) {
	assert.NotPanics(t, func() { CheckMutable(Building, "AddArc") })
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { CheckMutable(Solved, "AddArc") }))
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { CheckSolved(Initialized, "SegmentOf") }))
	assert.NotPanics(t, func() { CheckSolved(FlowRecovered, "SegmentOf") })
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { CheckNode(4, 4, "AddArc") }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { CheckCapacity(-1, "AddArc") }))
	assert.Equal(t, enforce.AllocationFailure, faultOf(t, func() { CheckArena(1<<31, 0) }))
	assert.NotPanics(t, func() { CheckArena(1<<20, 1<<30) })

	assert.Equal(t, "Solved", Solved.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestParseEngines(t *testing.T) {
	assert.Equal(t, []string{"pseudoflow"}, ParseEngines("pseudoflow"))
	assert.Equal(t, []string{"augment", "bidir"}, ParseEngines(" Augment, bidir ,"))
	assert.Equal(t, EngineNames, ParseEngines("all"))
	assert.Empty(t, ParseEngines(""))
}
