package pseudoflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/graph"
)

var optionGrid = []struct {
	name    string
	options graph.Options
}{
	{"highest-lifo", graph.Options{}},
	{"highest-fifo", graph.Options{FifoBuckets: true}},
	{"lowest-lifo", graph.Options{LowestLabel: true}},
	{"lowest-fifo", graph.Options{LowestLabel: true, FifoBuckets: true}},
	{"highest-checked", graph.Options{CheckCorrectness: true}},
	{"lowest-checked", graph.Options{LowestLabel: true, FifoBuckets: true, CheckCorrectness: true}},
}

func faultOf(t *testing.T, fn func()) enforce.FaultKind {
	t.Helper()
	var f enforce.Fault
	require.ErrorAs(t, enforce.Try(fn), &f)
	return f.Kind
}

func TestTwoNodes(t *testing.T) {
	for _, tt := range optionGrid {
		t.Run(tt.name, func(t *testing.T) {
			e := New(2, 1, tt.options)
			e.AddArc(0, 1, 3, 0)
			e.AddTerminalWeights(0, 4, 0)
			e.AddTerminalWeights(1, 0, 6)

			assert.Equal(t, int64(3), e.ComputeMaxFlow())
			assert.Equal(t, graph.SOURCE, e.SegmentOf(0))
			assert.Equal(t, graph.SINK, e.SegmentOf(1))
		})
	}
}

func TestChainBottleneck(t *testing.T) {
	for _, tt := range optionGrid {
		t.Run(tt.name, func(t *testing.T) {
			e := New(3, 2, tt.options)
			e.AddArc(0, 1, 3, 0)
			e.AddArc(1, 2, 10, 0)
			e.AddTerminalWeights(0, 5, 0)
			e.AddTerminalWeights(2, 0, 5)

			assert.Equal(t, int64(3), e.ComputeMaxFlow())
			assert.Equal(t, graph.SOURCE, e.SegmentOf(0))
			assert.Equal(t, graph.SINK, e.SegmentOf(1))
			assert.Equal(t, graph.SINK, e.SegmentOf(2))
		})
	}
}

func TestIsolatedNode(t *testing.T) {
	e := New(3, 1, graph.Options{})
	e.AddArc(0, 1, 2, 0)
	e.AddTerminalWeights(0, 5, 0)
	e.AddTerminalWeights(1, 0, 5)

	assert.Equal(t, int64(2), e.ComputeMaxFlow())
	for i := 0; i < 3; i++ {
		assert.Equal(t, graph.SOURCE, e.SegmentOf(2))
	}
	assert.Equal(t, int64(2), e.ComputeMaxFlow())
}

func TestTerminalOffset(t *testing.T) {
	// Both terminals on one node: the common part always flows.
	e := New(2, 1, graph.Options{CheckCorrectness: true})
	e.AddTerminalWeights(0, 7, 3)
	e.AddTerminalWeights(0, 0, 1)
	e.AddTerminalWeights(1, 2, 9)
	e.AddArc(0, 1, 1, 1)

	// Node 0 nets source 3, node 1 nets sink 7, plus 4+2 always flowing.
	assert.Equal(t, int64(1+4+2), e.ComputeMaxFlow())
	assert.Equal(t, graph.FlowRecovered, e.State())
	fwd, rev := e.ArcFlow(0)
	assert.Equal(t, int64(1), fwd)
	assert.Equal(t, int64(0), rev)
}

func TestEmpty(t *testing.T) {
	e := New(0, 0, graph.Options{CheckCorrectness: true})
	assert.Equal(t, int64(0), e.ComputeMaxFlow())

	e = New(4, 0, graph.Options{})
	assert.Equal(t, int64(0), e.ComputeMaxFlow())
	for v := uint32(0); v < 4; v++ {
		assert.Equal(t, graph.SOURCE, e.SegmentOf(v))
	}
}

func TestReverseCapacity(t *testing.T) {
	// Flow can only travel 1 -> 0 through the reverse capacity.
	e := New(2, 1, graph.Options{CheckCorrectness: true})
	e.AddArc(0, 1, 0, 4)
	e.AddTerminalWeights(1, 10, 0)
	e.AddTerminalWeights(0, 0, 10)

	assert.Equal(t, int64(4), e.ComputeMaxFlow())
	assert.Equal(t, graph.SOURCE, e.SegmentOf(1))
	assert.Equal(t, graph.SINK, e.SegmentOf(0))
	fwd, rev := e.ArcFlow(0)
	assert.Equal(t, int64(0), fwd)
	assert.Equal(t, int64(4), rev)
}

func TestFaults(t *testing.T) {
	e := New(2, 1, graph.Options{})
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { e.SegmentOf(0) }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { e.AddArc(0, 2, 1, 0) }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { e.AddArc(0, 1, -1, 0) }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { e.AddTerminalWeights(5, 1, 0) }))

	e.AddArc(0, 1, 1, 0)
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { e.AddArc(1, 0, 1, 0) }))

	e.ComputeMaxFlow()
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { e.AddArc(0, 1, 1, 0) }))
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { e.AddTerminalWeights(0, 1, 0) }))
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { e.ArcFlow(0) }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { e.SegmentOf(2) }))
}

func TestRandomAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		nodes := uint32(2 + rng.Intn(9))
		net := graph.RandomNetwork(rng, nodes, rng.Intn(int(nodes)*3), 12, false)
		want := net.BruteForceMinCut()

		for _, tt := range optionGrid {
			e := net.Build(Factory(tt.options)).(*Engine)
			got := e.ComputeMaxFlow()
			require.Equal(t, want, got, "instance %d (%s): %+v", i, tt.name, net)
			require.Equal(t, got, net.CutValue(e.SegmentOf), "instance %d (%s): segmentation", i, tt.name)
		}
	}
}

func TestRecoveredFlowBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		nodes := uint32(5 + rng.Intn(60))
		net := graph.RandomNetwork(rng, nodes, int(nodes)*4, 1000, false)
		e := net.Build(Factory(graph.Options{CheckCorrectness: true, FifoBuckets: i%2 == 0})).(*Engine)
		value := e.ComputeMaxFlow()
		require.Equal(t, graph.FlowRecovered, e.State())
		require.Equal(t, value, net.CutValue(e.SegmentOf))

		for k, a := range net.Arcs {
			fwd, rev := e.ArcFlow(uint32(k))
			require.True(t, fwd >= 0 && fwd <= a.Cap, "arc %d forward %d cap %d", k, fwd, a.Cap)
			require.True(t, rev >= 0 && rev <= a.RevCap, "arc %d reverse %d cap %d", k, rev, a.RevCap)
		}
	}
}

func TestVariantsAgreeOnLargerGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for i := 0; i < 20; i++ {
		nodes := uint32(200 + rng.Intn(300))
		net := graph.RandomNetwork(rng, nodes, int(nodes)*6, 500, false)
		base := net.Build(Factory(graph.Options{})).ComputeMaxFlow()
		for _, tt := range optionGrid[1:] {
			e := net.Build(Factory(tt.options))
			require.Equal(t, base, e.ComputeMaxFlow(), "instance %d (%s)", i, tt.name)
			require.Equal(t, base, net.CutValue(e.SegmentOf), "instance %d (%s)", i, tt.name)
		}
	}
}

func BenchmarkPseudoflow(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	net := graph.RandomNetwork(rng, 5000, 40000, 1000, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		net.Build(Factory(graph.Options{})).ComputeMaxFlow()
	}
}
