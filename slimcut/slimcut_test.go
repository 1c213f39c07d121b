package slimcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/augment"
	"github.com/ScottSallinen/cutflow/bidir"
	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/pseudoflow"
)

var inners = []struct {
	name    string
	factory graph.Factory
}{
	{"pseudoflow", pseudoflow.Factory(graph.Options{CheckCorrectness: true})},
	{"pseudoflow-lowest", pseudoflow.Factory(graph.Options{LowestLabel: true})},
	{"augment", augment.Factory()},
	{"bidir", bidir.Factory()},
}

func faultOf(t *testing.T, fn func()) enforce.FaultKind {
	t.Helper()
	var f enforce.Fault
	require.ErrorAs(t, enforce.Try(fn), &f)
	return f.Kind
}

func star(g graph.UndirectedFlowEngine) {
	g.AddArc(0, 1, 9)
	g.AddArc(0, 2, 1)
	g.AddTerminalWeights(1, 5, 0)
	g.AddTerminalWeights(2, 0, 5)
}

func TestStar(t *testing.T) {
	for _, tt := range inners {
		t.Run(tt.name, func(t *testing.T) {
			g := New(3, tt.factory)
			star(g)
			assert.Equal(t, int64(1), g.ComputeMaxFlow())
			assert.Equal(t, uint32(3), g.Contracted())
			assert.Equal(t, uint32(0), g.Survivors())
			assert.Equal(t, graph.SOURCE, g.SegmentOf(0))
			assert.Equal(t, graph.SOURCE, g.SegmentOf(1))
			assert.Equal(t, graph.SINK, g.SegmentOf(2))

			direct := NewDirect(3, tt.factory)
			star(direct)
			assert.Equal(t, int64(1), direct.ComputeMaxFlow())
			assert.Equal(t, uint32(0), direct.Contracted())
			assert.Equal(t, uint32(3), direct.Survivors())
			assert.Equal(t, direct.SegmentOf(2), g.SegmentOf(2))
		})
	}
}

func TestNothingToContract(t *testing.T) {
	g := New(4, pseudoflow.Factory(graph.Options{}))
	for u := uint32(0); u < 4; u++ {
		g.AddArc(u, (u+1)%4, 5)
	}
	g.AddTerminalWeights(0, 3, 0)
	g.AddTerminalWeights(2, 0, 3)

	assert.Equal(t, int64(3), g.ComputeMaxFlow())
	assert.Equal(t, uint32(0), g.Contracted())
	assert.Equal(t, uint32(4), g.Survivors())
	assert.Equal(t, int64(3), g.ComputeMaxFlow())
}

func TestParallelEdgesAndTerminals(t *testing.T) {
	for _, contract := range []bool{true, false} {
		g := Factory(augment.Factory(), contract)(3)
		g.AddArc(0, 1, 2)
		g.AddArc(1, 0, 2)
		g.AddArc(1, 1, 50)
		g.AddArc(1, 2, 0)
		g.AddTerminalWeights(0, 10, 0)
		g.AddTerminalWeights(1, 1, 0)
		g.AddTerminalWeights(1, 0, 7)
		g.AddTerminalWeights(2, 3, 3)

		// Node 1 nets a sink edge of 6 behind the 4 from node 0; 1+3 always crosses.
		assert.Equal(t, int64(4+1+3), g.ComputeMaxFlow(), "contract=%v", contract)
		assert.Equal(t, graph.SOURCE, g.SegmentOf(0))
		assert.Equal(t, graph.SINK, g.SegmentOf(1))
	}
}

func TestIsolatedAndEmpty(t *testing.T) {
	g := New(0, pseudoflow.Factory(graph.Options{}))
	assert.Equal(t, int64(0), g.ComputeMaxFlow())

	g = New(3, pseudoflow.Factory(graph.Options{}))
	g.AddTerminalWeights(0, 4, 0)
	g.AddTerminalWeights(1, 0, 4)
	assert.Equal(t, int64(0), g.ComputeMaxFlow())
	assert.Equal(t, graph.SOURCE, g.SegmentOf(0))
	assert.Equal(t, graph.SINK, g.SegmentOf(1))
	assert.Equal(t, graph.SOURCE, g.SegmentOf(2))
	assert.Equal(t, uint32(1), g.Survivors())
}

func TestFaults(t *testing.T) {
	g := New(2, augment.Factory())
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { g.SegmentOf(0) }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { g.AddArc(0, 2, 1) }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { g.AddArc(0, 1, -3) }))
	g.AddArc(0, 1, 1)
	g.ComputeMaxFlow()
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { g.AddArc(0, 1, 1) }))
	assert.Equal(t, enforce.ProtocolViolationFault, faultOf(t, func() { g.AddTerminalWeights(0, 1, 1) }))
	assert.Equal(t, enforce.ConfigurationFault, faultOf(t, func() { g.SegmentOf(2) }))
}

func TestContractionEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	contracted := uint32(0)
	for i := 0; i < 300; i++ {
		nodes := uint32(2 + rng.Intn(9))
		net := graph.RandomNetwork(rng, nodes, rng.Intn(int(nodes)*2), int64(1+rng.Intn(200)), true)
		want := net.BruteForceMinCut()

		for _, tt := range inners {
			g := net.BuildUndirected(Factory(tt.factory, true)).(*Graph)
			got := g.ComputeMaxFlow()
			contracted += g.Contracted()
			require.Equal(t, want, got, "instance %d (%s): %+v", i, tt.name, net)
			require.Equal(t, got, net.CutValue(g.SegmentOf), "instance %d (%s): segmentation", i, tt.name)

			direct := net.BuildUndirected(Factory(tt.factory, false))
			require.Equal(t, got, direct.ComputeMaxFlow(), "instance %d (%s): direct", i, tt.name)
		}
	}
	assert.Greater(t, contracted, uint32(0))
}

func TestContractionOnLargerGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 10; i++ {
		nodes := uint32(500 + rng.Intn(500))
		net := graph.RandomNetwork(rng, nodes, int(nodes)*2, 1000, true)
		g := net.BuildUndirected(Factory(pseudoflow.Factory(graph.Options{}), true)).(*Graph)
		value := g.ComputeMaxFlow()
		assert.Equal(t, value, net.CutValue(g.SegmentOf))
		assert.Equal(t, g.Survivors()+g.Contracted(), nodes)

		for _, tt := range inners[2:] {
			direct := net.BuildUndirected(Factory(tt.factory, false))
			require.Equal(t, value, direct.ComputeMaxFlow(), "instance %d (%s)", i, tt.name)
		}
	}
}
