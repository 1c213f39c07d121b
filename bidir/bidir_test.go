package bidir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/ScottSallinen/cutflow/graph"
)

func TestScenarios(t *testing.T) {
	e := New(2, 1)
	e.AddArc(0, 1, 3, 0)
	e.AddTerminalWeights(0, 4, 0)
	e.AddTerminalWeights(1, 0, 6)
	assert.Equal(t, int64(3), e.ComputeMaxFlow())
	assert.Equal(t, graph.SOURCE, e.SegmentOf(0))
	assert.Equal(t, graph.SINK, e.SegmentOf(1))

	e = New(3, 2)
	e.AddArc(0, 1, 3, 0)
	e.AddArc(1, 2, 10, 0)
	e.AddTerminalWeights(0, 5, 0)
	e.AddTerminalWeights(2, 0, 5)
	assert.Equal(t, int64(3), e.ComputeMaxFlow())
	assert.Equal(t, int64(3), e.ComputeMaxFlow())
	fwd, rev := e.ArcFlow(1)
	assert.Equal(t, int64(3), fwd)
	assert.Equal(t, int64(0), rev)

	e = New(2, 0)
	e.AddTerminalWeights(0, 2, 0)
	assert.Equal(t, int64(0), e.ComputeMaxFlow())
	assert.Equal(t, graph.SOURCE, e.SegmentOf(1))
}

func TestRandomAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 300; i++ {
		nodes := uint32(2 + rng.Intn(9))
		net := graph.RandomNetwork(rng, nodes, rng.Intn(int(nodes)*3), 12, false)
		e := net.Build(Factory())
		got := e.ComputeMaxFlow()
		require.Equal(t, net.BruteForceMinCut(), got, "instance %d: %+v", i, net)
		require.Equal(t, got, net.CutValue(e.SegmentOf), "instance %d: segmentation", i)
	}
}

func TestFlowIsFeasible(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	net := graph.RandomNetwork(rng, 300, 2000, 100, false)
	e := net.Build(Factory()).(*Engine)
	value := e.ComputeMaxFlow()
	require.Equal(t, value, net.CutValue(e.SegmentOf))

	balance := make([]int64, net.Nodes)
	for k, a := range net.Arcs {
		fwd, rev := e.ArcFlow(uint32(k))
		require.LessOrEqual(t, fwd, a.Cap)
		require.LessOrEqual(t, rev, a.RevCap)
		balance[a.From] += rev - fwd
		balance[a.To] += fwd - rev
	}
	// Whatever a node does not balance internally goes through its terminal arcs.
	source := make([]int64, net.Nodes)
	sink := make([]int64, net.Nodes)
	for _, tw := range net.Terminals {
		source[tw.Node] += tw.Source
		sink[tw.Node] += tw.Sink
	}
	intoSink := int64(0)
	for v := range balance {
		common := min(source[v], sink[v])
		intoSink += common
		if supply := source[v] - sink[v]; supply >= 0 {
			require.True(t, balance[v] >= -supply && balance[v] <= 0, "node %d balance %d supply %d", v, balance[v], supply)
		} else {
			require.True(t, balance[v] >= 0 && balance[v] <= -supply, "node %d balance %d demand %d", v, balance[v], -supply)
			intoSink += balance[v]
		}
	}
	assert.Equal(t, value, intoSink)
}

func TestTreesMeetFromBothSides(t *testing.T) {
	// A wide source fan and a single sink path: the sink tree is grown first.
	e := New(12, 12)
	for v := uint32(1); v < 11; v++ {
		e.AddTerminalWeights(v, 1, 0)
		e.AddArc(v, 0, 1, 0)
	}
	e.AddArc(0, 11, 4, 0)
	e.AddTerminalWeights(11, 0, 100)
	assert.Equal(t, int64(4), e.ComputeMaxFlow())
	assert.Equal(t, graph.SOURCE, e.SegmentOf(0))
	assert.Equal(t, graph.SINK, e.SegmentOf(11))
	assert.Equal(t, uint64(4), e.paths)
}
