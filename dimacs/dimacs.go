// Package dimacs reads DIMACS max-flow problems:
//
//	c comment
//	p max NODES ARCS
//	n ID s
//	n ID t
//	a FROM TO CAPACITY
//
// Node ids are 1-based. The source and sink are whatever the n lines name; every other id is mapped to a dense
// engine id in ascending order.
package dimacs

import (
	"errors"
	"fmt"
	"io"

	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/utils"
)

var (
	ErrNoProblemLine     = errors.New("dimacs: missing problem line")
	ErrProblemType       = errors.New("dimacs: not a max-flow problem")
	ErrDuplicateProblem  = errors.New("dimacs: more than one problem line")
	ErrMissingTerminal   = errors.New("dimacs: source or sink not declared")
	ErrDuplicateTerminal = errors.New("dimacs: source or sink declared twice")
	ErrBadLine           = errors.New("dimacs: malformed line")
	ErrNodeRange         = errors.New("dimacs: node id out of range")
	ErrArcCount          = errors.New("dimacs: arc count does not match the problem line")
)

const maxLine = 1 << 16

// Arc as written in the file (1-based ids).
type Arc struct {
	From, To uint32
	Cap      int64
}

type Instance struct {
	Nodes  uint32 // Declared node count, source and sink included.
	Source uint32
	Sink   uint32
	Arcs   []Arc
}

// Parse reads a whole problem from r.
func Parse(r io.Reader) (*Instance, error) {
	inst := &Instance{}
	lines := utils.FastFileLines{Buf: make([]byte, maxLine)}
	fields := make([]string, 5)
	declaredArcs := uint64(0)
	seenProblem := false

	lineNo := 0
	for line := lines.Scan(r); line != nil; line = lines.Scan(r) {
		lineNo++
		n := utils.FastFields(fields, line)
		if n == 0 {
			continue
		}
		bad := func(err error) error {
			return fmt.Errorf("%w: line %d: %q", err, lineNo, string(line))
		}

		switch fields[0] {
		case "c":
		case "p":
			if seenProblem {
				return nil, bad(ErrDuplicateProblem)
			}
			if n != 4 {
				return nil, bad(ErrBadLine)
			}
			if fields[1] != "max" {
				return nil, bad(ErrProblemType)
			}
			nodes, ok1 := utils.ToIntStr(fields[2])
			arcs, ok2 := utils.ToInt64Str(fields[3])
			if !ok1 || !ok2 || arcs < 0 || nodes < 2 {
				return nil, bad(ErrBadLine)
			}
			inst.Nodes, declaredArcs, seenProblem = nodes, uint64(arcs), true
			inst.Arcs = make([]Arc, 0, declaredArcs)
		case "n":
			if !seenProblem {
				return nil, bad(ErrNoProblemLine)
			}
			if n != 3 {
				return nil, bad(ErrBadLine)
			}
			id, ok := utils.ToIntStr(fields[1])
			if !ok {
				return nil, bad(ErrBadLine)
			}
			if id == 0 || id > inst.Nodes {
				return nil, bad(ErrNodeRange)
			}
			switch fields[2] {
			case "s":
				if inst.Source != 0 {
					return nil, bad(ErrDuplicateTerminal)
				}
				inst.Source = id
			case "t":
				if inst.Sink != 0 {
					return nil, bad(ErrDuplicateTerminal)
				}
				inst.Sink = id
			default:
				return nil, bad(ErrBadLine)
			}
			if inst.Source == inst.Sink {
				return nil, bad(ErrDuplicateTerminal)
			}
		case "a":
			if !seenProblem {
				return nil, bad(ErrNoProblemLine)
			}
			if n != 4 {
				return nil, bad(ErrBadLine)
			}
			from, ok1 := utils.ToIntStr(fields[1])
			to, ok2 := utils.ToIntStr(fields[2])
			c, ok3 := utils.ToInt64Str(fields[3])
			if !ok1 || !ok2 || !ok3 || c < 0 {
				return nil, bad(ErrBadLine)
			}
			if from == 0 || to == 0 || from > inst.Nodes || to > inst.Nodes {
				return nil, bad(ErrNodeRange)
			}
			inst.Arcs = append(inst.Arcs, Arc{From: from, To: to, Cap: c})
		default:
			return nil, bad(ErrBadLine)
		}
	}

	if !seenProblem {
		return nil, ErrNoProblemLine
	}
	if inst.Source == 0 || inst.Sink == 0 {
		return nil, ErrMissingTerminal
	}
	if uint64(len(inst.Arcs)) != declaredArcs {
		return nil, fmt.Errorf("%w: declared %d, found %d", ErrArcCount, declaredArcs, len(inst.Arcs))
	}
	return inst, nil
}

// ParseFile parses path; .bz2 and .gz files are decompressed on the fly.
func ParseFile(path string) (*Instance, error) {
	rc, err := utils.OpenDecompressed(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	inst, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// NodeCount is the number of engine nodes: every declared node but the source and sink.
func (inst *Instance) NodeCount() uint32 {
	return inst.Nodes - 2
}

// Node maps a file id to its engine id; false for the source and sink.
func (inst *Instance) Node(id uint32) (uint32, bool) {
	if id == inst.Source || id == inst.Sink {
		return 0, false
	}
	v := id - 1
	if id > inst.Source {
		v--
	}
	if id > inst.Sink {
		v--
	}
	return v, true
}

// Network translates the instance: arcs leaving the source become source weights, arcs entering the sink become
// sink weights, and source->sink arcs are returned as direct flow. Arcs into the source, out of the sink, self loops
// and zero capacities can never carry flow and are dropped.
func (inst *Instance) Network() (net *graph.Network, direct int64) {
	net = &graph.Network{Nodes: inst.NodeCount()}
	for _, a := range inst.Arcs {
		if a.Cap == 0 || a.From == a.To || a.To == inst.Source || a.From == inst.Sink {
			continue
		}
		switch {
		case a.From == inst.Source && a.To == inst.Sink:
			direct += a.Cap
		case a.From == inst.Source:
			v, _ := inst.Node(a.To)
			net.Terminals = append(net.Terminals, graph.Terminal{Node: v, Source: a.Cap})
		case a.To == inst.Sink:
			u, _ := inst.Node(a.From)
			net.Terminals = append(net.Terminals, graph.Terminal{Node: u, Sink: a.Cap})
		default:
			u, _ := inst.Node(a.From)
			v, _ := inst.Node(a.To)
			net.Arcs = append(net.Arcs, graph.Arc{From: u, To: v, Cap: a.Cap})
		}
	}
	return net, direct
}

// Build replays the instance into a new engine. The max-flow of the instance is the engine's value plus direct.
func (inst *Instance) Build(factory graph.Factory) (engine graph.FlowEngine, direct int64) {
	net, direct := inst.Network()
	return net.Build(factory), direct
}
