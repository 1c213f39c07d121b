package dimacs

import (
	"bufio"
	"io"
	"strconv"

	"github.com/ScottSallinen/cutflow/graph"
)

// FromNetwork lays out net as an instance: node v becomes id v+1, followed by the source and the sink.
// Reverse capacities and undirected edges become a second arc; zero capacities are left out.
func FromNetwork(net *graph.Network) *Instance {
	inst := &Instance{Nodes: net.Nodes + 2, Source: net.Nodes + 1, Sink: net.Nodes + 2}
	add := func(from, to uint32, c int64) {
		if c > 0 {
			inst.Arcs = append(inst.Arcs, Arc{From: from, To: to, Cap: c})
		}
	}
	for _, a := range net.Arcs {
		add(a.From+1, a.To+1, a.Cap)
		if net.Undirected {
			add(a.To+1, a.From+1, a.Cap)
		} else {
			add(a.To+1, a.From+1, a.RevCap)
		}
	}
	for _, t := range net.Terminals {
		add(inst.Source, t.Node+1, t.Source)
		add(t.Node+1, inst.Sink, t.Sink)
	}
	return inst
}

// Write emits inst in the format Parse reads, with the given comment lines first.
func Write(w io.Writer, inst *Instance, comments ...string) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	for _, c := range comments {
		bw.WriteString("c " + c + "\n")
	}
	buf = append(buf, "p max "...)
	buf = strconv.AppendUint(buf, uint64(inst.Nodes), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(len(inst.Arcs)), 10)
	buf = append(buf, "\nn "...)
	buf = strconv.AppendUint(buf, uint64(inst.Source), 10)
	buf = append(buf, " s\nn "...)
	buf = strconv.AppendUint(buf, uint64(inst.Sink), 10)
	buf = append(buf, " t\n"...)
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	for _, a := range inst.Arcs {
		buf = append(buf[:0], "a "...)
		buf = strconv.AppendUint(buf, uint64(a.From), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendUint(buf, uint64(a.To), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, a.Cap, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}
