package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ScottSallinen/cutflow/augment"
	"github.com/ScottSallinen/cutflow/bidir"
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/pseudoflow"
	"github.com/ScottSallinen/cutflow/slimcut"
)

var ErrUnknownEngine = errors.New("unknown engine")

func ExtractGraphName(graphFilename string) (graphName string) {
	gNameMainT := strings.Split(graphFilename, "/")
	gNameMain := gNameMainT[len(gNameMainT)-1]
	gNameMainTD := strings.Split(gNameMain, ".")
	// Compressed inputs carry two extensions (name.max.bz2).
	if len(gNameMainTD) > 2 && (gNameMainTD[len(gNameMainTD)-1] == "bz2" || gNameMainTD[len(gNameMainTD)-1] == "gz") {
		gNameMainTD = gNameMainTD[:len(gNameMainTD)-1]
	}
	if len(gNameMainTD) > 1 {
		return gNameMainTD[len(gNameMainTD)-2]
	} else {
		return gNameMainTD[0]
	}
}

// Engine returns the factory registered under name, configured from options.
func Engine(name string, options graph.Options) (graph.Factory, error) {
	switch name {
	case "pseudoflow":
		return pseudoflow.Factory(options), nil
	case "augment":
		return augment.Factory(), nil
	case "bidir":
		return bidir.Factory(), nil
	}
	return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownEngine, name, strings.Join(graph.EngineNames, ", "))
}

// Undirected wraps the named engine for undirected problems; options.Contract selects the contracting wrapper.
func Undirected(name string, options graph.Options) (graph.UndirectedFactory, error) {
	factory, err := Engine(name, options)
	if err != nil {
		return nil, err
	}
	return slimcut.Factory(factory, options.Contract), nil
}
