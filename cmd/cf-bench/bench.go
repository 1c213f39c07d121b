package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ScottSallinen/cutflow/cmd/common"
	"github.com/ScottSallinen/cutflow/dimacs"
	"github.com/ScottSallinen/cutflow/enforce"
	"github.com/ScottSallinen/cutflow/graph"
	"github.com/ScottSallinen/cutflow/pseudoflow"
	"github.com/ScottSallinen/cutflow/utils"
)

var (
	ErrDisagree    = errors.New("engines disagree on the flow value")
	ErrCutMismatch = errors.New("segmentation does not match the flow value")
)

// Result of one engine on one instance. Times are medians over the repeats.
type Result struct {
	RunID    string
	Instance string
	Engine   string
	Nodes    uint32
	Arcs     int
	Value    int64
	Build    time.Duration
	Solve    time.Duration
	Verified bool
}

// RunInstance parses path and runs every engine of options on it.
func RunInstance(ctx context.Context, path string, options graph.Options, runID string) ([]Result, error) {
	watch := utils.Watch{}
	watch.Start()
	inst, err := dimacs.ParseFile(path)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("Parsed " + path + " (" + utils.V(inst.Nodes) + " nodes, " + utils.V(len(inst.Arcs)) +
		" arcs) in " + utils.V(watch.Elapsed().Milliseconds()) + "ms")
	return Run(ctx, common.ExtractGraphName(path), inst, options, runID)
}

// Run solves inst once per engine (up to options.Threads engines at a time) and checks that they agree.
func Run(ctx context.Context, name string, inst *dimacs.Instance, options graph.Options, runID string) ([]Result, error) {
	net, direct := inst.Network()
	factories := make([]graph.Factory, len(options.Engines))
	for i, engineName := range options.Engines {
		factory, err := common.Engine(engineName, options)
		if err != nil {
			return nil, err
		}
		factories[i] = factory
	}

	results := make([]Result, len(options.Engines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(options.Threads, 1))
	for i := range factories {
		g.Go(func() error {
			res, err := solve(ctx, net, direct, factories[i], options)
			if err != nil {
				return fmt.Errorf("%s on %s: %w", options.Engines[i], name, err)
			}
			res.RunID, res.Instance, res.Engine = runID, name, options.Engines[i]
			res.Nodes, res.Arcs = net.Nodes, len(net.Arcs)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results[min(1, len(results)):] {
		if r.Value != results[0].Value {
			return results, fmt.Errorf("%w: %s %d, %s %d on %s", ErrDisagree, results[0].Engine, results[0].Value,
				r.Engine, r.Value, name)
		}
	}
	return results, nil
}

func solve(ctx context.Context, net *graph.Network, direct int64, factory graph.Factory, options graph.Options) (res Result, err error) {
	repeat := max(options.Repeat, 1)
	builds := make([]time.Duration, 0, repeat)
	solves := make([]time.Duration, 0, repeat)

	for r := 0; r < repeat; r++ {
		if err = ctx.Err(); err != nil {
			return res, err
		}
		var engine graph.FlowEngine
		watch := utils.Watch{}
		err = enforce.Try(func() {
			watch.Tic()
			engine = net.Build(factory)
			builds = append(builds, watch.Toc())
			watch.Tic()
			res.Value = engine.ComputeMaxFlow() + direct
			solves = append(solves, watch.Toc())
		})
		if err != nil {
			return res, err
		}
		if pf, ok := engine.(*pseudoflow.Engine); ok {
			log.Debug().Msg("Pseudoflow stats: " + utils.V(pf.Stats()))
		}
		if options.CheckCorrectness && r == 0 {
			if cut := net.CutValue(engine.SegmentOf) + direct; cut != res.Value {
				return res, fmt.Errorf("%w: cut %d, flow %d", ErrCutMismatch, cut, res.Value)
			}
			res.Verified = true
		}
	}
	res.Build = utils.Median(builds)
	res.Solve = utils.Median(solves)
	return res, nil
}
