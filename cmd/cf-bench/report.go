package main

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var reportHeader = []string{"run_id", "instance", "engine", "nodes", "arcs", "value", "build_ms", "solve_ms", "verified"}

func millis(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds()*1000, 'f', 3, 64)
}

// WriteReport writes one CSV row per result.
func WriteReport(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.RunID,
			r.Instance,
			r.Engine,
			strconv.FormatUint(uint64(r.Nodes), 10),
			strconv.Itoa(r.Arcs),
			strconv.FormatInt(r.Value, 10),
			millis(r.Build),
			millis(r.Solve),
			strconv.FormatBool(r.Verified),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
