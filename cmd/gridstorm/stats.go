package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/dispatcher/handler"
)

// statsTopN bounds the per-action lines of the statistics report.
const statsTopN = 5

// printStats writes the system size, the dispatch counters, the latency report and the
// newest commits of sys.
func printStats(w io.Writer, sys *dispatcher.System) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	st := sys.Stats()
	fmt.Fprintf(tw, "namespaces\t%d\tactions\t%d\thooks\t%d\n", st.Namespaces, st.Actions, st.Hooks)

	if m := sys.Metrics(); m != nil {
		t := m.Totals()
		fmt.Fprintf(tw, "dispatches\t%d\terrors\t%d\tpanics\t%d\n",
			t.DispatchCount, t.ErrorCount(), t.PanicCount)
		fmt.Fprintf(tw, "no-op\t%d\tcancelled\t%d\n",
			t.StatusCount(handler.StatusNoOp), t.StatusCount(handler.StatusCancelled))
		fmt.Fprintf(tw, "total\t%v\taverage\t%v\n", t.TotalDuration, t.AverageActionDuration())
		for _, am := range m.TopActions(statsTopN) {
			fmt.Fprintf(tw, "  %s\t%d\tavg %v\terrors %.0f%%\n",
				am.Name, am.DispatchCount, am.AverageActionDuration(), am.ErrorRate())
		}
	}

	if pm := sys.PerformanceMonitor(); pm != nil {
		report := pm.Report(statsTopN)
		g := report.GlobalStats
		fmt.Fprintf(tw, "latency\tp50 %v\tp95 %v\tp99 %v\tmax %v\n",
			g.Percentile50, g.Percentile95, g.Percentile99, g.MaxTime)
		for _, a := range report.SlowestN {
			fmt.Fprintf(tw, "  %s\t%d\tavg %v\tmax %v\n", a.Action, a.Count, a.AvgTime, a.MaxTime)
		}
	}

	if changes := sys.RecentChanges(statsTopN); len(changes) > 0 {
		fmt.Fprintln(tw, "changes")
		for _, c := range changes {
			fmt.Fprintf(tw, "  r%d\t%s\t%s\n", c.Revision, c.Command, c.Action)
		}
	}
}
