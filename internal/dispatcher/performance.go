package dispatcher

import (
	"cmp"
	"math"
	"slices"
	"sync"
	"time"
)

// latencyWindowSize is the number of recent samples percentiles are
// computed from.
const latencyWindowSize = 1024

// LatencyStats summarizes the durations recorded for an action. Count,
// the total, the average and the extremes cover every sample; the
// percentiles cover the most recent ones.
type LatencyStats struct {
	Count        uint64
	TotalTime    time.Duration
	MinTime      time.Duration
	MaxTime      time.Duration
	AvgTime      time.Duration
	Percentile50 time.Duration
	Percentile95 time.Duration
	Percentile99 time.Duration
}

// latencyWindow is a ring of recent samples plus running totals.
type latencyWindow struct {
	ring  []time.Duration
	next  int
	count uint64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

func (w *latencyWindow) add(d time.Duration) {
	if w.count == 0 || d < w.min {
		w.min = d
	}
	w.max = max(w.max, d)
	w.count++
	w.total += d

	if len(w.ring) < latencyWindowSize {
		w.ring = append(w.ring, d)
		return
	}
	w.ring[w.next] = d
	w.next = (w.next + 1) % latencyWindowSize
}

func (w *latencyWindow) stats() LatencyStats {
	if w.count == 0 {
		return LatencyStats{}
	}
	sorted := slices.Clone(w.ring)
	slices.Sort(sorted)
	return LatencyStats{
		Count:        w.count,
		TotalTime:    w.total,
		MinTime:      w.min,
		MaxTime:      w.max,
		AvgTime:      w.total / time.Duration(w.count),
		Percentile50: nearestRank(sorted, 50),
		Percentile95: nearestRank(sorted, 95),
		Percentile99: nearestRank(sorted, 99),
	}
}

// nearestRank returns the p-th percentile of a sorted, non-empty slice.
func nearestRank(sorted []time.Duration, p float64) time.Duration {
	i := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	return sorted[min(max(i, 0), len(sorted)-1)]
}

// ActionLatency is one line of PerformanceMonitor.SlowestActions.
type ActionLatency struct {
	Action  string
	AvgTime time.Duration
	MaxTime time.Duration
	Count   uint64
}

// PerformanceReport is a snapshot of a PerformanceMonitor.
type PerformanceReport struct {
	Generated   time.Time
	GlobalStats LatencyStats
	SlowestN    []ActionLatency
	ActionCount int
	// Seen counts every Record call, Sampled only those kept.
	Seen    uint64
	Sampled uint64
}

// PerformanceMonitor tracks dispatch latency per action and overall, and
// reports dispatches slower than a threshold.
type PerformanceMonitor struct {
	mu        sync.Mutex
	global    latencyWindow
	actions   map[string]*latencyWindow
	threshold time.Duration
	alert     func(action string, d time.Duration)
	rate      float64
	seen      uint64
	sampled   uint64
}

// NewPerformanceMonitor samples every dispatch and raises no alerts.
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{actions: make(map[string]*latencyWindow), rate: 1}
}

// SetSlowThreshold sets the duration above which the alert callback
// fires. Zero disables alerts.
func (pm *PerformanceMonitor) SetSlowThreshold(d time.Duration) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.threshold = d
}

func (pm *PerformanceMonitor) SetAlertCallback(fn func(action string, d time.Duration)) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.alert = fn
}

// SetSampleRate keeps the given fraction of samples, clamped to [0, 1].
// Sampling is deterministic: with rate r, exactly floor(n*r) of the first
// n samples are kept.
func (pm *PerformanceMonitor) SetSampleRate(r float64) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.rate = min(max(r, 0), 1)
}

// Record adds one dispatch duration. Its signature matches the report
// function of hook.NewTimingHook.
func (pm *PerformanceMonitor) Record(action string, d time.Duration) {
	pm.mu.Lock()
	pm.seen++
	keep := math.Floor(float64(pm.seen)*pm.rate) > math.Floor(float64(pm.seen-1)*pm.rate)
	if !keep {
		pm.mu.Unlock()
		return
	}
	pm.sampled++
	pm.global.add(d)
	w, ok := pm.actions[action]
	if !ok {
		w = &latencyWindow{}
		pm.actions[action] = w
	}
	w.add(d)
	alert := pm.alert
	slow := pm.threshold > 0 && d > pm.threshold
	pm.mu.Unlock()

	if slow && alert != nil {
		alert(action, d)
	}
}

func (pm *PerformanceMonitor) GlobalStats() LatencyStats {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.global.stats()
}

// ActionStats returns the statistics of one action.
func (pm *PerformanceMonitor) ActionStats(action string) (LatencyStats, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	w, ok := pm.actions[action]
	if !ok {
		return LatencyStats{}, false
	}
	return w.stats(), true
}

func (pm *PerformanceMonitor) AllActionStats() map[string]LatencyStats {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	all := make(map[string]LatencyStats, len(pm.actions))
	for name, w := range pm.actions {
		all[name] = w.stats()
	}
	return all
}

// SlowestActions returns the n actions with the highest average latency.
func (pm *PerformanceMonitor) SlowestActions(n int) []ActionLatency {
	var list []ActionLatency
	for name, s := range pm.AllActionStats() {
		list = append(list, ActionLatency{Action: name, AvgTime: s.AvgTime, MaxTime: s.MaxTime, Count: s.Count})
	}
	slices.SortFunc(list, func(a, b ActionLatency) int {
		if c := cmp.Compare(b.AvgTime, a.AvgTime); c != 0 {
			return c
		}
		return cmp.Compare(a.Action, b.Action)
	})
	return list[:min(max(n, 0), len(list))]
}

func (pm *PerformanceMonitor) Reset() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.global = latencyWindow{}
	pm.actions = make(map[string]*latencyWindow)
	pm.seen, pm.sampled = 0, 0
}

// Report snapshots the monitor with the topN slowest actions.
func (pm *PerformanceMonitor) Report(topN int) PerformanceReport {
	r := PerformanceReport{
		Generated:   time.Now(),
		GlobalStats: pm.GlobalStats(),
		SlowestN:    pm.SlowestActions(topN),
	}
	pm.mu.Lock()
	r.ActionCount = len(pm.actions)
	r.Seen, r.Sampled = pm.seen, pm.sampled
	pm.mu.Unlock()
	return r
}
