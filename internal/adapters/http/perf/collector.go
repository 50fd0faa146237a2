package perf

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 4096

// EntryKind says which side of the console an entry was timed on.
type EntryKind uint8

const (
	// KindRequest is a dashboard page served to a browser tab.
	KindRequest EntryKind = iota
	// KindQuery is a durable storage statement.
	KindQuery
	// KindUpstream is a call to the backend API.
	KindUpstream
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // "GET /students", "POST /api/auth/login" or a storage op
	StatusCode int    // 0 for queries and transport failures
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer of timing entries. When full the
// oldest entries are overwritten. Aggregation happens only in Snapshot.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64
}

// NewCollector creates a collector holding at most size entries.
// A non-positive size falls back to DefaultRingSize.
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry. Safe for concurrent use; a nil collector is a no-op.
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return atomic.LoadInt64(&c.count)
}

// Latency holds percentiles for one entry kind.
type Latency struct {
	Count int
	P50Ms float64
	P95Ms float64
	P99Ms float64
}

// PathStat aggregates timing for a single path or storage op.
type PathStat struct {
	Path    string
	AvgMs   float64
	MaxMs   float64
	Count   int
	Errors  int
	TotalMs float64
}

// Snapshot is the aggregated view shown on the administrator dashboard.
type Snapshot struct {
	TotalRecorded   int64
	Pages           Latency
	Upstream        Latency
	UpstreamErrors  int
	SlowestPages    []PathStat
	SlowestUpstream []PathStat
	SlowestQueries  []PathStat
}

// Snapshot aggregates the entries recorded at or after since, keeping the
// topN slowest paths per kind.
// INVARIANT: Collector contents are not mutated
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	durations := map[EntryKind][]float64{}
	stats := map[EntryKind]map[string]*PathStat{
		KindRequest:  {},
		KindQuery:    {},
		KindUpstream: {},
	}

	snap := Snapshot{TotalRecorded: c.TotalRecorded()}
	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		byPath, ok := stats[e.Kind]
		if !ok {
			continue
		}
		durations[e.Kind] = append(durations[e.Kind], e.DurationMs)
		s, ok := byPath[e.Path]
		if !ok {
			s = &PathStat{Path: e.Path}
			byPath[e.Path] = s
		}
		s.Count++
		s.TotalMs += e.DurationMs
		if e.DurationMs > s.MaxMs {
			s.MaxMs = e.DurationMs
		}
		if e.Kind == KindUpstream && (e.StatusCode == 0 || e.StatusCode >= 400) {
			s.Errors++
			snap.UpstreamErrors++
		}
	}

	snap.Pages = latency(durations[KindRequest])
	snap.Upstream = latency(durations[KindUpstream])
	snap.SlowestPages = topByAvg(stats[KindRequest], topN)
	snap.SlowestUpstream = topByAvg(stats[KindUpstream], topN)
	snap.SlowestQueries = topByAvg(stats[KindQuery], topN)
	return snap
}

func latency(d []float64) Latency {
	if len(d) == 0 {
		return Latency{}
	}
	sort.Float64s(d)
	return Latency{
		Count: len(d),
		P50Ms: percentile(d, 50),
		P95Ms: percentile(d, 95),
		P99Ms: percentile(d, 99),
	}
}

// percentile returns the p-th percentile from a sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the n slowest paths by average duration. Ties break on
// path so the dashboard ordering is stable.
func topByAvg(stats map[string]*PathStat, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for _, s := range stats {
		s.AvgMs = s.TotalMs / float64(s.Count)
		list = append(list, *s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].AvgMs != list[j].AvgMs {
			return list[i].AvgMs > list[j].AvgMs
		}
		return list[i].Path < list[j].Path
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}
