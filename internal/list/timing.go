package list

import (
	"sort"
	"sync"
	"time"

	"github.com/worktrunk/wt/internal/facts"
	"github.com/worktrunk/wt/internal/shellio"
)

// timings collects per-collector durations when WT_LIST_DEBUG is set.
// Disabled, every call is a no-op.
type timings struct {
	mu      sync.Mutex
	enabled bool
	byKind  map[facts.Kind][]time.Duration
}

func newTimings(enabled bool) *timings {
	t := &timings{enabled: enabled}
	if enabled {
		t.byKind = make(map[facts.Kind][]time.Duration)
	}
	return t
}

func (t *timings) record(kind facts.Kind, d time.Duration) {
	if t == nil || !t.enabled {
		return
	}
	t.mu.Lock()
	t.byKind[kind] = append(t.byKind[kind], d)
	t.mu.Unlock()
}

func (t *timings) report(out *shellio.Output) {
	if t == nil || !t.enabled {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	kinds := make([]string, 0, len(t.byKind))
	for k := range t.byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		durations := t.byKind[facts.Kind(k)]
		var total time.Duration
		max := time.Duration(0)
		for _, d := range durations {
			total += d
			if d > max {
				max = d
			}
		}
		out.Statusf("%-24s n=%-3d total=%-10s max=%s",
			k, len(durations), total.Round(time.Microsecond), max.Round(time.Microsecond))
	}
}
