package profiling

import (
	"sort"
	"sync"
	"time"
)

type average struct {
	total time.Duration
	count int64
}

var (
	avgMu      sync.Mutex
	avgEnabled bool
	averages   = make(map[string]average)
)

// SetAveragesEnabled turns run-wide average recording on or off
func SetAveragesEnabled(enable bool) {
	avgMu.Lock()
	avgEnabled = enable
	avgMu.Unlock()
}

// RecordAverage adds one sample under key. It is a no-op unless averages are enabled.
func RecordAverage(key string, d time.Duration) {
	avgMu.Lock()
	defer avgMu.Unlock()
	if !avgEnabled {
		return
	}
	avg := averages[key]
	avg.total += d
	avg.count++
	averages[key] = avg
}

// Metric is one averaged measurement
type Metric struct {
	Name    string
	Average time.Duration
	Samples int64
}

// Averages returns all recorded averages sorted by name
func Averages() []Metric {
	avgMu.Lock()
	defer avgMu.Unlock()
	out := make([]Metric, 0, len(averages))
	for k, v := range averages {
		out = append(out, Metric{Name: k, Average: v.total / time.Duration(v.count), Samples: v.count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// resetAverages drops all recorded samples
func resetAverages() {
	avgMu.Lock()
	averages = make(map[string]average)
	avgMu.Unlock()
}
