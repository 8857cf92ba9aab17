// Package report renders the timing summary of a finished mounting
// session: summary statistics, a PNG bar chart and an HTML chart page.
package report

import (
	"time"

	"github.com/banshee-data/propmount/internal/sessionlog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises per-slot mount times, in seconds.
type Stats struct {
	Slots   int
	Total   float64 // overall session time
	Mean    float64
	StdDev  float64 // sample standard deviation; 0 with fewer than two slots
	Fastest int     // zero-based slot index
	Slowest int
	Min     float64
	Max     float64
}

// Summarize computes Stats. An empty summary yields Fastest/Slowest -1.
func Summarize(s sessionlog.Summary) Stats {
	st := Stats{Slots: len(s.Slots), Total: s.Total.Seconds(), Fastest: -1, Slowest: -1}
	if len(s.Slots) == 0 {
		return st
	}
	secs := slotSeconds(s.Slots)
	if len(secs) > 1 {
		st.Mean, st.StdDev = stat.MeanStdDev(secs, nil)
	} else {
		st.Mean = secs[0]
	}
	st.Fastest = floats.MinIdx(secs)
	st.Slowest = floats.MaxIdx(secs)
	st.Min = secs[st.Fastest]
	st.Max = secs[st.Slowest]
	return st
}

func slotSeconds(ds []time.Duration) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d.Seconds()
	}
	return out
}
