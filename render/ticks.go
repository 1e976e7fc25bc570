package render

import (
	"fmt"
	"math"
	"sort"

	"orchestrion/composition"
)

// quantizer converts composition time in seconds to integer MIDI
// ticks by integrating over the tempo map. Tick counts at segment
// boundaries are precomputed so a lookup is one interpolation.
type quantizer struct {
	times []float64 // segment start times, ascending, times[0] == 0
	rates []float64 // ticks per second within each segment
	cum   []float64 // tick count at each segment start
}

func newQuantizer(tempo composition.TempoMap, ticksPerQuarter uint16) (*quantizer, error) {
	if len(tempo) == 0 {
		return nil, &TempoMapError{Reason: "no tempo entries"}
	}
	for i, p := range tempo {
		if p.BPM <= 0 {
			return nil, &TempoMapError{Reason: fmt.Sprintf("entry %d: tempo %g BPM is not positive", i, p.BPM)}
		}
		if i > 0 && p.Time <= tempo[i-1].Time {
			return nil, &TempoMapError{Reason: fmt.Sprintf("entry %d at %gs is not after entry %d at %gs",
				i, p.Time, i-1, tempo[i-1].Time)}
		}
	}
	q := &quantizer{}
	if tempo[0].Time > 0 {
		// Times before the first breakpoint run at its tempo.
		q.times = append(q.times, 0)
		q.rates = append(q.rates, tempo[0].BPM/60*float64(ticksPerQuarter))
		q.cum = append(q.cum, 0)
	} else if tempo[0].Time < 0 {
		return nil, &TempoMapError{Reason: fmt.Sprintf("entry 0 at %gs is before the start", tempo[0].Time)}
	}
	for _, p := range tempo {
		rate := p.BPM / 60 * float64(ticksPerQuarter)
		if n := len(q.times); n > 0 {
			q.cum = append(q.cum, q.cum[n-1]+(p.Time-q.times[n-1])*q.rates[n-1])
		} else {
			q.cum = append(q.cum, 0)
		}
		q.times = append(q.times, p.Time)
		q.rates = append(q.rates, rate)
	}
	return q, nil
}

// ticksAt returns the tick for a time, rounded to nearest. The
// mapping is monotonic: cumulative tick counts never decrease with
// time, and rounding preserves order.
func (q *quantizer) ticksAt(t float64) int64 {
	i := sort.SearchFloat64s(q.times, t)
	// SearchFloat64s finds the first segment starting at or after t;
	// we want the segment containing t.
	if i == len(q.times) || q.times[i] > t {
		i--
	}
	if i < 0 {
		i = 0
	}
	return int64(math.Round(q.cum[i] + (t-q.times[i])*q.rates[i]))
}
