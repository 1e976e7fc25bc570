package composition

// TempoPoint is one breakpoint of the tempo map: from Time onwards
// the piece runs at BPM beats per minute, until the next point.
type TempoPoint struct {
	Time float64 `json:"time"`
	BPM  float64 `json:"bpm"`
}

// TempoMap is an ordered sequence of tempo breakpoints. By convention
// the first point sits at time 0; times before the first point use
// the first point's tempo. The renderer validates monotonicity.
type TempoMap []TempoPoint

// BPMAt returns the tempo in effect at time t.
func (m TempoMap) BPMAt(t float64) float64 {
	if len(m) == 0 {
		return 0
	}
	bpm := m[0].BPM
	for _, p := range m {
		if p.Time > t {
			break
		}
		bpm = p.BPM
	}
	return bpm
}
