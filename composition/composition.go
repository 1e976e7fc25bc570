// Package composition holds the data model for a fully-composed
// orchestral piece: parts, notes, expression events, and the
// composition-level tempo, meter, and key information. Values here
// are plain data; the render package turns them into MIDI bytes.
package composition

// Note is a single scheduled note inside a part. Times are in
// seconds. Pitch and Velocity are ints rather than bytes so that
// out-of-range input survives decoding and can be rejected with a
// proper error instead of silently wrapping.
type Note struct {
	Pitch        int          `json:"pitch"`
	Start        float64      `json:"start"`
	Duration     float64      `json:"duration"`
	Velocity     int          `json:"velocity"`
	Articulation Articulation `json:"articulation,omitempty"`
	// Tied marks this note as tied to the next note of the same pitch
	// in the part; the renderer merges them into one sounding note.
	Tied bool `json:"tied,omitempty"`
}

// End returns the time the note stops sounding.
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// ControlChange is a continuous-controller event layered onto a part.
type ControlChange struct {
	Time       float64 `json:"time"`
	Controller int     `json:"controller"`
	Value      int     `json:"value"`
}

// PitchBend is a bend event. Value is a signed offset from center,
// -8192 through 8191; the encoder maps it onto the unsigned 14-bit
// wire range.
type PitchBend struct {
	Time  float64 `json:"time"`
	Value int     `json:"value"`
}

// ProgramChange switches the part's patch mid-piece. The part's
// default program is set separately on InstrumentPart.
type ProgramChange struct {
	Time    float64 `json:"time"`
	Program int     `json:"program"`
}

// Marker labels a point in the piece (section boundaries, rehearsal
// letters). Markers land on the meta track.
type Marker struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// TimeSignature is a meter like 3/4. Denominator must be a power of
// two.
type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// DenominatorPow returns the denominator as the negative power of two
// the MIDI meta event wants, or false if it is not a power of two.
func (ts TimeSignature) DenominatorPow() (uint8, bool) {
	d := ts.Denominator
	if d <= 0 {
		return 0, false
	}
	pow := uint8(0)
	for d > 1 {
		if d%2 != 0 {
			return 0, false
		}
		d /= 2
		pow++
	}
	return pow, true
}

// TimeChange is a meter change at an absolute time.
type TimeChange struct {
	Time      float64       `json:"time"`
	Signature TimeSignature `json:"signature"`
}

// KeyChange is a key-signature change at an absolute time.
type KeyChange struct {
	Time float64      `json:"time"`
	Key  KeySignature `json:"key"`
}

// InstrumentPart is one named voice: an instrument identity, a MIDI
// channel, and an ordered collection of notes plus optional
// expression events. One part becomes exactly one output track.
type InstrumentPart struct {
	Name           string          `json:"name"`
	Instrument     string          `json:"instrument"`
	Channel        uint8           `json:"channel"`
	Program        uint8           `json:"program"`
	Notes          []Note          `json:"notes"`
	ControlChanges []ControlChange `json:"controlChanges,omitempty"`
	PitchBends     []PitchBend     `json:"pitchBends,omitempty"`
	ProgramChanges []ProgramChange `json:"programChanges,omitempty"`
}

// Composition is the sole input to the renderer: an immutable
// snapshot of a finished piece.
type Composition struct {
	Title       string            `json:"title"`
	Key         KeySignature      `json:"key"`
	Time        TimeSignature     `json:"timeSignature"`
	Tempo       TempoMap          `json:"tempo"`
	TimeChanges []TimeChange      `json:"timeChanges,omitempty"`
	KeyChanges  []KeyChange       `json:"keyChanges,omitempty"`
	Markers     []Marker          `json:"markers,omitempty"`
	Parts       []*InstrumentPart `json:"parts"`
}

// Duration returns the end time of the last note in any part.
func (c *Composition) Duration() float64 {
	end := 0.0
	for _, p := range c.Parts {
		for _, n := range p.Notes {
			if n.End() > end {
				end = n.End()
			}
		}
	}
	return end
}

// NoteCount returns the total number of notes across all parts.
func (c *Composition) NoteCount() int {
	total := 0
	for _, p := range c.Parts {
		total += len(p.Notes)
	}
	return total
}
