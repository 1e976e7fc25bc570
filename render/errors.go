// Package render compiles a finished composition into Standard MIDI
// File bytes: it resolves articulations into keyswitches, flattens
// each part into a tick-ordered event stream, and hands the streams
// to the smf encoder. A render either returns the complete file or an
// error; partial output is never exposed.
package render

import (
	"fmt"

	"orchestrion/composition"
)

// InvalidNoteError reports a note whose pitch, velocity, duration, or
// start time is out of range.
type InvalidNoteError struct {
	Part   string
	Index  int
	Reason string
}

func (e *InvalidNoteError) Error() string {
	return fmt.Sprintf("part %q: note %d: %s", e.Part, e.Index, e.Reason)
}

// InvalidEventError reports an out-of-range expression event or part
// field.
type InvalidEventError struct {
	Part   string
	Kind   string
	Index  int
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("part %q: %s %d: %s", e.Part, e.Kind, e.Index, e.Reason)
}

// UnknownArticulationError reports a note asking for an articulation
// the instrument's table does not define. The renderer fails rather
// than substituting a default, since a substitute would silently
// change musical intent.
type UnknownArticulationError struct {
	Part         string
	Instrument   string
	Index        int
	Articulation composition.Articulation
}

func (e *UnknownArticulationError) Error() string {
	return fmt.Sprintf("part %q: note %d: instrument %q has no articulation %q",
		e.Part, e.Index, e.Instrument, e.Articulation)
}

// InvalidEventOrderingError reports a negative delta-time between two
// events of one track. Deltas are unrepresentable when negative, and
// clamping would hide the ordering bug that produced them.
type InvalidEventOrderingError struct {
	Part  string
	Index int
	Delta int64
}

func (e *InvalidEventOrderingError) Error() string {
	return fmt.Sprintf("part %q: event %d: negative delta-time %d ticks", e.Part, e.Index, e.Delta)
}

// TempoMapError reports an empty or non-monotonic tempo map.
type TempoMapError struct {
	Reason string
}

func (e *TempoMapError) Error() string {
	return "tempo map: " + e.Reason
}
