package render

import (
	"math"

	"orchestrion/composition"
)

// Two note boundaries this close together count as touching when
// merging ties.
const tieTolerance = 1e-6

// Velocity for the synthesized keyswitch presses. The key selects a
// technique; the velocity is not musically meaningful.
const keyswitchVelocity = 64

// resolvedNote is a note after tie merging and articulation scaling,
// ready for the timeline. index points back at the source note for
// error reporting.
type resolvedNote struct {
	index    int
	pitch    uint8
	start    float64
	duration float64
	velocity uint8
}

// keyswitchPress is a short note-on/note-off pair on the reserved
// technique key, scheduled ahead of the note it affects.
type keyswitchPress struct {
	key   uint8
	onAt  float64
	offAt float64
}

// resolvePart turns a part's notes into concrete events: merges tied
// notes into single spans, applies the articulation table's duration
// and velocity scaling, and synthesizes keyswitch presses with
// pre-roll. Consecutive notes sharing an articulation produce a
// single keyswitch; one is only emitted when the technique changes.
func resolvePart(part *composition.InstrumentPart, table *composition.ArticulationTable,
	preRoll float64) ([]resolvedNote, []keyswitchPress, error) {

	notes := mergeTies(part.Notes)
	resolved := make([]resolvedNote, 0, len(notes))
	var switches []keyswitchPress
	active := composition.NoArticulation

	for _, m := range notes {
		r := resolvedNote{
			index:    m.index,
			pitch:    uint8(m.note.Pitch),
			start:    m.note.Start,
			duration: m.duration,
			velocity: uint8(m.note.Velocity),
		}
		if a := m.note.Articulation; a != composition.NoArticulation {
			spec, ok := table.Lookup(part.Instrument, a)
			if !ok {
				return nil, nil, &UnknownArticulationError{
					Part:         part.Name,
					Instrument:   part.Instrument,
					Index:        m.index,
					Articulation: a,
				}
			}
			r.duration = m.duration * spec.DurationScale
			r.velocity = scaleVelocity(m.note.Velocity, spec.VelocityScale)
			if a != active {
				onAt := math.Max(0, m.note.Start-preRoll)
				switches = append(switches, keyswitchPress{
					key:   spec.Keyswitch,
					onAt:  onAt,
					offAt: onAt + preRoll,
				})
				active = a
			}
		}
		resolved = append(resolved, r)
	}
	return resolved, switches, nil
}

func scaleVelocity(velocity int, scale float64) uint8 {
	v := math.Round(float64(velocity) * scale)
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// mergedNote is a note with tie chains collapsed into one duration.
type mergedNote struct {
	index    int
	note     composition.Note
	duration float64
}

// mergeTies collapses runs of tied notes. A tie holds when the next
// note in the part has the same pitch and starts where the tied note
// ends; a tie with no continuation renders as a plain note.
func mergeTies(notes []composition.Note) []mergedNote {
	merged := make([]mergedNote, 0, len(notes))
	for i := 0; i < len(notes); i++ {
		m := mergedNote{index: i, note: notes[i], duration: notes[i].Duration}
		end := notes[i].End()
		for notes[i].Tied && i+1 < len(notes) &&
			notes[i+1].Pitch == notes[i].Pitch &&
			math.Abs(notes[i+1].Start-end) < tieTolerance {
			i++
			m.duration += notes[i].Duration
			end = notes[i].End()
		}
		merged = append(merged, m)
	}
	return merged
}
