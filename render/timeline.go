package render

import (
	"sort"

	"orchestrion/composition"
	"orchestrion/smf"
)

// eventClass is the tie-break order for events landing on the same
// tick. Program changes settle first, controllers and bends next,
// keyswitch presses ahead of the notes they govern, and note-offs
// ahead of note-ons so a release never swallows the attack that
// follows it.
type eventClass int

const (
	classProgram eventClass = iota
	classControl
	classKeyswitchOn
	classNoteOff
	classNoteOn
)

type eventKind int

const (
	kindProgram eventKind = iota
	kindControl
	kindBend
	kindNoteOn
	kindNoteOff
)

// timedEvent is one schedulable occurrence on a part's timeline,
// first in seconds and then, after quantization, in ticks.
type timedEvent struct {
	time  float64
	tick  int64
	class eventClass
	kind  eventKind
	a, b  uint8  // key/velocity, controller/value, or program
	bend  uint16 // 14-bit wire value, kind == kindBend only
}

// compilePart flattens a part's resolved notes, keyswitches, and
// expression events into one unsorted event list.
func compilePart(part *composition.InstrumentPart, notes []resolvedNote, switches []keyswitchPress) []timedEvent {
	events := make([]timedEvent, 0, 2*len(notes)+2*len(switches)+
		len(part.ControlChanges)+len(part.PitchBends)+len(part.ProgramChanges)+1)

	// The part's default program always lands at time zero.
	events = append(events, timedEvent{time: 0, class: classProgram, kind: kindProgram, a: part.Program})
	for _, pc := range part.ProgramChanges {
		events = append(events, timedEvent{time: pc.Time, class: classProgram, kind: kindProgram, a: uint8(pc.Program)})
	}
	for _, cc := range part.ControlChanges {
		events = append(events, timedEvent{
			time: cc.Time, class: classControl, kind: kindControl,
			a: uint8(cc.Controller), b: uint8(cc.Value),
		})
	}
	for _, pb := range part.PitchBends {
		events = append(events, timedEvent{
			time: pb.Time, class: classControl, kind: kindBend,
			bend: uint16(pb.Value + smf.PitchBendCenter),
		})
	}
	for _, ks := range switches {
		events = append(events, timedEvent{
			time: ks.onAt, class: classKeyswitchOn, kind: kindNoteOn,
			a: ks.key, b: keyswitchVelocity,
		})
		events = append(events, timedEvent{
			time: ks.offAt, class: classNoteOff, kind: kindNoteOff,
			a: ks.key,
		})
	}
	for _, n := range notes {
		events = append(events, timedEvent{
			time: n.start, class: classNoteOn, kind: kindNoteOn,
			a: n.pitch, b: n.velocity,
		})
		events = append(events, timedEvent{
			time: n.start + n.duration, class: classNoteOff, kind: kindNoteOff,
			a: n.pitch,
		})
	}
	return events
}

// quantizeAndSort maps every event onto the tick grid and orders the
// stream by tick, breaking ties by event class. The sort is stable so
// equal-class events keep their source order and output stays
// deterministic.
func quantizeAndSort(events []timedEvent, q *quantizer) {
	for i := range events {
		events[i].tick = q.ticksAt(events[i].time)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].class < events[j].class
	})
}
