package render

import (
	"fmt"

	"orchestrion/composition"
)

// validate checks structural/encoding correctness of the composition
// before any bytes are produced. Music-theory concerns (voice
// leading, ranges) are upstream validators' business, not ours.
func validate(c *composition.Composition) error {
	if c == nil {
		return fmt.Errorf("no composition")
	}
	for _, part := range c.Parts {
		if part.Channel > 15 {
			return &InvalidEventError{Part: part.Name, Kind: "channel", Index: 0,
				Reason: fmt.Sprintf("channel %d outside 0-15", part.Channel)}
		}
		if part.Program > 127 {
			return &InvalidEventError{Part: part.Name, Kind: "program", Index: 0,
				Reason: fmt.Sprintf("program %d outside 0-127", part.Program)}
		}
		for i, n := range part.Notes {
			if err := validateNote(part.Name, i, n); err != nil {
				return err
			}
		}
		for i, cc := range part.ControlChanges {
			if cc.Controller < 0 || cc.Controller > 127 {
				return &InvalidEventError{Part: part.Name, Kind: "control change", Index: i,
					Reason: fmt.Sprintf("controller %d outside 0-127", cc.Controller)}
			}
			if cc.Value < 0 || cc.Value > 127 {
				return &InvalidEventError{Part: part.Name, Kind: "control change", Index: i,
					Reason: fmt.Sprintf("value %d outside 0-127", cc.Value)}
			}
			if cc.Time < 0 {
				return &InvalidEventError{Part: part.Name, Kind: "control change", Index: i,
					Reason: fmt.Sprintf("time %g before the start", cc.Time)}
			}
		}
		for i, pb := range part.PitchBends {
			if pb.Value < -8192 || pb.Value > 8191 {
				return &InvalidEventError{Part: part.Name, Kind: "pitch bend", Index: i,
					Reason: fmt.Sprintf("bend %d outside -8192..8191", pb.Value)}
			}
			if pb.Time < 0 {
				return &InvalidEventError{Part: part.Name, Kind: "pitch bend", Index: i,
					Reason: fmt.Sprintf("time %g before the start", pb.Time)}
			}
		}
		for i, pc := range part.ProgramChanges {
			if pc.Program < 0 || pc.Program > 127 {
				return &InvalidEventError{Part: part.Name, Kind: "program change", Index: i,
					Reason: fmt.Sprintf("program %d outside 0-127", pc.Program)}
			}
			if pc.Time < 0 {
				return &InvalidEventError{Part: part.Name, Kind: "program change", Index: i,
					Reason: fmt.Sprintf("time %g before the start", pc.Time)}
			}
		}
	}
	return nil
}

func validateNote(part string, i int, n composition.Note) error {
	switch {
	case n.Pitch < 0 || n.Pitch > 127:
		return &InvalidNoteError{Part: part, Index: i,
			Reason: fmt.Sprintf("pitch %d outside 0-127", n.Pitch)}
	case n.Velocity < 0 || n.Velocity > 127:
		return &InvalidNoteError{Part: part, Index: i,
			Reason: fmt.Sprintf("velocity %d outside 0-127", n.Velocity)}
	case n.Duration <= 0:
		return &InvalidNoteError{Part: part, Index: i,
			Reason: fmt.Sprintf("duration %g is not positive", n.Duration)}
	case n.Start < 0:
		return &InvalidNoteError{Part: part, Index: i,
			Reason: fmt.Sprintf("start %g before the start of the piece", n.Start)}
	}
	return nil
}
