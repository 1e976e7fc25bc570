package smf

import "fmt"

// Channel message status nibbles.
const (
	statusNoteOff       = 0x80
	statusNoteOn        = 0x90
	statusControlChange = 0xb0
	statusProgramChange = 0xc0
	statusPitchBend     = 0xe0
)

// Meta event type bytes.
const (
	metaTrackName     = 0x03
	metaMarker        = 0x06
	metaEndOfTrack    = 0x2f
	metaSetTempo      = 0x51
	metaTimeSignature = 0x58
	metaKeySignature  = 0x59
)

// PitchBendCenter is the 14-bit value meaning "no bend".
const PitchBendCenter = 0x2000

// TrackWriter accumulates the event byte stream for one MTrk chunk.
// Every method takes the delta-time in ticks since the previous event
// in the same track. The first error sticks: later calls become
// no-ops and Chunk reports it.
type TrackWriter struct {
	data   []byte
	err    error
	closed bool
}

func NewTrackWriter() *TrackWriter {
	return &TrackWriter{data: make([]byte, 0, 256)}
}

// Err returns the first error encountered while writing, if any.
func (t *TrackWriter) Err() error {
	return t.err
}

func (t *TrackWriter) fail(format string, args ...any) {
	if t.err == nil {
		t.err = fmt.Errorf(format, args...)
	}
}

// delta writes the delta-time; reports whether the caller may proceed.
func (t *TrackWriter) delta(d uint64) bool {
	if t.err != nil {
		return false
	}
	if t.closed {
		t.fail("event written after end-of-track")
		return false
	}
	t.data, t.err = AppendVarLen(t.data, d)
	return t.err == nil
}

func (t *TrackWriter) channelMessage(delta uint64, status byte, channel uint8, payload ...uint8) {
	if channel > 0xf {
		t.fail("invalid MIDI channel %d", channel)
		return
	}
	for _, b := range payload {
		if b > 0x7f {
			t.fail("data byte %d out of 7-bit range for status 0x%02x", b, status)
			return
		}
	}
	if !t.delta(delta) {
		return
	}
	t.data = append(t.data, status|channel)
	t.data = append(t.data, payload...)
}

func (t *TrackWriter) NoteOn(delta uint64, channel, key, velocity uint8) {
	t.channelMessage(delta, statusNoteOn, channel, key, velocity)
}

func (t *TrackWriter) NoteOff(delta uint64, channel, key, velocity uint8) {
	t.channelMessage(delta, statusNoteOff, channel, key, velocity)
}

func (t *TrackWriter) ControlChange(delta uint64, channel, controller, value uint8) {
	t.channelMessage(delta, statusControlChange, channel, controller, value)
}

func (t *TrackWriter) ProgramChange(delta uint64, channel, program uint8) {
	t.channelMessage(delta, statusProgramChange, channel, program)
}

// PitchBend writes a 14-bit unsigned bend value (0-16383, center
// 0x2000) as two 7-bit data bytes, least significant first.
func (t *TrackWriter) PitchBend(delta uint64, channel uint8, value uint16) {
	if value > 0x3fff {
		t.fail("pitch-bend value %d out of 14-bit range", value)
		return
	}
	t.channelMessage(delta, statusPitchBend, channel, uint8(value&0x7f), uint8(value>>7))
}

// Meta writes a meta event: 0xFF, the type byte, a variable-length
// payload length, then the payload.
func (t *TrackWriter) Meta(delta uint64, eventType uint8, payload []byte) {
	if !t.delta(delta) {
		return
	}
	t.data = append(t.data, 0xff, eventType)
	t.data, t.err = AppendVarLen(t.data, uint64(len(payload)))
	if t.err != nil {
		return
	}
	t.data = append(t.data, payload...)
}

// Tempo writes a set-tempo meta event from a microseconds-per-quarter
// value, which must fit in 24 bits.
func (t *TrackWriter) Tempo(delta uint64, microsPerQuarter uint32) {
	if microsPerQuarter >= 1<<24 {
		t.fail("tempo %d microseconds per quarter exceeds 24 bits", microsPerQuarter)
		return
	}
	t.Meta(delta, metaSetTempo, []byte{
		byte(microsPerQuarter >> 16),
		byte(microsPerQuarter >> 8),
		byte(microsPerQuarter),
	})
}

// TimeSignature writes a time-signature meta event. The denominator
// is given as a negative power of two (3 means x/8 time).
func (t *TrackWriter) TimeSignature(delta uint64, numerator, denominatorPow uint8) {
	// 24 MIDI clocks per metronome tick and eight notated 32nd notes
	// per quarter are the conventional defaults.
	t.Meta(delta, metaTimeSignature, []byte{numerator, denominatorPow, 24, 8})
}

// KeySignature writes a key-signature meta event. sharps is the count
// on the circle of fifths, -7 (flats) through +7.
func (t *TrackWriter) KeySignature(delta uint64, sharps int8, minor bool) {
	if sharps < -7 || sharps > 7 {
		t.fail("key signature %d outside -7..7", sharps)
		return
	}
	mode := byte(0)
	if minor {
		mode = 1
	}
	t.Meta(delta, metaKeySignature, []byte{byte(sharps), mode})
}

func (t *TrackWriter) TrackName(delta uint64, name string) {
	t.Meta(delta, metaTrackName, []byte(name))
}

func (t *TrackWriter) Marker(delta uint64, label string) {
	t.Meta(delta, metaMarker, []byte(label))
}

// End terminates the track. Chunk appends this automatically if the
// caller has not.
func (t *TrackWriter) End(delta uint64) {
	t.Meta(delta, metaEndOfTrack, nil)
	t.closed = true
}

// Chunk returns the finished MTrk chunk: type, big-endian length,
// then the event stream.
func (t *TrackWriter) Chunk() ([]byte, error) {
	if !t.closed && t.err == nil {
		t.End(0)
	}
	if t.err != nil {
		return nil, t.err
	}
	chunk := make([]byte, 0, len(t.data)+8)
	chunk = append(chunk, 'M', 'T', 'r', 'k')
	chunk = appendUint32(chunk, uint32(len(t.data)))
	return append(chunk, t.data...), nil
}
