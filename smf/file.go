package smf

import (
	"fmt"
	"io"
)

// DefaultTicksPerQuarter is the resolution used when the caller does
// not pick one. 480 divides evenly into common note subdivisions.
const DefaultTicksPerQuarter = 480

func appendUint16(buf []byte, v uint16) []byte {
	return append(buf, byte(v>>8), byte(v))
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// EncodeFile assembles a format-1 SMF from finished track chunks (as
// returned by TrackWriter.Chunk). Track 0 is conventionally the
// tempo/meta track; the rest are instrument tracks in order.
func EncodeFile(ticksPerQuarter uint16, tracks [][]byte) ([]byte, error) {
	if ticksPerQuarter == 0 || ticksPerQuarter&0x8000 != 0 {
		return nil, fmt.Errorf("invalid ticks-per-quarter division %d", ticksPerQuarter)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("an SMF needs at least one track")
	}
	if len(tracks) > 0xffff {
		return nil, fmt.Errorf("too many tracks: %d (max %d)", len(tracks), 0xffff)
	}
	size := 14
	for _, tr := range tracks {
		size += len(tr)
	}
	out := make([]byte, 0, size)
	out = append(out, 'M', 'T', 'h', 'd')
	out = appendUint32(out, 6)
	out = appendUint16(out, 1) // format 1
	out = appendUint16(out, uint16(len(tracks)))
	out = appendUint16(out, ticksPerQuarter)
	for _, tr := range tracks {
		out = append(out, tr...)
	}
	return out, nil
}

// WriteFile encodes the tracks and writes the result to w in one
// call. Nothing is written if encoding fails.
func WriteFile(w io.Writer, ticksPerQuarter uint16, tracks [][]byte) error {
	data, err := EncodeFile(ticksPerQuarter, tracks)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
