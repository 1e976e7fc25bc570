// Package smf serializes tick-ordered MIDI events into the Standard
// MIDI File binary format: the MThd header chunk, MTrk track chunks,
// and the variable-length delta-time encoding between events. It is a
// pure byte-level encoder; it knows nothing about compositions.
package smf

import "fmt"

// Largest value representable in the four-byte variable-length
// encoding the SMF format allows.
const maxVarLen = 0x0fffffff

// EncodingOverflowError is returned when a delta-time or length does
// not fit in a variable-length MIDI integer.
type EncodingOverflowError struct {
	Value uint64
}

func (e *EncodingOverflowError) Error() string {
	return fmt.Sprintf("value 0x%x too large for a variable-length MIDI integer (max 0x%x)",
		e.Value, uint64(maxVarLen))
}

// AppendVarLen appends the MIDI variable-length encoding of n to buf.
// The value is written seven bits at a time, most significant group
// first, with the high bit set on every byte except the last.
func AppendVarLen(buf []byte, n uint64) ([]byte, error) {
	if n > maxVarLen {
		return buf, &EncodingOverflowError{Value: n}
	}
	if n == 0 {
		return append(buf, 0), nil
	}
	var groups [4]byte
	count := 0
	for n != 0 {
		groups[count] = byte(n & 0x7f)
		n >>= 7
		count++
	}
	for i := count - 1; i > 0; i-- {
		buf = append(buf, groups[i]|0x80)
	}
	return append(buf, groups[0]), nil
}
