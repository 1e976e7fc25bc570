package smf

import (
	"bytes"
	"testing"
)

func TestTrackWriterChunk(t *testing.T) {
	tw := NewTrackWriter()
	tw.ProgramChange(0, 2, 40)
	tw.NoteOn(0, 2, 60, 100)
	tw.NoteOff(480, 2, 60, 0)
	chunk, err := tw.Chunk()
	if err != nil {
		t.Fatalf("Chunk failed: %s", err)
	}
	want := []byte{
		// MTrk
		0x4d, 0x54, 0x72, 0x6b,
		// Chunk length
		0, 0, 0, 0x10,
		// Program change, channel 2, program 40
		0, 0xc2, 40,
		// Note on
		0, 0x92, 60, 100,
		// Note off 480 ticks later, delta as two VLQ bytes
		0x83, 0x60, 0x82, 60, 0,
		// End of track, appended by Chunk
		0, 0xff, 0x2f, 0,
	}
	if !bytes.Equal(chunk, want) {
		t.Errorf("chunk = % x\nwant    % x", chunk, want)
	}
}

func TestPitchBendByteOrder(t *testing.T) {
	tw := NewTrackWriter()
	// 0x2001: LSB 0x01 must come before MSB 0x40.
	tw.PitchBend(0, 0, 0x2001)
	tw.End(0)
	chunk, err := tw.Chunk()
	if err != nil {
		t.Fatalf("Chunk failed: %s", err)
	}
	want := []byte{
		0x4d, 0x54, 0x72, 0x6b,
		0, 0, 0, 0x08,
		0, 0xe0, 0x01, 0x40,
		0, 0xff, 0x2f, 0,
	}
	if !bytes.Equal(chunk, want) {
		t.Errorf("chunk = % x\nwant    % x", chunk, want)
	}
}

func TestMetaEvents(t *testing.T) {
	tw := NewTrackWriter()
	tw.TrackName(0, "Violin I")
	tw.Tempo(0, 500000)
	tw.TimeSignature(0, 3, 2)
	tw.KeySignature(0, -1, true)
	tw.Marker(96, "A")
	tw.End(0)
	chunk, err := tw.Chunk()
	if err != nil {
		t.Fatalf("Chunk failed: %s", err)
	}
	want := []byte{
		0x4d, 0x54, 0x72, 0x6b,
		0, 0, 0, 0x2a,
		// Track name "Violin I"
		0, 0xff, 0x03, 8, 'V', 'i', 'o', 'l', 'i', 'n', ' ', 'I',
		// Tempo 500000us = 120bpm
		0, 0xff, 0x51, 3, 0x07, 0xa1, 0x20,
		// 3/4 time
		0, 0xff, 0x58, 4, 3, 2, 24, 8,
		// D minor: one flat
		0, 0xff, 0x59, 2, 0xff, 1,
		// Marker "A" 96 ticks in
		0x60, 0xff, 0x06, 1, 'A',
		// End of track
		0, 0xff, 0x2f, 0,
	}
	if !bytes.Equal(chunk, want) {
		t.Errorf("chunk = % x\nwant    % x", chunk, want)
	}
}

func TestTrackWriterStickyError(t *testing.T) {
	tw := NewTrackWriter()
	tw.NoteOn(0, 16, 60, 100) // channel out of range
	tw.NoteOn(0, 0, 60, 100)  // ignored after the failure
	if tw.Err() == nil {
		t.Fatal("invalid channel should have failed the writer")
	}
	if _, err := tw.Chunk(); err == nil {
		t.Error("Chunk should report the stored error")
	}
}

func TestTrackWriterRejectsHighDataBytes(t *testing.T) {
	tw := NewTrackWriter()
	tw.NoteOn(0, 0, 128, 100)
	if tw.Err() == nil {
		t.Error("key 128 should have failed the writer")
	}

	tw = NewTrackWriter()
	tw.PitchBend(0, 0, 0x4000)
	if tw.Err() == nil {
		t.Error("15-bit bend value should have failed the writer")
	}
}

func TestWriteAfterEnd(t *testing.T) {
	tw := NewTrackWriter()
	tw.End(0)
	tw.NoteOn(0, 0, 60, 100)
	if tw.Err() == nil {
		t.Error("events after end-of-track should fail the writer")
	}
}

func TestEncodeFile(t *testing.T) {
	tw := NewTrackWriter()
	tw.End(0)
	track, err := tw.Chunk()
	if err != nil {
		t.Fatalf("Chunk failed: %s", err)
	}
	data, err := EncodeFile(96, [][]byte{track, track})
	if err != nil {
		t.Fatalf("EncodeFile failed: %s", err)
	}
	wantHeader := []byte{
		0x4d, 0x54, 0x68, 0x64,
		0, 0, 0, 6,
		0, 1, // format 1
		0, 2, // two tracks
		0, 0x60, // 96 ticks per quarter
	}
	if !bytes.Equal(data[:14], wantHeader) {
		t.Errorf("header = % x, want % x", data[:14], wantHeader)
	}
	if len(data) != 14+2*len(track) {
		t.Errorf("file length %d, want %d", len(data), 14+2*len(track))
	}
}

func TestEncodeFileRejectsBadInput(t *testing.T) {
	track := []byte{0x4d, 0x54, 0x72, 0x6b, 0, 0, 0, 4, 0, 0xff, 0x2f, 0}
	if _, err := EncodeFile(96, nil); err == nil {
		t.Error("zero tracks should fail")
	}
	if _, err := EncodeFile(0, [][]byte{track}); err == nil {
		t.Error("zero division should fail")
	}
	if _, err := EncodeFile(0x8000, [][]byte{track}); err == nil {
		t.Error("SMPTE-flagged division should fail")
	}
}
