package main

import (
	"fmt"
	"strings"

	"orchestrion/composition"
	"orchestrion/config"
)

var (
	majorIntervals = []int{0, 2, 4, 5, 7, 9, 11}
	minorIntervals = []int{0, 2, 3, 5, 7, 8, 10}
)

// Eight-measure progression: I IV V I vi IV V I, as scale degrees.
var progression = []int{0, 3, 4, 0, 5, 3, 4, 0}

// buildDemo writes a small string chorale in the preset's key and
// meter: violin melody, viola pedal, cello and contrabass bass line.
func buildDemo(mood string, preset config.MoodPreset) (*composition.Composition, error) {
	sig, err := composition.ParseKey(preset.Key)
	if err != nil {
		return nil, err
	}
	if preset.Tempo <= 0 {
		return nil, fmt.Errorf("mood %q: tempo must be positive", mood)
	}
	if preset.TimeSignature.Numerator <= 0 || preset.TimeSignature.Denominator <= 0 {
		return nil, fmt.Errorf("mood %q: invalid time signature", mood)
	}

	intervals := majorIntervals
	// Tonic pitch class off the circle of fifths.
	tonic := ((int(sig.Sharps)*7)%12 + 12) % 12
	if sig.Minor {
		intervals = minorIntervals
		tonic = (tonic + 9) % 12
	}

	beats := preset.TimeSignature.Numerator
	beatSec := 60 / preset.Tempo * 4 / float64(preset.TimeSignature.Denominator)
	measureSec := float64(beats) * beatSec
	v := preset.Dynamics

	violin := &composition.InstrumentPart{
		Name: "Violin I", Instrument: "violin", Channel: 0, Program: 40,
	}
	viola := &composition.InstrumentPart{
		Name: "Viola", Instrument: "viola", Channel: 1, Program: 41,
	}
	cello := &composition.InstrumentPart{
		Name: "Cello", Instrument: "cello", Channel: 2, Program: 42,
	}
	bass := &composition.InstrumentPart{
		Name: "Contrabass", Instrument: "contrabass", Channel: 3, Program: 43,
	}

	for m, root := range progression {
		at := float64(m) * measureSec

		// Violin alternates a staccato arpeggio with a legato hold.
		if m%2 == 0 {
			for b := 0; b < beats; b++ {
				deg := root + []int{0, 2, 4}[b%3]
				violin.Notes = append(violin.Notes, composition.Note{
					Pitch:        scalePitch(tonic+72, intervals, deg),
					Start:        at + float64(b)*beatSec,
					Duration:     beatSec,
					Velocity:     clampVelocity(v + 8),
					Articulation: composition.Staccato,
				})
			}
		} else {
			violin.Notes = append(violin.Notes, composition.Note{
				Pitch:        scalePitch(tonic+72, intervals, root+4),
				Start:        at,
				Duration:     measureSec,
				Velocity:     clampVelocity(v),
				Articulation: composition.Legato,
			})
		}

		// Viola holds the dominant as a pedal tone, tied in pairs.
		viola.Notes = append(viola.Notes, composition.Note{
			Pitch:        scalePitch(tonic+60, intervals, 4),
			Start:        at,
			Duration:     measureSec,
			Velocity:     clampVelocity(v - 10),
			Articulation: composition.Sustain,
			Tied:         m%2 == 0,
		})

		cello.Notes = append(cello.Notes, composition.Note{
			Pitch:        scalePitch(tonic+48, intervals, root),
			Start:        at,
			Duration:     measureSec,
			Velocity:     clampVelocity(v),
			Articulation: composition.Tenuto,
		})

		for b := 0; b < beats; b++ {
			bass.Notes = append(bass.Notes, composition.Note{
				Pitch:        scalePitch(tonic+36, intervals, root),
				Start:        at + float64(b)*beatSec,
				Duration:     beatSec * 0.9,
				Velocity:     clampVelocity(v - 6),
				Articulation: composition.Pizzicato,
			})
		}
	}

	title := strings.ToUpper(mood[:1]) + mood[1:] + " Sketch"
	return &composition.Composition{
		Title: title,
		Key:   sig,
		Time:  preset.TimeSignature,
		Tempo: composition.TempoMap{{Time: 0, BPM: preset.Tempo}},
		Markers: []composition.Marker{
			{Time: 0, Label: "Theme"},
			{Time: 4 * measureSec, Label: "Answer"},
		},
		Parts: []*composition.InstrumentPart{violin, viola, cello, bass},
	}, nil
}

// scalePitch maps a scale degree (0 = tonic, may be negative or span
// octaves) onto a MIDI pitch above the given tonic note.
func scalePitch(tonicNote int, intervals []int, degree int) int {
	octave := degree / 7
	step := degree % 7
	if step < 0 {
		step += 7
		octave--
	}
	return tonicNote + octave*12 + intervals[step]
}

func clampVelocity(v int) int {
	if v < 1 {
		return 1
	}
	if v > 127 {
		return 127
	}
	return v
}
