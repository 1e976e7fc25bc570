package render

import (
	"errors"
	"math"
	"testing"

	"orchestrion/composition"
)

func testTable() *composition.ArticulationTable {
	return composition.NewArticulationTable(map[string]map[composition.Articulation]composition.ArticulationSpec{
		"violin": {
			composition.Sustain:  {DurationScale: 1.0, VelocityScale: 1.0, Keyswitch: 0},
			composition.Staccato: {DurationScale: 0.4, VelocityScale: 1.15, Keyswitch: 2},
			composition.Legato:   {DurationScale: 1.05, VelocityScale: 0.95, Keyswitch: 1},
		},
	})
}

func violinPart(notes ...composition.Note) *composition.InstrumentPart {
	return &composition.InstrumentPart{
		Name:       "Violin I",
		Instrument: "violin",
		Notes:      notes,
	}
}

func TestResolveAppliesArticulationScaling(t *testing.T) {
	part := violinPart(composition.Note{
		Pitch: 60, Start: 1, Duration: 1, Velocity: 100,
		Articulation: composition.Staccato,
	})
	notes, _, err := resolvePart(part, testTable(), 0.05)
	if err != nil {
		t.Fatalf("resolvePart failed: %s", err)
	}
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	if math.Abs(notes[0].duration-0.4) > 1e-9 {
		t.Errorf("staccato duration = %g, want 0.4", notes[0].duration)
	}
	if notes[0].velocity != 115 {
		t.Errorf("staccato velocity = %d, want 115", notes[0].velocity)
	}
}

func TestResolveVelocityClamped(t *testing.T) {
	part := violinPart(composition.Note{
		Pitch: 60, Start: 0, Duration: 1, Velocity: 120,
		Articulation: composition.Staccato,
	})
	notes, _, err := resolvePart(part, testTable(), 0.05)
	if err != nil {
		t.Fatalf("resolvePart failed: %s", err)
	}
	// 120 * 1.15 = 138, clamps to 127.
	if notes[0].velocity != 127 {
		t.Errorf("velocity = %d, want 127", notes[0].velocity)
	}
}

func TestResolveKeyswitchDeduplication(t *testing.T) {
	// Five staccato notes in a row produce one keyswitch press, not
	// five. Switching to legato and back produces two more.
	var ns []composition.Note
	for i := 0; i < 5; i++ {
		ns = append(ns, composition.Note{
			Pitch: 60 + i, Start: float64(i), Duration: 0.5, Velocity: 80,
			Articulation: composition.Staccato,
		})
	}
	_, switches, err := resolvePart(violinPart(ns...), testTable(), 0.05)
	if err != nil {
		t.Fatalf("resolvePart failed: %s", err)
	}
	if len(switches) != 1 {
		t.Fatalf("got %d keyswitches, want 1", len(switches))
	}
	if switches[0].key != 2 {
		t.Errorf("keyswitch key = %d, want 2", switches[0].key)
	}

	ns = append(ns,
		composition.Note{Pitch: 65, Start: 5, Duration: 1, Velocity: 80, Articulation: composition.Legato},
		composition.Note{Pitch: 66, Start: 6, Duration: 0.5, Velocity: 80, Articulation: composition.Staccato},
	)
	_, switches, err = resolvePart(violinPart(ns...), testTable(), 0.05)
	if err != nil {
		t.Fatalf("resolvePart failed: %s", err)
	}
	if len(switches) != 3 {
		t.Errorf("got %d keyswitches, want 3", len(switches))
	}
}

func TestResolveKeyswitchPreRoll(t *testing.T) {
	part := violinPart(composition.Note{
		Pitch: 60, Start: 1, Duration: 1, Velocity: 80,
		Articulation: composition.Staccato,
	})
	_, switches, err := resolvePart(part, testTable(), 0.05)
	if err != nil {
		t.Fatalf("resolvePart failed: %s", err)
	}
	if math.Abs(switches[0].onAt-0.95) > 1e-9 {
		t.Errorf("keyswitch onAt = %g, want 0.95", switches[0].onAt)
	}
	if math.Abs(switches[0].offAt-1.0) > 1e-9 {
		t.Errorf("keyswitch offAt = %g, want 1.0", switches[0].offAt)
	}
}

func TestResolveKeyswitchClampsAtZero(t *testing.T) {
	// A note at the very start cannot be preceded; the press clamps to
	// time zero and still holds for the pre-roll.
	part := violinPart(composition.Note{
		Pitch: 60, Start: 0, Duration: 1, Velocity: 80,
		Articulation: composition.Staccato,
	})
	_, switches, err := resolvePart(part, testTable(), 0.05)
	if err != nil {
		t.Fatalf("resolvePart failed: %s", err)
	}
	if switches[0].onAt != 0 {
		t.Errorf("keyswitch onAt = %g, want 0", switches[0].onAt)
	}
	if math.Abs(switches[0].offAt-0.05) > 1e-9 {
		t.Errorf("keyswitch offAt = %g, want 0.05", switches[0].offAt)
	}
}

func TestResolveUnknownArticulation(t *testing.T) {
	part := violinPart(composition.Note{
		Pitch: 60, Start: 0, Duration: 1, Velocity: 80,
		Articulation: composition.Tremolo, // not in the violin table
	})
	_, _, err := resolvePart(part, testTable(), 0.05)
	if err == nil {
		t.Fatal("unknown articulation should fail")
	}
	var unknown *UnknownArticulationError
	if !errors.As(err, &unknown) {
		t.Fatalf("error is %T, want UnknownArticulationError", err)
	}
	if unknown.Part != "Violin I" || unknown.Index != 0 {
		t.Errorf("error names part %q index %d", unknown.Part, unknown.Index)
	}
}

func TestMergeTies(t *testing.T) {
	notes := []composition.Note{
		{Pitch: 60, Start: 0, Duration: 1, Velocity: 80, Tied: true},
		{Pitch: 60, Start: 1, Duration: 1, Velocity: 80, Tied: true},
		{Pitch: 60, Start: 2, Duration: 0.5, Velocity: 80},
		{Pitch: 62, Start: 2.5, Duration: 1, Velocity: 80},
	}
	merged := mergeTies(notes)
	if len(merged) != 2 {
		t.Fatalf("got %d merged notes, want 2", len(merged))
	}
	if math.Abs(merged[0].duration-2.5) > 1e-9 {
		t.Errorf("merged duration = %g, want 2.5", merged[0].duration)
	}
	if merged[1].note.Pitch != 62 {
		t.Errorf("second note pitch = %d, want 62", merged[1].note.Pitch)
	}
}

func TestMergeTiesIgnoresBrokenTies(t *testing.T) {
	// A tie to a different pitch, or across a gap, does not merge.
	notes := []composition.Note{
		{Pitch: 60, Start: 0, Duration: 1, Velocity: 80, Tied: true},
		{Pitch: 62, Start: 1, Duration: 1, Velocity: 80},
		{Pitch: 62, Start: 3, Duration: 1, Velocity: 80, Tied: true},
		{Pitch: 62, Start: 5, Duration: 1, Velocity: 80},
	}
	merged := mergeTies(notes)
	if len(merged) != 4 {
		t.Errorf("got %d merged notes, want 4", len(merged))
	}
}
