package composition

import (
	"encoding/json"
	"fmt"

	"gopkg.in/music-theory.v0/key"
	"gopkg.in/music-theory.v0/note"
)

// KeySignature is a key resolved to what the MIDI meta event needs:
// a position on the circle of fifths and a mode. Name keeps the
// spelling the composer wrote.
type KeySignature struct {
	Name   string
	Sharps int8 // -7 (flats) through +7 (sharps)
	Minor  bool
}

// Circle-of-fifths positions by chromatic root. Enharmonic roots use
// the conventional spelling (Db major over C# major, G# minor over
// Ab minor where the sharp spelling is standard).
var majorSharps = map[note.Class]int8{
	note.C:  0,
	note.G:  1,
	note.D:  2,
	note.A:  3,
	note.E:  4,
	note.B:  5,
	note.Fs: 6,
	note.Cs: -5,
	note.Gs: -4,
	note.Ds: -3,
	note.As: -2,
	note.F:  -1,
}

var minorSharps = map[note.Class]int8{
	note.A:  0,
	note.E:  1,
	note.B:  2,
	note.Fs: 3,
	note.Cs: 4,
	note.Gs: 5,
	note.Ds: 6,
	note.As: -5,
	note.D:  -1,
	note.G:  -2,
	note.C:  -3,
	note.F:  -4,
}

// ParseKey resolves a key name like "D minor" or "Bb" into a
// KeySignature. Major is assumed when no mode is given.
func ParseKey(name string) (KeySignature, error) {
	k := key.Of(name)
	if k.Root == 0 {
		return KeySignature{}, fmt.Errorf("unknown key %q", name)
	}
	minor := k.Mode == key.Minor
	table := majorSharps
	if minor {
		table = minorSharps
	}
	sharps, ok := table[k.Root]
	if !ok {
		return KeySignature{}, fmt.Errorf("no key signature for %q", name)
	}
	return KeySignature{Name: name, Sharps: sharps, Minor: minor}, nil
}

// MustKey is ParseKey for known-good literals in code.
func MustKey(name string) KeySignature {
	ks, err := ParseKey(name)
	if err != nil {
		panic(err)
	}
	return ks
}

func (ks KeySignature) String() string {
	if ks.Name != "" {
		return ks.Name
	}
	mode := "major"
	if ks.Minor {
		mode = "minor"
	}
	return fmt.Sprintf("%+d %s", ks.Sharps, mode)
}

// Key signatures travel through JSON as their name, so composition
// files stay readable and unknown keys fail at load time.
func (ks KeySignature) MarshalJSON() ([]byte, error) {
	return json.Marshal(ks.Name)
}

func (ks *KeySignature) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "" {
		*ks = KeySignature{}
		return nil
	}
	parsed, err := ParseKey(name)
	if err != nil {
		return err
	}
	*ks = parsed
	return nil
}
