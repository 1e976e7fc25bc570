package composition

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Articulation is a closed set of playing-technique tags. Resolving
// the tag into concrete duration/velocity scaling and a keyswitch is
// the renderer's job; the composition only records intent. Parsing an
// unknown tag fails at construction time rather than at render time.
type Articulation int

const (
	NoArticulation Articulation = iota
	Sustain
	Legato
	Staccato
	Spiccato
	Marcato
	Tenuto
	Pizzicato
	Tremolo
	Trill
)

var articulationNames = map[Articulation]string{
	Sustain:   "sustain",
	Legato:    "legato",
	Staccato:  "staccato",
	Spiccato:  "spiccato",
	Marcato:   "marcato",
	Tenuto:    "tenuto",
	Pizzicato: "pizzicato",
	Tremolo:   "tremolo",
	Trill:     "trill",
}

var articulationValues = func() map[string]Articulation {
	m := make(map[string]Articulation, len(articulationNames))
	for a, name := range articulationNames {
		m[name] = a
	}
	return m
}()

func (a Articulation) String() string {
	if a == NoArticulation {
		return "none"
	}
	if name, ok := articulationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("articulation(%d)", int(a))
}

// ParseArticulation maps a tag string to its Articulation. The empty
// string means no articulation.
func ParseArticulation(s string) (Articulation, error) {
	if s == "" || s == "none" {
		return NoArticulation, nil
	}
	if a, ok := articulationValues[s]; ok {
		return a, nil
	}
	return NoArticulation, fmt.Errorf("unknown articulation %q", s)
}

func (a Articulation) MarshalJSON() ([]byte, error) {
	if a == NoArticulation {
		return json.Marshal("")
	}
	name, ok := articulationNames[a]
	if !ok {
		return nil, fmt.Errorf("cannot marshal articulation %d", int(a))
	}
	return json.Marshal(name)
}

func (a *Articulation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseArticulation(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ArticulationSpec is what a tag means for one instrument: how to
// scale the note and which reserved key selects the technique in the
// sample library.
type ArticulationSpec struct {
	DurationScale float64 `json:"durationScale"`
	VelocityScale float64 `json:"velocityScale"`
	Keyswitch     uint8   `json:"keyswitch"`
}

// ArticulationTable maps instrument name and articulation to a spec.
// It is built once and never mutated afterwards; the renderer takes
// it as an explicit dependency.
type ArticulationTable struct {
	instruments map[string]map[Articulation]ArticulationSpec
}

// NewArticulationTable copies entries into an immutable table.
func NewArticulationTable(entries map[string]map[Articulation]ArticulationSpec) *ArticulationTable {
	instruments := make(map[string]map[Articulation]ArticulationSpec, len(entries))
	for instrument, specs := range entries {
		m := make(map[Articulation]ArticulationSpec, len(specs))
		for a, spec := range specs {
			m[a] = spec
		}
		instruments[instrument] = m
	}
	return &ArticulationTable{instruments: instruments}
}

// Lookup returns the spec for an instrument's articulation, and
// whether one exists.
func (t *ArticulationTable) Lookup(instrument string, a Articulation) (ArticulationSpec, bool) {
	specs, ok := t.instruments[instrument]
	if !ok {
		return ArticulationSpec{}, false
	}
	spec, ok := specs[a]
	return spec, ok
}

// Instruments lists the instruments the table knows, sorted.
func (t *ArticulationTable) Instruments() []string {
	names := make([]string, 0, len(t.instruments))
	for name := range t.instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
