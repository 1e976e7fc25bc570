package composition

import (
	"encoding/json"
	"testing"
)

func TestParseArticulation(t *testing.T) {
	for name, want := range articulationValues {
		got, err := ParseArticulation(name)
		if err != nil {
			t.Errorf("ParseArticulation(%q) failed: %s", name, err)
		}
		if got != want {
			t.Errorf("ParseArticulation(%q) = %v, want %v", name, got, want)
		}
	}
	if a, err := ParseArticulation(""); err != nil || a != NoArticulation {
		t.Errorf("empty tag should mean no articulation, got %v, %v", a, err)
	}
	if _, err := ParseArticulation("col legno"); err == nil {
		t.Error("unknown tag should fail")
	}
}

func TestArticulationJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		A Articulation `json:"a"`
	}
	data, err := json.Marshal(wrapper{A: Staccato})
	if err != nil {
		t.Fatalf("marshal failed: %s", err)
	}
	var w wrapper
	if err := json.Unmarshal(data, &w); err != nil {
		t.Fatalf("unmarshal failed: %s", err)
	}
	if w.A != Staccato {
		t.Errorf("round trip gave %v, want staccato", w.A)
	}

	if err := json.Unmarshal([]byte(`{"a":"flautando"}`), &w); err == nil {
		t.Error("unknown articulation should fail at decode time")
	}
}

func TestArticulationTableLookup(t *testing.T) {
	table := NewArticulationTable(map[string]map[Articulation]ArticulationSpec{
		"violin": {Staccato: {DurationScale: 0.4, VelocityScale: 1.15, Keyswitch: 2}},
	})
	spec, ok := table.Lookup("violin", Staccato)
	if !ok {
		t.Fatal("expected a violin staccato spec")
	}
	if spec.DurationScale != 0.4 || spec.Keyswitch != 2 {
		t.Errorf("spec = %+v", spec)
	}
	if _, ok := table.Lookup("violin", Pizzicato); ok {
		t.Error("missing articulation should not resolve")
	}
	if _, ok := table.Lookup("theremin", Staccato); ok {
		t.Error("missing instrument should not resolve")
	}
}

func TestTimeSignatureDenominatorPow(t *testing.T) {
	cases := []struct {
		denominator int
		pow         uint8
		ok          bool
	}{
		{1, 0, true},
		{2, 1, true},
		{4, 2, true},
		{8, 3, true},
		{16, 4, true},
		{0, 0, false},
		{3, 0, false},
		{12, 0, false},
	}
	for _, c := range cases {
		pow, ok := TimeSignature{Numerator: 4, Denominator: c.denominator}.DenominatorPow()
		if ok != c.ok || (ok && pow != c.pow) {
			t.Errorf("DenominatorPow(%d) = %d, %v; want %d, %v", c.denominator, pow, ok, c.pow, c.ok)
		}
	}
}
