package composition

import (
	"encoding/json"
	"testing"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		name   string
		sharps int8
		minor  bool
	}{
		{"C major", 0, false},
		{"C", 0, false},
		{"G major", 1, false},
		{"D major", 2, false},
		{"F major", -1, false},
		{"A minor", 0, true},
		{"D minor", -1, true},
		{"B minor", 2, true},
		{"F# major", 6, false},
		{"C# minor", 4, true},
	}
	for _, c := range cases {
		ks, err := ParseKey(c.name)
		if err != nil {
			t.Errorf("ParseKey(%q) failed: %s", c.name, err)
			continue
		}
		if ks.Sharps != c.sharps || ks.Minor != c.minor {
			t.Errorf("ParseKey(%q) = %+d sharps minor=%v, want %+d minor=%v",
				c.name, ks.Sharps, ks.Minor, c.sharps, c.minor)
		}
	}
}

func TestParseKeyRejectsNonsense(t *testing.T) {
	if _, err := ParseKey("H major"); err == nil {
		t.Error("ParseKey(\"H major\") should fail")
	}
}

func TestKeySignatureJSON(t *testing.T) {
	data, err := json.Marshal(MustKey("D minor"))
	if err != nil {
		t.Fatalf("marshal failed: %s", err)
	}
	if string(data) != `"D minor"` {
		t.Errorf("marshaled as %s, want the key name", data)
	}

	var ks KeySignature
	if err := json.Unmarshal([]byte(`"Eb major"`), &ks); err != nil {
		t.Fatalf("unmarshal failed: %s", err)
	}
	if ks.Sharps != -3 || ks.Minor {
		t.Errorf("Eb major parsed as %+d sharps minor=%v", ks.Sharps, ks.Minor)
	}

	if err := json.Unmarshal([]byte(`"Z diminished"`), &ks); err == nil {
		t.Error("unknown key should fail to unmarshal")
	}
}
