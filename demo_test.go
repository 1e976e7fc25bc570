package main

import (
	"testing"

	"orchestrion/config"
	"orchestrion/render"
)

func TestBuildDemoRendersForEveryMood(t *testing.T) {
	cfg := config.DefaultConfig()
	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("Table failed: %s", err)
	}
	for name, preset := range cfg.Moods {
		comp, err := buildDemo(name, preset)
		if err != nil {
			t.Errorf("buildDemo(%q) failed: %s", name, err)
			continue
		}
		if comp.NoteCount() == 0 || len(comp.Parts) != 4 {
			t.Errorf("mood %q built %d parts, %d notes", name, len(comp.Parts), comp.NoteCount())
		}
		data, err := render.Render(comp, render.Options{Articulations: table})
		if err != nil {
			t.Errorf("rendering %q demo failed: %s", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("mood %q rendered no bytes", name)
		}
	}
}

func TestBuildDemoRejectsBadPreset(t *testing.T) {
	preset := config.MoodPreset{Tempo: 0, Key: "C major"}
	if _, err := buildDemo("broken", preset); err == nil {
		t.Error("zero tempo should fail")
	}
	preset = config.MoodPreset{Tempo: 100, Key: "Q sharp"}
	if _, err := buildDemo("broken", preset); err == nil {
		t.Error("unparseable key should fail")
	}
}

func TestScalePitch(t *testing.T) {
	cases := []struct {
		degree int
		want   int
	}{
		{0, 60},
		{1, 62},
		{2, 64},
		{4, 67},
		{7, 72},
		{-1, 59},
		{-7, 48},
	}
	for _, c := range cases {
		if got := scalePitch(60, majorIntervals, c.degree); got != c.want {
			t.Errorf("scalePitch(60, major, %d) = %d, want %d", c.degree, got, c.want)
		}
	}
}
