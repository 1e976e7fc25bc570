// Package config loads renderer settings, per-instrument articulation
// tables, and mood presets from ~/.config/orchestrion, falling back
// to built-in defaults when no file exists.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"orchestrion/composition"
)

// ArticulationEntry mirrors composition.ArticulationSpec with a
// string articulation key for JSON.
type ArticulationEntry struct {
	DurationScale float64 `json:"durationScale"`
	VelocityScale float64 `json:"velocityScale"`
	Keyswitch     uint8   `json:"keyswitch"`
}

// MoodPreset seeds a composition skeleton: tempo, key, meter, and a
// base dynamic level (velocity).
type MoodPreset struct {
	Tempo         float64                   `json:"tempo"`
	Key           string                    `json:"key"`
	TimeSignature composition.TimeSignature `json:"timeSignature"`
	Dynamics      int                       `json:"dynamics"`
}

// Config is the main configuration structure.
type Config struct {
	TicksPerQuarter uint16 `json:"ticksPerQuarter,omitempty"`
	PreRollMs       int    `json:"preRollMs,omitempty"`
	// Articulations is instrument -> articulation tag -> entry.
	Articulations map[string]map[string]ArticulationEntry `json:"articulations,omitempty"`
	Moods         map[string]MoodPreset                   `json:"moods,omitempty"`
}

// Keyswitch assignments sit below the playable range of every
// instrument here (the C-1..G#-1 MIDI octave).
const (
	ksSustain   = 0
	ksLegato    = 1
	ksStaccato  = 2
	ksSpiccato  = 3
	ksMarcato   = 4
	ksTenuto    = 5
	ksPizzicato = 6
	ksTremolo   = 7
	ksTrill     = 8
)

func stringSpecs() map[string]ArticulationEntry {
	return map[string]ArticulationEntry{
		"sustain":   {DurationScale: 1.0, VelocityScale: 1.0, Keyswitch: ksSustain},
		"legato":    {DurationScale: 1.05, VelocityScale: 0.95, Keyswitch: ksLegato},
		"staccato":  {DurationScale: 0.4, VelocityScale: 1.15, Keyswitch: ksStaccato},
		"spiccato":  {DurationScale: 0.3, VelocityScale: 1.2, Keyswitch: ksSpiccato},
		"marcato":   {DurationScale: 0.8, VelocityScale: 1.25, Keyswitch: ksMarcato},
		"tenuto":    {DurationScale: 0.95, VelocityScale: 1.05, Keyswitch: ksTenuto},
		"pizzicato": {DurationScale: 0.25, VelocityScale: 1.0, Keyswitch: ksPizzicato},
		"tremolo":   {DurationScale: 1.0, VelocityScale: 0.9, Keyswitch: ksTremolo},
		"trill":     {DurationScale: 1.0, VelocityScale: 0.95, Keyswitch: ksTrill},
	}
}

func windSpecs() map[string]ArticulationEntry {
	return map[string]ArticulationEntry{
		"sustain":  {DurationScale: 1.0, VelocityScale: 1.0, Keyswitch: ksSustain},
		"legato":   {DurationScale: 1.05, VelocityScale: 0.95, Keyswitch: ksLegato},
		"staccato": {DurationScale: 0.4, VelocityScale: 1.15, Keyswitch: ksStaccato},
		"marcato":  {DurationScale: 0.8, VelocityScale: 1.25, Keyswitch: ksMarcato},
		"tenuto":   {DurationScale: 0.95, VelocityScale: 1.05, Keyswitch: ksTenuto},
		"trill":    {DurationScale: 1.0, VelocityScale: 0.95, Keyswitch: ksTrill},
	}
}

// DefaultConfig returns a config with a usable orchestral
// articulation table and a few mood presets.
func DefaultConfig() *Config {
	return &Config{
		TicksPerQuarter: 480,
		PreRollMs:       50,
		Articulations: map[string]map[string]ArticulationEntry{
			"violin":     stringSpecs(),
			"viola":      stringSpecs(),
			"cello":      stringSpecs(),
			"contrabass": stringSpecs(),
			"flute":      windSpecs(),
			"oboe":       windSpecs(),
			"clarinet":   windSpecs(),
			"bassoon":    windSpecs(),
			"horn":       windSpecs(),
			"trumpet":    windSpecs(),
			"trombone":   windSpecs(),
		},
		Moods: map[string]MoodPreset{
			"serene": {
				Tempo:         72,
				Key:           "G major",
				TimeSignature: composition.TimeSignature{Numerator: 4, Denominator: 4},
				Dynamics:      64,
			},
			"somber": {
				Tempo:         56,
				Key:           "D minor",
				TimeSignature: composition.TimeSignature{Numerator: 3, Denominator: 4},
				Dynamics:      52,
			},
			"triumphant": {
				Tempo:         120,
				Key:           "C major",
				TimeSignature: composition.TimeSignature{Numerator: 4, Denominator: 4},
				Dynamics:      100,
			},
			"restless": {
				Tempo:         144,
				Key:           "B minor",
				TimeSignature: composition.TimeSignature{Numerator: 6, Denominator: 8},
				Dynamics:      80,
			},
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "orchestrion"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadPath(path)
}

// LoadPath reads a config from an explicit path. A missing file means
// defaults; a malformed file is an error.
func LoadPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Table builds the immutable articulation lookup the renderer takes.
// Unknown articulation tags in the config fail here.
func (c *Config) Table() (*composition.ArticulationTable, error) {
	entries := make(map[string]map[composition.Articulation]composition.ArticulationSpec, len(c.Articulations))
	for instrument, specs := range c.Articulations {
		m := make(map[composition.Articulation]composition.ArticulationSpec, len(specs))
		for tag, entry := range specs {
			a, err := composition.ParseArticulation(tag)
			if err != nil {
				return nil, fmt.Errorf("instrument %q: %w", instrument, err)
			}
			if a == composition.NoArticulation {
				return nil, fmt.Errorf("instrument %q: empty articulation tag", instrument)
			}
			m[a] = composition.ArticulationSpec{
				DurationScale: entry.DurationScale,
				VelocityScale: entry.VelocityScale,
				Keyswitch:     entry.Keyswitch,
			}
		}
		entries[instrument] = m
	}
	return composition.NewArticulationTable(entries), nil
}

// Mood returns a named preset, if present.
func (c *Config) Mood(name string) (MoodPreset, bool) {
	preset, ok := c.Moods[name]
	return preset, ok
}

// MoodNames lists available presets.
func (c *Config) MoodNames() []string {
	names := make([]string, 0, len(c.Moods))
	for name := range c.Moods {
		names = append(names, name)
	}
	return names
}
