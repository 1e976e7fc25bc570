package composition

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a composition from a JSON file. Unknown
// articulations or key names in the file fail here, before any
// rendering starts.
func LoadFile(path string) (*Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Composition
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &c, nil
}

// SaveFile writes the composition as indented JSON.
func (c *Composition) SaveFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
