// Package config holds the static lookup tables used to translate MusicXML
// codes into backend descriptors.
package config

import (
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTables []byte

// KeyTableSize is the number of entries of a circle-of-fifths table (-7..7).
const KeyTableSize = 15

// Tables groups every translation table. A missing entry is never an error at
// lookup time; callers decide whether absence degrades silently or fails.
type Tables struct {
	Durations     map[string]string            `yaml:"durations"`
	Clefs         map[string]string            `yaml:"clefs"`
	RestPositions map[string]map[string]string `yaml:"restPositions"`
	Keys          map[string][]string          `yaml:"keys"`
	Accidentals   map[string]string            `yaml:"accidentals"`
	Barlines      map[string]string            `yaml:"barlines"`
	TimeSymbols   map[string]string            `yaml:"timeSymbols"`
}

// Default returns a fresh copy of the embedded tables.
func Default() *Tables {
	t, err := decode(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("config: embedded tables are invalid: %v", err))
	}
	return t
}

// Load reads a YAML overlay and merges it over the default tables. Keys that
// appear in the overlay replace the default entry; everything else is kept.
func Load(r io.Reader) (*Tables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read tables: %w", err)
	}
	overlay, err := decode(data)
	if err != nil {
		return nil, err
	}
	base := Default()
	base.merge(overlay)
	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// Validate checks the structural constraints of the tables.
func (t *Tables) Validate() error {
	for mode, names := range t.Keys {
		if len(names) != KeyTableSize {
			return fmt.Errorf("config: key table %q has %d entries, want %d", mode, len(names), KeyTableSize)
		}
	}
	return nil
}

func decode(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("config: decode tables: %w", err)
	}
	t.ensureMaps()
	return &t, nil
}

func (t *Tables) ensureMaps() {
	if t.Durations == nil {
		t.Durations = map[string]string{}
	}
	if t.Clefs == nil {
		t.Clefs = map[string]string{}
	}
	if t.RestPositions == nil {
		t.RestPositions = map[string]map[string]string{}
	}
	if t.Keys == nil {
		t.Keys = map[string][]string{}
	}
	if t.Accidentals == nil {
		t.Accidentals = map[string]string{}
	}
	if t.Barlines == nil {
		t.Barlines = map[string]string{}
	}
	if t.TimeSymbols == nil {
		t.TimeSymbols = map[string]string{}
	}
}

func (t *Tables) merge(o *Tables) {
	mergeStrings(t.Durations, o.Durations)
	mergeStrings(t.Clefs, o.Clefs)
	mergeStrings(t.Accidentals, o.Accidentals)
	mergeStrings(t.Barlines, o.Barlines)
	mergeStrings(t.TimeSymbols, o.TimeSymbols)
	for mode, names := range o.Keys {
		t.Keys[mode] = append([]string(nil), names...)
	}
	for clef, positions := range o.RestPositions {
		dst, ok := t.RestPositions[clef]
		if !ok {
			dst = map[string]string{}
			t.RestPositions[clef] = dst
		}
		mergeStrings(dst, positions)
	}
}

func mergeStrings(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}
