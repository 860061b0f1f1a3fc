// Package keyspec parses the compact note descriptors exchanged with the
// rendering backend: keys such as "c#/4" and duration codes such as "8dr".
package keyspec

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	keyLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Step", Pattern: `[A-Ga-g]`},
		{Name: "Sharp", Pattern: `#`},
		{Name: "Natural", Pattern: `n`},
		{Name: "Int", Pattern: `-?\d+`},
		{Name: "Slash", Pattern: `/`},
	})

	durationLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "Letter", Pattern: `[a-z]`},
	})

	keyParser = participle.MustBuild[Key](
		participle.Lexer(keyLexer),
		participle.Elide("Whitespace"),
	)

	durationParser = participle.MustBuild[Duration](
		participle.Lexer(durationLexer),
		participle.Elide("Whitespace"),
	)
)

// Key is a staff position: step, optional accidental and octave.
type Key struct {
	Step       string `parser:"@Step"`
	Accidental string `parser:"@( '#' '#'? | 'b' 'b'? | 'n' )?"`
	Octave     int    `parser:"'/' @Int"`
}

// String renders the key in its canonical lowercase form.
func (k Key) String() string {
	return fmt.Sprintf("%s%s/%d", strings.ToLower(k.Step), k.Accidental, k.Octave)
}

// Diatonic returns the diatonic step index counted from C0.
func (k Key) Diatonic() int {
	return k.Octave*7 + stepIndex(k.Step)
}

// Alter returns the semitone offset implied by the accidental.
func (k Key) Alter() int {
	switch k.Accidental {
	case "#":
		return 1
	case "##":
		return 2
	case "b":
		return -1
	case "bb":
		return -2
	default:
		return 0
	}
}

// Duration is a duration code: base value, augmentation dots and rest flag.
type Duration struct {
	Value string   `parser:"@( 'w' | 'h' | 'q' | Int )"`
	Dots  []string `parser:"@'d'*"`
	Rest  bool     `parser:"@'r'?"`
}

// Beats returns the length in quarter notes, including dots.
func (d Duration) Beats() float64 {
	var base float64
	switch d.Value {
	case "w":
		base = 4
	case "h":
		base = 2
	case "q":
		base = 1
	default:
		var denom int
		fmt.Sscanf(d.Value, "%d", &denom)
		if denom <= 0 {
			return 0
		}
		base = 4 / float64(denom)
	}
	total, add := base, base
	for range d.Dots {
		add /= 2
		total += add
	}
	return total
}

// Filled reports whether the note head is drawn filled (shorter than a half).
func (d Duration) Filled() bool {
	return d.Value != "w" && d.Value != "h"
}

// HasStem reports whether the duration is drawn with a stem.
func (d Duration) HasStem() bool { return d.Value != "w" }

// Flags returns the number of flags (or beams) for the duration.
func (d Duration) Flags() int {
	switch d.Value {
	case "8":
		return 1
	case "16":
		return 2
	case "32":
		return 3
	case "64":
		return 4
	default:
		return 0
	}
}

// ParseKey parses a key descriptor such as "C#/4" or "bb/3".
func ParseKey(s string) (*Key, error) {
	k, err := keyParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("keyspec: invalid key %q: %w", s, err)
	}
	return k, nil
}

// ParseDuration parses a duration code such as "q", "hd" or "8dr".
func ParseDuration(s string) (*Duration, error) {
	d, err := durationParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("keyspec: invalid duration %q: %w", s, err)
	}
	return d, nil
}

func stepIndex(step string) int {
	switch strings.ToLower(step) {
	case "c":
		return 0
	case "d":
		return 1
	case "e":
		return 2
	case "f":
		return 3
	case "g":
		return 4
	case "a":
		return 5
	case "b":
		return 6
	default:
		return 0
	}
}
