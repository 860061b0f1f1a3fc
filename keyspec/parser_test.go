package keyspec_test

import (
	"testing"

	"github.com/epotocko/vexmusicxml/keyspec"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		in         string
		step       string
		accidental string
		octave     int
		alter      int
	}{
		{"C/4", "C", "", 4, 0},
		{"c#/5", "c", "#", 5, 1},
		{"Eb/5", "E", "b", 5, -1},
		{"bb/3", "b", "b", 3, -1},
		{"b/4", "b", "", 4, 0},
		{"f##/2", "f", "##", 2, 2},
		{"d/5", "d", "", 5, 0},
	}
	for _, tc := range cases {
		k, err := keyspec.ParseKey(tc.in)
		if err != nil {
			t.Fatalf("ParseKey(%q) failed: %v", tc.in, err)
		}
		if k.Step != tc.step || k.Accidental != tc.accidental || k.Octave != tc.octave {
			t.Fatalf("ParseKey(%q) = %+v", tc.in, k)
		}
		if k.Alter() != tc.alter {
			t.Fatalf("ParseKey(%q).Alter() = %d, want %d", tc.in, k.Alter(), tc.alter)
		}
	}
}

func TestKeyDiatonic(t *testing.T) {
	e4, _ := keyspec.ParseKey("E/4")
	f5, _ := keyspec.ParseKey("F/5")
	if got := f5.Diatonic() - e4.Diatonic(); got != 8 {
		t.Fatalf("E4..F5 spans %d diatonic steps, want 8", got)
	}
	if got := e4.String(); got != "e/4" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "H/4", "C4", "C#"} {
		if _, err := keyspec.ParseKey(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in     string
		value  string
		dots   int
		rest   bool
		beats  float64
		filled bool
	}{
		{"q", "q", 0, false, 1, true},
		{"qd", "q", 1, false, 1.5, true},
		{"qr", "q", 0, true, 1, true},
		{"hdd", "h", 2, false, 3.5, false},
		{"w", "w", 0, false, 4, false},
		{"8dr", "8", 1, true, 0.75, true},
		{"32", "32", 0, false, 0.125, true},
	}
	for _, tc := range cases {
		d, err := keyspec.ParseDuration(tc.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q) failed: %v", tc.in, err)
		}
		if d.Value != tc.value || len(d.Dots) != tc.dots || d.Rest != tc.rest {
			t.Fatalf("ParseDuration(%q) = %+v", tc.in, d)
		}
		if d.Beats() != tc.beats {
			t.Fatalf("ParseDuration(%q).Beats() = %g, want %g", tc.in, d.Beats(), tc.beats)
		}
		if d.Filled() != tc.filled {
			t.Fatalf("ParseDuration(%q).Filled() = %v", tc.in, d.Filled())
		}
	}
}

func TestParseDurationRejectsUnknown(t *testing.T) {
	if _, err := keyspec.ParseDuration("x"); err == nil {
		t.Fatalf("expected error for unknown duration")
	}
}
