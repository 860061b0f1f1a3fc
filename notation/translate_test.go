package notation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/epotocko/vexmusicxml/musicxml"
)

// stubBackend charges a fixed width per tickable and per modifier so the
// measured widths are predictable.
type stubBackend struct {
	calls int
}

func (s *stubBackend) VoicesWidth(voices []Voice) (float64, error) {
	s.calls++
	w := 0.0
	for _, v := range voices {
		w += 10 * float64(len(v.Notes))
	}
	return w, nil
}

func (s *stubBackend) ModifiersWidth(m Modifiers) (float64, error) {
	w := 1.0
	if m.Clef != nil {
		w += 5
	}
	if m.Key != nil {
		w += 3
	}
	if m.Time != nil {
		w += 4
	}
	return w, nil
}

func newTestTranslator() *Translator {
	return NewTranslator(&stubBackend{})
}

func TestTimeSignature(t *testing.T) {
	tr := newTestTranslator()
	cases := []struct {
		in   musicxml.TimeSignature
		want string
	}{
		{musicxml.TimeSignature{Beats: "4", BeatType: 4}, "4/4"},
		{musicxml.TimeSignature{Beats: "3", BeatType: 8}, "3/8"},
		{musicxml.TimeSignature{Beats: "3", BeatType: 4, Symbol: "common"}, "C"},
		{musicxml.TimeSignature{Beats: "2", BeatType: 2, Symbol: "cut"}, "C|"},
		{musicxml.TimeSignature{Beats: "6", BeatType: 8, Symbol: "normal"}, "6/8"},
	}
	for _, tc := range cases {
		in := tc.in
		got := tr.TimeSignature(&in)
		if got.Spec != tc.want {
			t.Fatalf("TimeSignature(%+v) = %q, want %q", tc.in, got.Spec, tc.want)
		}
	}
}

func TestKeySignature(t *testing.T) {
	tr := newTestTranslator()
	cases := []struct {
		fifths int
		mode   string
		want   string
	}{
		{2, "major", "D"},
		{-3, "major", "Eb"},
		{0, "minor", "Am"},
		{7, "major", "C#"},
		{-7, "minor", "Abm"},
	}
	for _, tc := range cases {
		got, err := tr.KeySignature(&musicxml.KeySignature{Fifths: tc.fifths, Mode: tc.mode})
		if err != nil {
			t.Fatalf("KeySignature(%d, %s) failed: %v", tc.fifths, tc.mode, err)
		}
		if got == nil || got.Name != tc.want || got.Fifths != tc.fifths {
			t.Fatalf("KeySignature(%d, %s) = %+v, want %s", tc.fifths, tc.mode, got, tc.want)
		}
	}
}

func TestKeySignatureRange(t *testing.T) {
	tr := newTestTranslator()
	for _, mode := range []string{"major", "minor", "dorian"} {
		_, err := tr.KeySignature(&musicxml.KeySignature{Fifths: 8, Mode: mode})
		var rangeErr *KeySignatureRangeError
		if !errors.As(err, &rangeErr) || rangeErr.Fifths != 8 {
			t.Fatalf("mode %s: expected KeySignatureRangeError, got %v", mode, err)
		}
	}
}

func TestKeySignatureUnknownModeIsSilent(t *testing.T) {
	tr := newTestTranslator()
	got, err := tr.KeySignature(&musicxml.KeySignature{Fifths: 1, Mode: "dorian"})
	if err != nil || got != nil {
		t.Fatalf("expected nil descriptor without error, got %+v, %v", got, err)
	}
}

func TestDuration(t *testing.T) {
	tr := newTestTranslator()
	cases := []struct {
		note musicxml.Note
		want string
	}{
		{musicxml.Note{Type: "quarter", Dots: 1}, "qd"},
		{musicxml.Note{Type: "quarter", Rest: true}, "qr"},
		{musicxml.Note{Type: "eighth", Dots: 1, Rest: true}, "8dr"},
		{musicxml.Note{Type: "half", Dots: 2}, "hdd"},
		{musicxml.Note{Rest: true, WholeMeasure: true}, "wr"},
		{musicxml.Note{Type: "16th"}, "16"},
	}
	for _, tc := range cases {
		n := tc.note
		got, err := tr.Duration(&n)
		if err != nil {
			t.Fatalf("Duration(%+v) failed: %v", tc.note, err)
		}
		if got != tc.want {
			t.Fatalf("Duration(%+v) = %q, want %q", tc.note, got, tc.want)
		}
	}
}

func TestDurationUnsupported(t *testing.T) {
	tr := newTestTranslator()
	for _, n := range []musicxml.Note{
		{Type: "64th"},
		{Type: "", Rest: true},
		{Type: "breve", WholeMeasure: true},
	} {
		n := n
		_, err := tr.Duration(&n)
		var typeErr *UnsupportedNoteTypeError
		if !errors.As(err, &typeErr) {
			t.Fatalf("Duration(%+v): expected UnsupportedNoteTypeError, got %v", n, err)
		}
	}
}

func TestKeyResolution(t *testing.T) {
	tr := newTestTranslator()
	cases := []struct {
		name string
		note musicxml.Note
		want string
	}{
		{"natural", musicxml.Note{Pitch: &musicxml.Pitch{Step: "C", Octave: 4}}, "C/4"},
		{"flat", musicxml.Note{Pitch: &musicxml.Pitch{Step: "E", Alter: -1, Octave: 5}}, "Eb/5"},
		{"sharp", musicxml.Note{Pitch: &musicxml.Pitch{Step: "F", Alter: 1, Octave: 3}}, "F#/3"},
		{"double sharp unmapped", musicxml.Note{Pitch: &musicxml.Pitch{Step: "G", Alter: 2, Octave: 4}}, "G/4"},
		{"display wins", musicxml.Note{Rest: true, DisplayStep: "B", DisplayOctave: "4", Clef: musicxml.Clef{Sign: "G"}}, "B/4"},
		{"unpitched", musicxml.Note{Unpitched: true, DisplayStep: "E", DisplayOctave: "5"}, "E/5"},
		{"treble rest", musicxml.Note{Rest: true, Type: "whole", Clef: musicxml.Clef{Sign: "G"}}, "d/5"},
		{"bass rest default", musicxml.Note{Rest: true, Type: "16th", Clef: musicxml.Clef{Sign: "F"}}, "f/3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.note
			got, err := tr.Key(&n)
			if err != nil {
				t.Fatalf("Key failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Key = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRestWithUnknownClef(t *testing.T) {
	tr := newTestTranslator()
	for _, sign := range []string{"", "TAB"} {
		n := musicxml.Note{Rest: true, Type: "quarter", Clef: musicxml.Clef{Sign: sign}}
		_, err := tr.Key(&n)
		var clefErr *UnsupportedClefForRestError
		if !errors.As(err, &clefErr) || clefErr.Clef != sign {
			t.Fatalf("clef %q: expected UnsupportedClefForRestError, got %v", sign, err)
		}
	}
}

func TestClefAndAccidentalDegradeSilently(t *testing.T) {
	tr := newTestTranslator()
	if c := tr.Clef(musicxml.Clef{Sign: "G", Line: 2}); c == nil || c.Name != "treble" {
		t.Fatalf("G clef: %+v", c)
	}
	if c := tr.Clef(musicxml.Clef{Sign: "C", Line: 4}); c == nil || c.Name != "tenor" {
		t.Fatalf("C4 clef: %+v", c)
	}
	if c := tr.Clef(musicxml.Clef{Sign: "C", Line: 3}); c == nil || c.Name != "alto" {
		t.Fatalf("C3 clef: %+v", c)
	}
	if c := tr.Clef(musicxml.Clef{Sign: "TAB"}); c != nil {
		t.Fatalf("unknown clef should be nil, got %+v", c)
	}
	if g := tr.Accidental("quarter-sharp"); g != "" {
		t.Fatalf("unknown accidental should have no glyph, got %q", g)
	}
	if g := tr.Accidental("flat"); g != "b" {
		t.Fatalf("flat glyph: got %q", g)
	}
	if b := tr.Barline("dotted"); b != "" {
		t.Fatalf("unmapped barline should be empty, got %q", b)
	}
}

const grandStaff = `<score-partwise>
  <part-list><score-part id="P1"/></part-list>
  <part id="P1">
    <measure number="1">
      <attributes>
        <key><fifths>-3</fifths></key>
        <time><beats>3</beats><beat-type>4</beat-type></time>
        <staves>2</staves>
        <clef number="1"><sign>G</sign><line>2</line></clef>
        <clef number="2"><sign>F</sign><line>4</line></clef>
      </attributes>
      <note><pitch><step>C</step><octave>5</octave></pitch><voice>1</voice><type>half</type><staff>1</staff><accidental>sharp</accidental></note>
      <note><chord/><rest/><voice>1</voice><type>half</type><staff>2</staff></note>
      <note><chord/><pitch><step>E</step><alter>-1</alter><octave>5</octave></pitch><voice>1</voice><type>half</type><staff>1</staff><accidental>flat</accidental></note>
      <note><pitch><step>G</step><octave>4</octave></pitch><voice>1</voice><type>quarter</type><staff>1</staff></note>
      <barline location="right"><bar-style>light-heavy</bar-style></barline>
    </measure>
    <measure number="2">
      <attributes><key><fifths>2</fifths></key></attributes>
      <note><rest measure="yes"/><voice>1</voice><staff>1</staff></note>
    </measure>
  </part>
</score-partwise>`

func TestTranslateMeasure(t *testing.T) {
	score, err := musicxml.Parse(strings.NewReader(grandStaff))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	tr := newTestTranslator()
	measures, err := tr.Translate(score)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(measures) != 2 {
		t.Fatalf("expected 2 measures, got %d", len(measures))
	}

	m := measures[0]
	if len(m.Voices) != 1 {
		t.Fatalf("expected one voice, got %d", len(m.Voices))
	}
	notes := m.Voices[0].Notes
	if len(notes) != 3 {
		t.Fatalf("chord should split into 2 staff notes plus 1 note, got %d", len(notes))
	}
	if notes[0].Staff != 1 || strings.Join(notes[0].Keys, ",") != "C/5,Eb/5" {
		t.Fatalf("staff 1 chord keys: %+v", notes[0])
	}
	if strings.Join(notes[0].Accidentals, ",") != "#,b" {
		t.Fatalf("accidentals: %+v", notes[0].Accidentals)
	}
	if notes[1].Staff != 2 || !notes[1].Rest || notes[1].Keys[0] != "f/3" || notes[1].Duration != "hr" {
		t.Fatalf("staff 2 rest: %+v", notes[1])
	}
	if notes[0].Chord || !notes[1].Chord || notes[2].Chord {
		t.Fatalf("chord flags: %v %v %v", notes[0].Chord, notes[1].Chord, notes[2].Chord)
	}
	if notes[0].Clef != "treble" || notes[1].Clef != "bass" {
		t.Fatalf("note clefs: %q %q", notes[0].Clef, notes[1].Clef)
	}
	if m.Voices[0].Time == nil || m.Voices[0].Time.Spec != "3/4" {
		t.Fatalf("voice time: %+v", m.Voices[0].Time)
	}

	if len(m.Staves) != 2 {
		t.Fatalf("expected 2 staves, got %d", len(m.Staves))
	}
	if m.Staves[0].Modifiers.Key.Name != "Eb" || m.Staves[1].Modifiers.Clef.Name != "bass" {
		t.Fatalf("stave modifiers: %+v", m.Staves)
	}
	if m.Staves[0].EndBarline != "end" {
		t.Fatalf("end barline: %q", m.Staves[0].EndBarline)
	}
	// full set: 1 + clef 5 + key 3 + time 4; all changed in the first measure
	if m.MaxModifiersWidth != 13 || m.MinModifiersWidth != 13 {
		t.Fatalf("modifier widths: min=%g max=%g", m.MinModifiersWidth, m.MaxModifiersWidth)
	}
	if want := 30 * (1 + DefaultMeasureSpacing); math.Abs(m.ContentWidth-want) > 1e-9 {
		t.Fatalf("content width: got=%g want=%g", m.ContentWidth, want)
	}

	second := measures[1]
	if second.MaxModifiersWidth != 13 {
		t.Fatalf("second measure max width: %g", second.MaxModifiersWidth)
	}
	// only the key changed
	if second.MinModifiersWidth != 4 {
		t.Fatalf("second measure min width: %g", second.MinModifiersWidth)
	}
	if got := second.Voices[0].Notes[0]; got.Duration != "wr" || got.Keys[0] != "d/5" {
		t.Fatalf("whole measure rest: %+v", got)
	}
}

func TestTranslateAbortsOnError(t *testing.T) {
	doc := `<score-partwise><part-list><score-part id="P1"/></part-list><part id="P1">
<measure number="1"><attributes><key><fifths>9</fifths></key></attributes></measure>
</part></score-partwise>`
	score, err := musicxml.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	measures, err := newTestTranslator().Translate(score)
	var rangeErr *KeySignatureRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected KeySignatureRangeError, got %v", err)
	}
	if measures != nil {
		t.Fatalf("expected no partial result")
	}
}

func TestMeasureSpacingOption(t *testing.T) {
	tr := NewTranslator(&stubBackend{}, WithMeasureSpacing(0))
	score, err := musicxml.Parse(strings.NewReader(grandStaff))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	m, err := tr.Measure(score.Measures[0])
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if m.ContentWidth != 30 {
		t.Fatalf("content width without spacing: %g", m.ContentWidth)
	}
}
