package notation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/epotocko/vexmusicxml/config"
	"github.com/epotocko/vexmusicxml/musicxml"
)

// DefaultMeasureSpacing widens natural content by 40%.
const DefaultMeasureSpacing = 0.40

const (
	minFifths = -7
	maxFifths = 7
)

var (
	defaultTime = musicxml.TimeSignature{Beats: "4", BeatType: 4}
	defaultKey  = musicxml.KeySignature{Fifths: 0, Mode: "major"}
)

// Translator maps parsed measures to descriptors.
type Translator struct {
	backend        Backend
	tables         *config.Tables
	measureSpacing float64
}

// Option configures a Translator.
type Option func(*Translator)

// WithTables replaces the default lookup tables.
func WithTables(t *config.Tables) Option {
	return func(tr *Translator) {
		if t != nil {
			tr.tables = t
		}
	}
}

// WithMeasureSpacing sets the extra fraction added to content widths.
func WithMeasureSpacing(f float64) Option {
	return func(tr *Translator) {
		if f >= 0 {
			tr.measureSpacing = f
		}
	}
}

// NewTranslator returns a translator measuring through backend.
func NewTranslator(backend Backend, opts ...Option) *Translator {
	tr := &Translator{
		backend:        backend,
		tables:         config.Default(),
		measureSpacing: DefaultMeasureSpacing,
	}
	for _, opt := range opts {
		opt(tr)
	}
	return tr
}

// Translate converts every measure of the score, in order.
func (tr *Translator) Translate(score *musicxml.Score) ([]*Measure, error) {
	if score == nil {
		return nil, fmt.Errorf("notation: score is nil")
	}
	out := make([]*Measure, 0, len(score.Measures))
	for _, m := range score.Measures {
		tm, err := tr.Measure(m)
		if err != nil {
			return nil, err
		}
		out = append(out, tm)
	}
	return out, nil
}

// Measure translates one measure and computes its widths.
func (tr *Translator) Measure(m *musicxml.Measure) (*Measure, error) {
	if tr.backend == nil {
		return nil, fmt.Errorf("notation: backend is required")
	}
	out := &Measure{Index: m.Index, Number: m.Number}
	for _, pm := range m.Parts {
		for _, s := range pm.Staves {
			stave, err := tr.Stave(s)
			if err != nil {
				return nil, fmt.Errorf("notation: measure %s part %s: %w", m.Number, pm.PartID, err)
			}
			out.Staves = append(out.Staves, stave)

			maxW, err := tr.backend.ModifiersWidth(stave.Modifiers)
			if err != nil {
				return nil, err
			}
			minW, err := tr.backend.ModifiersWidth(stave.Changes)
			if err != nil {
				return nil, err
			}
			out.MaxModifiersWidth = math.Max(out.MaxModifiersWidth, maxW)
			out.MinModifiersWidth = math.Max(out.MinModifiersWidth, minW)
		}

		var time *TimeSignature
		if len(pm.Staves) > 0 {
			time = tr.TimeSignature(timeOrDefault(pm.Staves[0].Time))
		}
		for _, v := range pm.Voices {
			voice, err := tr.Voice(pm.PartID, v, time)
			if err != nil {
				return nil, fmt.Errorf("notation: measure %s part %s: %w", m.Number, pm.PartID, err)
			}
			out.Voices = append(out.Voices, voice)
		}
	}

	width, err := tr.backend.VoicesWidth(out.Voices)
	if err != nil {
		return nil, fmt.Errorf("notation: measure %s: %w", m.Number, err)
	}
	out.ContentWidth = width + width*tr.measureSpacing
	return out, nil
}

// Stave translates a staff snapshot. Missing time and key fall back to 4/4 in
// C major, as the full modifier set is always restated at a line start.
func (tr *Translator) Stave(s *musicxml.Staff) (Stave, error) {
	key, err := tr.KeySignature(keyOrDefault(s.Key))
	if err != nil {
		return Stave{}, err
	}
	st := Stave{
		PartID: s.PartID,
		Number: s.Number,
		Modifiers: Modifiers{
			Clef: tr.Clef(s.Clef),
			Key:  key,
			Time: tr.TimeSignature(timeOrDefault(s.Time)),
		},
	}
	if s.ClefChanged {
		st.Changes.Clef = st.Modifiers.Clef
	}
	if s.KeyChanged {
		st.Changes.Key = st.Modifiers.Key
	}
	if s.TimeChanged {
		st.Changes.Time = st.Modifiers.Time
	}
	if b, ok := s.Barlines["left"]; ok {
		st.BeginBarline = tr.Barline(b.Style)
	}
	if b, ok := s.Barlines["right"]; ok {
		st.EndBarline = tr.Barline(b.Style)
	}
	return st, nil
}

// Clef looks up sign+line first, then the sign alone. Unknown clefs yield nil.
func (tr *Translator) Clef(c musicxml.Clef) *Clef {
	if name := tr.clefName(c); name != "" {
		return &Clef{Name: name}
	}
	return nil
}

func (tr *Translator) clefName(c musicxml.Clef) string {
	if c.IsZero() {
		return ""
	}
	if c.Line > 0 {
		if name, ok := tr.tables.Clefs[c.Sign+strconv.Itoa(c.Line)]; ok {
			return name
		}
	}
	return tr.tables.Clefs[c.Sign]
}

// KeySignature resolves a key through the circle-of-fifths tables. Fifths
// outside [-7, 7] fail for every mode; modes without a table yield nil.
func (tr *Translator) KeySignature(k *musicxml.KeySignature) (*KeySignature, error) {
	if k == nil {
		return nil, nil
	}
	if k.Fifths < minFifths || k.Fifths > maxFifths {
		return nil, &KeySignatureRangeError{Fifths: k.Fifths}
	}
	names, ok := tr.tables.Keys[k.Mode]
	if !ok || len(names) != config.KeyTableSize {
		return nil, nil
	}
	return &KeySignature{Name: names[k.Fifths-minFifths], Fifths: k.Fifths}, nil
}

// TimeSignature maps a known symbol to its glyph, otherwise "beats/beat-type".
func (tr *Translator) TimeSignature(t *musicxml.TimeSignature) *TimeSignature {
	if t == nil {
		return nil
	}
	ts := &TimeSignature{Beats: t.Beats, BeatType: t.BeatType}
	if glyph, ok := tr.tables.TimeSymbols[t.Symbol]; ok && t.Symbol != "" {
		ts.Spec = glyph
		ts.Symbol = true
		return ts
	}
	ts.Spec = t.Beats + "/" + strconv.Itoa(t.BeatType)
	return ts
}

// Duration returns the duration code of a note: base code, one "d" per dot
// and a trailing "r" for rests.
func (tr *Translator) Duration(n *musicxml.Note) (string, error) {
	code, ok := tr.tables.Durations[n.Type]
	if !ok {
		if !(n.Rest && n.WholeMeasure) {
			return "", &UnsupportedNoteTypeError{Type: n.Type}
		}
		code = tr.tables.Durations["whole"]
		if code == "" {
			code = "w"
		}
	}
	for i := 0; i < n.Dots; i++ {
		code += "d"
	}
	if n.Rest {
		code += "r"
	}
	return code, nil
}

// Key resolves the staff position of a note.
func (tr *Translator) Key(n *musicxml.Note) (string, error) {
	if n.HasDisplayPosition() {
		return n.DisplayStep + "/" + n.DisplayOctave, nil
	}
	if n.Rest {
		return tr.restPosition(n.Type, n.Clef.Sign)
	}
	if n.Pitch == nil {
		return "", fmt.Errorf("notation: note without pitch or display position")
	}
	step := n.Pitch.Step
	switch n.Pitch.Alter {
	case -1:
		step += "b"
	case 1:
		step += "#"
	}
	return step + "/" + strconv.Itoa(n.Pitch.Octave), nil
}

func (tr *Translator) restPosition(noteType, clef string) (string, error) {
	positions, ok := tr.tables.RestPositions[clef]
	if !ok {
		return "", &UnsupportedClefForRestError{Clef: clef}
	}
	if pos, ok := positions[noteType]; ok && pos != "" {
		return pos, nil
	}
	return positions["default"], nil
}

// Accidental returns the glyph for an accidental name, "" when unknown.
func (tr *Translator) Accidental(name string) string {
	return tr.tables.Accidentals[name]
}

// Barline returns the barline type for a bar style, "" when unknown.
func (tr *Translator) Barline(style string) string {
	return tr.tables.Barlines[style]
}

// Voice translates a voice; chords become one tickable per staff. Every
// tickable after the first of a tick is marked Chord.
func (tr *Translator) Voice(partID string, v *musicxml.Voice, time *TimeSignature) (Voice, error) {
	out := Voice{PartID: partID, Number: v.Number, Time: time}
	for _, tick := range v.Ticks {
		for i, group := range tick.ByStaff() {
			note, err := tr.StaffNote(group)
			if err != nil {
				return Voice{}, fmt.Errorf("voice %d: %w", v.Number, err)
			}
			note.Chord = i > 0
			out.Notes = append(out.Notes, note)
		}
	}
	return out, nil
}

// StaffNote builds one tickable from the notes of a chord on one staff. The
// first note supplies duration, dots, rest flag and clef.
func (tr *Translator) StaffNote(group musicxml.StaffGroup) (Note, error) {
	if len(group.Notes) == 0 {
		return Note{}, fmt.Errorf("notation: empty staff group %d", group.Staff)
	}
	proto := group.Notes[0]
	duration, err := tr.Duration(proto)
	if err != nil {
		return Note{}, err
	}
	note := Note{
		Staff:    group.Staff,
		Duration: duration,
		Clef:     tr.clefName(proto.Clef),
		Dots:     proto.Dots,
		Rest:     proto.Rest,
	}
	for _, n := range group.Notes {
		key, err := tr.Key(n)
		if err != nil {
			return Note{}, err
		}
		note.Keys = append(note.Keys, key)
		note.Accidentals = append(note.Accidentals, tr.Accidental(n.Accidental))
	}
	return note, nil
}

func timeOrDefault(t *musicxml.TimeSignature) *musicxml.TimeSignature {
	if t == nil {
		d := defaultTime
		return &d
	}
	return t
}

func keyOrDefault(k *musicxml.KeySignature) *musicxml.KeySignature {
	if k == nil {
		d := defaultKey
		return &d
	}
	return k
}
