// Package notation translates parsed MusicXML measures into renderer-agnostic
// descriptors and measures them through an injected Backend.
package notation

// Backend measures translated elements. Implementations typically lay the
// voices out on timing contexts before reporting a width.
type Backend interface {
	// VoicesWidth returns the natural width of the voices of one measure.
	VoicesWidth(voices []Voice) (float64, error)
	// ModifiersWidth returns the width taken by a staff's start glyphs.
	ModifiersWidth(mods Modifiers) (float64, error)
}

// Clef is a clef descriptor such as "treble" or "bass".
type Clef struct {
	Name string `json:"name"`
}

// KeySignature names a key ("D", "Ebm") and keeps its fifths for drawing.
type KeySignature struct {
	Name   string `json:"name"`
	Fifths int    `json:"fifths"`
}

// TimeSignature is either a literal "beats/beat-type" or a symbol glyph.
type TimeSignature struct {
	Spec     string `json:"spec"`
	Beats    string `json:"beats"`
	BeatType int    `json:"beatType"`
	Symbol   bool   `json:"symbol,omitempty"`
}

// Modifiers are the glyphs drawn at the start of a staff.
type Modifiers struct {
	Clef *Clef          `json:"clef,omitempty"`
	Key  *KeySignature  `json:"key,omitempty"`
	Time *TimeSignature `json:"time,omitempty"`
}

// Empty reports whether no modifier is present.
func (m Modifiers) Empty() bool {
	return m.Clef == nil && m.Key == nil && m.Time == nil
}

// Note is one renderable tickable: a note, chord slice or rest on one staff.
type Note struct {
	Staff    int      `json:"staff"`
	Keys     []string `json:"keys"`
	Duration string   `json:"duration"`
	// Clef is the clef name used to position the keys; empty means none.
	Clef string `json:"clef,omitempty"`
	Dots int    `json:"dots,omitempty"`
	Rest bool   `json:"rest,omitempty"`
	// Chord marks a note that starts together with the previous note of the
	// voice, as the other-staff half of a chord.
	Chord bool `json:"chord,omitempty"`
	// Accidentals holds one glyph per key, "" where no accidental is drawn.
	Accidentals []string `json:"accidentals"`
}

// Voice is the ordered tickables of one voice of one part.
type Voice struct {
	PartID string         `json:"partId"`
	Number int            `json:"number"`
	Time   *TimeSignature `json:"time,omitempty"`
	Notes  []Note         `json:"notes"`
}

// Stave is the translated snapshot of one staff in a measure.
type Stave struct {
	PartID string `json:"partId"`
	Number int    `json:"number"`
	// Modifiers is the full set restated when the measure opens a line.
	Modifiers Modifiers `json:"modifiers"`
	// Changes holds only the modifiers that changed in this measure.
	Changes      Modifiers `json:"changes"`
	BeginBarline string    `json:"beginBarline,omitempty"`
	EndBarline   string    `json:"endBarline,omitempty"`
}

// Measure is a translated measure with its measured widths.
type Measure struct {
	Index             int     `json:"index"`
	Number            string  `json:"number"`
	Voices            []Voice `json:"voices"`
	Staves            []Stave `json:"staves"`
	ContentWidth      float64 `json:"contentWidth"`
	MinModifiersWidth float64 `json:"minModifiersWidth"`
	MaxModifiersWidth float64 `json:"maxModifiersWidth"`
}
