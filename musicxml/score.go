// Package musicxml reads score-partwise MusicXML documents into an immutable
// tree of measures, staves, voices and notes. Attribute state that MusicXML
// only states on change (clef, key, time, staff count) is carried forward per
// part and staff.
package musicxml

// Score is the root of one parse.
type Score struct {
	Meta     Meta
	Parts    []*Part
	Measures []*Measure
}

// Meta is the descriptive header of a score.
type Meta struct {
	WorkTitle     string
	MovementTitle string
	Creators      []Creator
	Rights        string
}

// Creator is one identification/creator entry (composer, lyricist, ...).
type Creator struct {
	Type string
	Name string
}

// Title prefers the work title over the movement title.
func (m Meta) Title() string {
	if m.WorkTitle != "" {
		return m.WorkTitle
	}
	return m.MovementTitle
}

// Data exposes the metadata as a generic tree for template interpolation.
func (m Meta) Data() map[string]any {
	creators := make([]any, 0, len(m.Creators))
	byType := map[string]any{}
	for _, c := range m.Creators {
		creators = append(creators, map[string]any{"type": c.Type, "name": c.Name})
		if _, ok := byType[c.Type]; !ok && c.Type != "" {
			byType[c.Type] = c.Name
		}
	}
	return map[string]any{
		"title":    m.Title(),
		"work":     map[string]any{"title": m.WorkTitle},
		"movement": map[string]any{"title": m.MovementTitle},
		"creators": creators,
		"creator":  byType,
		"rights":   m.Rights,
	}
}

// Part is one entry of the part list.
type Part struct {
	ID   string
	Name string

	state *PartState
}

func newPart(id, name string) *Part {
	return &Part{ID: id, Name: name, state: newPartState()}
}

// PartByID returns the first part with the given id.
func (s *Score) PartByID(id string) (*Part, error) {
	for _, p := range s.Parts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, &UnknownPartError{ID: id}
}

// Measure groups the part measures sharing one measure number.
type Measure struct {
	Index  int
	Number string
	Parts  []*PartMeasure
}

// PartMeasure is one part's content for a measure.
type PartMeasure struct {
	PartID string
	Number string
	// Width is the layout hint from the document, 0 when absent.
	Width  float64
	Staves []*Staff
	Voices []*Voice
}

// Staff returns the snapshot for staff number n (1-based).
func (pm *PartMeasure) Staff(n int) (*Staff, bool) {
	if n < 1 || n > len(pm.Staves) {
		return nil, false
	}
	return pm.Staves[n-1], true
}

// Barline is a barline recorded at one location of a measure.
type Barline struct {
	Location string
	Style    string
}

// Staff is the snapshot of one staff's attributes for a measure.
type Staff struct {
	Number   int
	PartID   string
	Clef     Clef
	Key      *KeySignature
	Time     *TimeSignature
	Barlines map[string]Barline

	ClefChanged bool
	KeyChanged  bool
	TimeChanged bool
}
