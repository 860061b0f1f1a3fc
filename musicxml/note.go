package musicxml

// Pitch is a sounding pitch.
type Pitch struct {
	Step   string
	Alter  int
	Octave int
}

// Note is one note, rest or unpitched note element.
type Note struct {
	Staff      int
	Voice      int
	Type       string
	Dots       int
	Accidental string
	Chord      bool
	// Duration is the raw duration in divisions.
	Duration int

	Rest         bool
	WholeMeasure bool
	Unpitched    bool
	Pitch        *Pitch

	// DisplayStep/DisplayOctave position rests and unpitched notes.
	DisplayStep   string
	DisplayOctave string

	// Clef is the clef in effect for the note's staff when it was parsed.
	Clef Clef
}

// Dotted reports whether the note carries at least one augmentation dot.
func (n *Note) Dotted() bool { return n.Dots > 0 }

// HasDisplayPosition reports whether an explicit display step and octave exist.
func (n *Note) HasDisplayPosition() bool {
	return n.DisplayStep != "" && n.DisplayOctave != ""
}

func parseNote(el Element) *Note {
	n := &Note{
		Staff:      el.TextInt("staff", 1),
		Voice:      el.TextInt("voice", 1),
		Chord:      el.Exists("chord"),
		Type:       el.Text("type", ""),
		Dots:       len(el.FindAll("dot")),
		Accidental: el.Text("accidental", ""),
		Duration:   el.TextInt("duration", 0),
	}

	if rest, ok := el.Find("rest"); ok {
		n.Rest = true
		n.WholeMeasure = rest.Attr("measure", "") == "yes"
		n.DisplayStep = rest.Text("display-step", "")
		n.DisplayOctave = rest.Text("display-octave", "")
	} else if el.Exists("pitch") {
		n.Pitch = &Pitch{
			Step:   el.Text("pitch/step", ""),
			Alter:  el.TextInt("pitch/alter", 0),
			Octave: el.TextInt("pitch/octave", 0),
		}
	}

	if unpitched, ok := el.Find("unpitched"); ok {
		n.Unpitched = true
		n.DisplayStep = unpitched.Text("display-step", "")
		n.DisplayOctave = unpitched.Text("display-octave", "")
	}
	return n
}
