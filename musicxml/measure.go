package musicxml

import (
	"errors"
	"fmt"
)

// childKind is the closed set of measure children the parser reacts to.
type childKind int

const (
	childIgnored childKind = iota
	childNote
	childAttributes
	childBarline
)

func kindOf(tag string) childKind {
	switch tag {
	case "note":
		return childNote
	case "attributes":
		return childAttributes
	case "barline":
		return childBarline
	default:
		return childIgnored
	}
}

type childHandler func(*measureParser, Element) error

var measureHandlers = [...]childHandler{
	childIgnored:    func(*measureParser, Element) error { return nil },
	childNote:       (*measureParser).note,
	childAttributes: (*measureParser).attributes,
	childBarline:    (*measureParser).barline,
}

// measureParser parses one part measure against its part's state.
type measureParser struct {
	part    *Part
	state   *PartState
	measure *PartMeasure
	notes   *Aggregator
}

func parseMeasure(el Element, part *Part, state *PartState, number string) (*PartMeasure, error) {
	pm := &PartMeasure{
		PartID: part.ID,
		Number: number,
		Width:  el.AttrFloat("width", 0),
	}

	count := el.TextInt("attributes/staves", state.StaffCount)
	if count < 1 {
		count = state.StaffCount
	}
	for i := 1; i <= count; i++ {
		pm.Staves = append(pm.Staves, state.Staff(i).snapshot(i, part.ID))
	}
	state.StaffCount = count

	mp := &measureParser{part: part, state: state, measure: pm, notes: NewAggregator()}
	for _, child := range el.Children() {
		if err := measureHandlers[kindOf(child.Tag())](mp, child); err != nil {
			return nil, err
		}
	}
	pm.Voices = mp.notes.Voices()
	return pm, nil
}

func (mp *measureParser) note(el Element) error {
	n := parseNote(el)
	if st, ok := mp.state.Lookup(n.Staff); ok {
		n.Clef = st.Clef
	}
	if err := mp.notes.AddNote(n); err != nil {
		var chordErr *MalformedChordError
		if errors.As(err, &chordErr) {
			chordErr.PartID = mp.part.ID
			chordErr.Measure = mp.measure.Number
		}
		return err
	}
	return nil
}

func (mp *measureParser) attributes(el Element) error {
	for _, child := range el.Children() {
		switch child.Tag() {
		case "clef":
			mp.clef(child)
		case "key":
			mp.key(child)
		case "time":
			mp.time(child)
		}
	}
	return nil
}

func (mp *measureParser) clef(el Element) {
	number := el.AttrInt("number", 1)
	clef := Clef{Sign: el.Text("sign", ""), Line: el.TextInt("line", 0)}
	mp.state.Staff(number).Clef = clef
	if s, ok := mp.measure.Staff(number); ok {
		s.Clef = clef
		s.ClefChanged = true
	}
}

func (mp *measureParser) key(el Element) {
	key := KeySignature{
		Fifths: el.TextInt("fifths", 0),
		Mode:   el.Text("mode", "major"),
	}
	mp.eachTarget(el, func(st *StaffState, s *Staff) {
		st.Key = copyKey(&key)
		s.Key = copyKey(&key)
		s.KeyChanged = true
	})
}

func (mp *measureParser) time(el Element) {
	ts := TimeSignature{
		Beats:    el.Text("beats", ""),
		BeatType: el.TextInt("beat-type", 0),
		Symbol:   el.Attr("symbol", ""),
	}
	mp.eachTarget(el, func(st *StaffState, s *Staff) {
		st.Time = copyTime(&ts)
		s.Time = copyTime(&ts)
		s.TimeChanged = true
	})
}

// eachTarget applies fn to the staff named by the element's number attribute,
// or to every staff of the measure when it has none.
func (mp *measureParser) eachTarget(el Element, fn func(*StaffState, *Staff)) {
	if number := el.AttrInt("number", 0); number > 0 {
		if s, ok := mp.measure.Staff(number); ok {
			fn(mp.state.Staff(number), s)
		}
		return
	}
	for _, s := range mp.measure.Staves {
		fn(mp.state.Staff(s.Number), s)
	}
}

func (mp *measureParser) barline(el Element) error {
	b := Barline{
		Location: el.Attr("location", "right"),
		Style:    el.Text("bar-style", ""),
	}
	for _, s := range mp.measure.Staves {
		s.Barlines[b.Location] = b
	}
	return nil
}

func measureNumber(el Element, position int) string {
	return el.Attr("number", fmt.Sprintf("#%d", position+1))
}
