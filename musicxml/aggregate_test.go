package musicxml

import (
	"errors"
	"testing"
)

func TestAggregatorVoicesAndChords(t *testing.T) {
	a := NewAggregator()
	notes := []*Note{
		{Voice: 2, Staff: 1, Pitch: &Pitch{Step: "A"}},
		{Voice: 1, Staff: 1, Pitch: &Pitch{Step: "C"}},
		{Voice: 1, Staff: 1, Chord: true, Pitch: &Pitch{Step: "E"}},
		{Voice: 1, Staff: 1, Pitch: &Pitch{Step: "D"}},
	}
	for _, n := range notes {
		if err := a.AddNote(n); err != nil {
			t.Fatalf("AddNote: %v", err)
		}
	}
	voices := a.Voices()
	if len(voices) != 2 || voices[0].Number != 1 || voices[1].Number != 2 {
		t.Fatalf("voices not ordered by number: %+v", voices)
	}
	if got := len(voices[0].Ticks); got != 2 {
		t.Fatalf("voice 1 ticks: got=%d want=2", got)
	}
	chord := voices[0].Ticks[0]
	if !chord.IsChord() || chord.Notes[0].Pitch.Step != "C" || chord.Notes[1].Pitch.Step != "E" {
		t.Fatalf("chord members wrong: %+v", chord.Notes)
	}
}

func TestAggregatorRejectsLeadingChordNote(t *testing.T) {
	a := NewAggregator()
	if err := a.AddNote(&Note{Voice: 1, Pitch: &Pitch{Step: "C"}}); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	err := a.AddNote(&Note{Voice: 2, Chord: true, Pitch: &Pitch{Step: "E"}})
	var chordErr *MalformedChordError
	if !errors.As(err, &chordErr) || chordErr.Voice != 2 {
		t.Fatalf("expected MalformedChordError for voice 2, got %v", err)
	}
	if got := len(a.Voices()); got != 1 {
		t.Fatalf("failed voice should not be listed, got %d voices", got)
	}
}

func TestByStaffRestHandling(t *testing.T) {
	rest1 := &Note{Staff: 2, Rest: true, Type: "quarter"}
	rest2 := &Note{Staff: 2, Rest: true, Type: "half"}
	tick := Tick{Notes: []*Note{
		{Staff: 1, Rest: true},
		{Staff: 1, Pitch: &Pitch{Step: "G"}},
		rest1,
		{Staff: 1, Pitch: &Pitch{Step: "B"}},
		rest2,
	}}
	groups := tick.ByStaff()
	if len(groups) != 2 {
		t.Fatalf("expected 2 staff groups, got %d", len(groups))
	}
	if len(groups[0].Notes) != 2 || groups[0].Notes[0].Pitch.Step != "G" || groups[0].Notes[1].Pitch.Step != "B" {
		t.Fatalf("staff 1 should only keep pitched notes in order: %+v", groups[0].Notes)
	}
	if len(groups[1].Notes) != 1 || groups[1].Notes[0] != rest1 {
		t.Fatalf("staff 2 should keep its first rest only: %+v", groups[1].Notes)
	}
}

func TestByStaffOrdersStaves(t *testing.T) {
	tick := Tick{Notes: []*Note{
		{Staff: 3, Pitch: &Pitch{Step: "C"}},
		{Staff: 1, Pitch: &Pitch{Step: "D"}},
	}}
	groups := tick.ByStaff()
	if groups[0].Staff != 1 || groups[1].Staff != 3 {
		t.Fatalf("groups not ordered by staff: %+v", groups)
	}
}
