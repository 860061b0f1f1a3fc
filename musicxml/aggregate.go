package musicxml

import "sort"

// Tick is one timeline position of a voice: a single note or a chord.
type Tick struct {
	Notes []*Note
}

// IsChord reports whether the tick holds more than one note.
func (t Tick) IsChord() bool { return len(t.Notes) > 1 }

// StaffGroup is the part of a tick that is drawn on one staff.
type StaffGroup struct {
	Staff int
	Notes []*Note
}

// ByStaff splits the tick across the staves of its notes, ordered by staff
// number. Within a staff pitched notes keep document order; rests are dropped
// unless the staff would otherwise be empty, in which case its first rest is
// kept.
func (t Tick) ByStaff() []StaffGroup {
	pitched := map[int][]*Note{}
	firstRest := map[int]*Note{}
	var staves []int
	seen := map[int]bool{}
	for _, n := range t.Notes {
		if !seen[n.Staff] {
			seen[n.Staff] = true
			staves = append(staves, n.Staff)
		}
		if n.Rest {
			if _, ok := firstRest[n.Staff]; !ok {
				firstRest[n.Staff] = n
			}
			continue
		}
		pitched[n.Staff] = append(pitched[n.Staff], n)
	}
	sort.Ints(staves)

	groups := make([]StaffGroup, 0, len(staves))
	for _, s := range staves {
		notes := pitched[s]
		if len(notes) == 0 {
			notes = []*Note{firstRest[s]}
		}
		groups = append(groups, StaffGroup{Staff: s, Notes: notes})
	}
	return groups
}

// Voice is the ordered tick sequence of one voice number in a measure.
type Voice struct {
	Number int
	Ticks  []Tick
}

// Aggregator collects a measure's notes into voices.
type Aggregator struct {
	voices map[int]*Voice
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{voices: map[int]*Voice{}}
}

// AddNote appends n to its voice. Chord-flagged notes join the voice's last
// tick; a chord note without a previous tick is a MalformedChordError.
func (a *Aggregator) AddNote(n *Note) error {
	v, ok := a.voices[n.Voice]
	if !ok {
		v = &Voice{Number: n.Voice}
		a.voices[n.Voice] = v
	}
	if n.Chord {
		if len(v.Ticks) == 0 {
			return &MalformedChordError{Voice: n.Voice}
		}
		last := &v.Ticks[len(v.Ticks)-1]
		last.Notes = append(last.Notes, n)
		return nil
	}
	v.Ticks = append(v.Ticks, Tick{Notes: []*Note{n}})
	return nil
}

// Voices returns the voices ordered by voice number. Voices that only ever
// saw a failed chord note are skipped.
func (a *Aggregator) Voices() []*Voice {
	out := make([]*Voice, 0, len(a.voices))
	for _, v := range a.voices {
		if len(v.Ticks) > 0 {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
