package musicxml

// Clef is a clef sign with its staff line (0 when unspecified).
type Clef struct {
	Sign string
	Line int
}

// IsZero reports whether no clef has been assigned.
func (c Clef) IsZero() bool { return c.Sign == "" }

// KeySignature is a key in circle-of-fifths form.
type KeySignature struct {
	Fifths int
	Mode   string
}

// TimeSignature keeps beats as text since MusicXML allows "3+2".
type TimeSignature struct {
	Beats    string
	BeatType int
	Symbol   string
}

// StaffState is the attribute state persisted for one staff across measures.
type StaffState struct {
	Clef Clef
	Key  *KeySignature
	Time *TimeSignature
}

// PartState is the per-part state threaded through the measures of one part.
// It belongs to a single parse.
type PartState struct {
	StaffCount int
	staves     map[int]*StaffState
}

func newPartState() *PartState {
	return &PartState{StaffCount: 1, staves: map[int]*StaffState{}}
}

// Staff returns the state of staff n, creating a default (no clef) entry.
func (s *PartState) Staff(n int) *StaffState {
	st, ok := s.staves[n]
	if !ok {
		st = &StaffState{}
		s.staves[n] = st
	}
	return st
}

// Lookup returns the state of staff n without creating it.
func (s *PartState) Lookup(n int) (*StaffState, bool) {
	st, ok := s.staves[n]
	return st, ok
}

func (s *StaffState) snapshot(number int, partID string) *Staff {
	return &Staff{
		Number:   number,
		PartID:   partID,
		Clef:     s.Clef,
		Key:      copyKey(s.Key),
		Time:     copyTime(s.Time),
		Barlines: map[string]Barline{},
	}
}

func copyKey(k *KeySignature) *KeySignature {
	if k == nil {
		return nil
	}
	c := *k
	return &c
}

func copyTime(t *TimeSignature) *TimeSignature {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
