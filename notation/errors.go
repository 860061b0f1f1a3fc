package notation

import "fmt"

// UnsupportedNoteTypeError reports a note type missing from the duration table.
type UnsupportedNoteTypeError struct {
	Type string
}

func (e *UnsupportedNoteTypeError) Error() string {
	return fmt.Sprintf("notation: unsupported note type %q", e.Type)
}

// UnsupportedClefForRestError reports a rest without display position whose
// clef has no default rest positions.
type UnsupportedClefForRestError struct {
	Clef string
}

func (e *UnsupportedClefForRestError) Error() string {
	if e.Clef == "" {
		return "notation: rest without position on a staff with no clef"
	}
	return fmt.Sprintf("notation: unsupported clef %q for rest position", e.Clef)
}

// KeySignatureRangeError reports fifths outside [-7, 7].
type KeySignatureRangeError struct {
	Fifths int
}

func (e *KeySignatureRangeError) Error() string {
	return fmt.Sprintf("notation: key signature fifths %d out of range [-7, 7]", e.Fifths)
}
