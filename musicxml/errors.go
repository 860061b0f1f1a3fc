package musicxml

import "fmt"

// InvalidDocumentError reports a document whose root is not score-partwise.
type InvalidDocumentError struct {
	Root string
}

func (e *InvalidDocumentError) Error() string {
	if e.Root == "" {
		return "musicxml: invalid document: no root element"
	}
	return fmt.Sprintf("musicxml: unsupported document root <%s>, only score-partwise is supported", e.Root)
}

// UnknownPartError reports a reference to a part id missing from the part list.
type UnknownPartError struct {
	ID string
}

func (e *UnknownPartError) Error() string {
	return fmt.Sprintf("musicxml: unknown part %q", e.ID)
}

// MalformedChordError reports a chord-flagged note with no preceding note in
// its voice.
type MalformedChordError struct {
	PartID  string
	Measure string
	Voice   int
}

func (e *MalformedChordError) Error() string {
	return fmt.Sprintf("musicxml: part %q measure %s voice %d: chord note without a preceding note", e.PartID, e.Measure, e.Voice)
}
