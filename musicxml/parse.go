package musicxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/antchfx/xmlquery"
)

const rootTag = "score-partwise"

var zipMagic = []byte("PK\x03\x04")

// Parse reads an uncompressed MusicXML document.
func Parse(r io.Reader) (*Score, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("musicxml: read document: %w", err)
	}
	return parseDocument(rootElement(doc))
}

// ParseBytes parses either a plain or a compressed (.mxl) document.
func ParseBytes(data []byte) (*Score, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return parseCompressed(data)
	}
	return Parse(bytes.NewReader(data))
}

// ParseFile reads and parses the file at path.
func ParseFile(p string) (*Score, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("musicxml: open %s: %w", p, err)
	}
	return ParseBytes(data)
}

// parseCompressed locates the root file through META-INF/container.xml.
func parseCompressed(data []byte) (*Score, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("musicxml: open compressed document: %w", err)
	}
	files := map[string]*zip.File{}
	for _, f := range zr.File {
		files[f.Name] = f
	}

	container, ok := files["META-INF/container.xml"]
	if !ok {
		return nil, fmt.Errorf("musicxml: compressed document has no META-INF/container.xml")
	}
	doc, err := readZipXML(container)
	if err != nil {
		return nil, err
	}
	rootFile := ""
	if rf, ok := wrap(doc).Find("//rootfile"); ok {
		rootFile = rf.Attr("full-path", "")
	}
	entry, ok := files[path.Clean(rootFile)]
	if rootFile == "" || !ok {
		return nil, fmt.Errorf("musicxml: compressed document root file %q not found", rootFile)
	}
	scoreDoc, err := readZipXML(entry)
	if err != nil {
		return nil, err
	}
	return parseDocument(rootElement(scoreDoc))
}

func readZipXML(f *zip.File) (*xmlquery.Node, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("musicxml: open %s: %w", f.Name, err)
	}
	defer rc.Close()
	doc, err := xmlquery.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("musicxml: read %s: %w", f.Name, err)
	}
	return doc, nil
}

func parseDocument(root Element) (*Score, error) {
	if root.Tag() != rootTag {
		return nil, &InvalidDocumentError{Root: root.Tag()}
	}
	score := &Score{Meta: parseMeta(root)}
	for _, sp := range root.FindAll("part-list/score-part") {
		score.Parts = append(score.Parts, newPart(sp.Attr("id", ""), sp.Text("part-name", "")))
	}

	// A number repeated within one part (a new movement) opens a new
	// measure; its n-th occurrence joins the n-th occurrence in other parts.
	type measureKey struct {
		number string
		seq    int
	}
	byKey := map[measureKey]*Measure{}
	for _, partEl := range root.FindAll("part") {
		seen := map[string]int{}
		for i, el := range partEl.FindAll("measure") {
			pm, err := parsePartMeasure(score, el, measureNumber(el, i))
			if err != nil {
				return nil, err
			}
			key := measureKey{number: pm.Number, seq: seen[pm.Number]}
			seen[pm.Number]++
			m, ok := byKey[key]
			if !ok {
				m = &Measure{Index: len(score.Measures), Number: pm.Number}
				byKey[key] = m
				score.Measures = append(score.Measures, m)
			}
			m.Parts = append(m.Parts, pm)
		}
	}
	return score, nil
}

// parsePartMeasure resolves the owning part through the measure's parent.
func parsePartMeasure(score *Score, el Element, number string) (*PartMeasure, error) {
	owner, _ := el.Parent()
	part, err := score.PartByID(owner.Attr("id", ""))
	if err != nil {
		return nil, err
	}
	return parseMeasure(el, part, part.state, number)
}

func parseMeta(root Element) Meta {
	meta := Meta{
		WorkTitle:     root.Text("work/work-title", ""),
		MovementTitle: root.Text("movement-title", ""),
		Rights:        root.Text("identification/rights", ""),
	}
	for _, c := range root.FindAll("identification/creator") {
		meta.Creators = append(meta.Creators, Creator{Type: c.Attr("type", ""), Name: c.Text("", "")})
	}
	return meta
}
