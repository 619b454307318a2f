// Package uniprot reads UniProt RDF/XML documents and downloads them from the
// UniProt REST service.
package uniprot

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aria-lang/isoflow-go/internal/isoform"
	"github.com/aria-lang/isoflow-go/internal/sequence"
)

// Resource types that identify the nodes of interest.
const (
	TypeSimpleSequence   = "http://purl.uniprot.org/core/Simple_Sequence"
	TypeModifiedSequence = "http://purl.uniprot.org/core/Modified_Sequence"
	TypeProtein          = "http://purl.uniprot.org/core/Protein"
)

// ParseError reports a document that cannot be turned into an entry.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse uniprot rdf: %s: %v", e.Reason, e.Err)
	}
	return "parse uniprot rdf: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

type resource struct {
	URI string `xml:"resource,attr"`
}

// description is a top-level rdf:Description. Children are matched by local
// name, so the same struct serves sequences, annotations, ranges and positions.
type description struct {
	About         string     `xml:"about,attr"`
	Types         []resource `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# type"`
	Value         string     `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# value"`
	Names         []string   `xml:"name"`
	BasedOn       resource   `xml:"basedOn"`
	Modifications []resource `xml:"modification"`
	Substitution  string     `xml:"substitution"`
	Range         resource   `xml:"range"`
	Begin         resource   `xml:"begin"`
	End           resource   `xml:"end"`
	Position      string     `xml:"position"`
	Mnemonic      string     `xml:"mnemonic"`
	Reviewed      string     `xml:"reviewed"`
}

func (d *description) hasType(uri string) bool {
	for _, t := range d.Types {
		if t.URI == uri {
			return true
		}
	}
	return false
}

type document struct {
	XMLName      xml.Name      `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# RDF"`
	Descriptions []description `xml:"Description"`
}

// Parse decodes a UniProt RDF/XML document into an entry with the canonical
// isoform first and the modified isoforms in document order.
func Parse(r io.Reader) (*isoform.Entry, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &ParseError{Reason: "malformed xml", Err: err}
	}

	p := parser{nodes: make(map[string]*description, len(doc.Descriptions))}
	for i := range doc.Descriptions {
		d := &doc.Descriptions[i]
		if d.About != "" {
			if _, dup := p.nodes[d.About]; !dup {
				p.nodes[d.About] = d
			}
		}
	}

	entry := &isoform.Entry{}
	var canonical *isoform.Isoform
	var modified []isoform.Isoform

	for i := range doc.Descriptions {
		d := &doc.Descriptions[i]
		switch {
		case d.hasType(TypeProtein) && entry.Accession == "":
			entry.Accession = lastSegment(d.About)
			entry.Mnemonic = strings.TrimSpace(d.Mnemonic)
			entry.Reviewed = strings.TrimSpace(d.Reviewed) == "true"
		case d.hasType(TypeSimpleSequence) && canonical == nil:
			iso, err := p.isoform(d)
			if err != nil {
				return nil, err
			}
			iso.Canonical = true
			canonical = &iso
		case d.hasType(TypeModifiedSequence):
			iso, err := p.isoform(d)
			if err != nil {
				return nil, err
			}
			modified = append(modified, iso)
		}
	}

	if canonical == nil {
		return nil, &ParseError{Reason: "no canonical sequence"}
	}
	entry.Isoforms = append([]isoform.Isoform{*canonical}, modified...)
	if entry.Accession == "" {
		entry.Accession, _, _ = strings.Cut(canonical.ID, "-")
	}
	return entry, nil
}

type parser struct {
	nodes map[string]*description
}

func (p parser) isoform(d *description) (isoform.Isoform, error) {
	iso := isoform.Isoform{
		ID:       lastSegment(d.About),
		URL:      d.About,
		Sequence: sequence.Normalize(d.Value),
		BasedOn:  lastSegment(d.BasedOn.URI),
	}
	for _, name := range d.Names {
		if name = strings.TrimSpace(name); name != "" {
			iso.Names = append(iso.Names, name)
		}
	}
	for _, m := range d.Modifications {
		edit, err := p.edit(m.URI)
		if err != nil {
			return isoform.Isoform{}, fmt.Errorf("isoform %s: %w", iso.ID, err)
		}
		iso.Edits = append(iso.Edits, edit)
	}
	return iso, nil
}

// edit resolves a modification node. Missing range or position nodes leave
// the coordinate at 0, which the aligner drops as malformed.
func (p parser) edit(uri string) (isoform.Edit, error) {
	edit := isoform.Edit{ID: lastSegment(uri)}
	node, ok := p.nodes[uri]
	if !ok {
		return edit, nil
	}
	edit.Substitution = sequence.Normalize(node.Substitution)

	rng, ok := p.nodes[node.Range.URI]
	if !ok {
		return edit, nil
	}
	var err error
	if edit.Begin, err = p.position(rng.Begin.URI); err != nil {
		return edit, err
	}
	if edit.End, err = p.position(rng.End.URI); err != nil {
		return edit, err
	}
	return edit, nil
}

func (p parser) position(uri string) (int, error) {
	node, ok := p.nodes[uri]
	if !ok {
		return 0, nil
	}
	text := strings.TrimSpace(node.Position)
	if text == "" {
		return 0, nil
	}
	pos, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ParseError{Reason: "position " + uri, Err: err}
	}
	return pos, nil
}

func lastSegment(uri string) string {
	return uri[strings.LastIndex(uri, "/")+1:]
}
