package pbxproj

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// ID is a 24-character uppercase hexadecimal object identifier.
type ID string

var idPattern = regexp.MustCompile(`^[0-9A-F]{24}$`)

// IsID reports whether s has the shape of an object identifier.
func IsID(s string) bool {
	return idPattern.MatchString(s)
}

// Object isa names used by the patcher and the integrity checker.
const (
	ISABuildFile         = "PBXBuildFile"
	ISAFileReference     = "PBXFileReference"
	ISAGroup             = "PBXGroup"
	ISAVariantGroup      = "PBXVariantGroup"
	ISAVersionGroup      = "XCVersionGroup"
	ISAReferenceProxy    = "PBXReferenceProxy"
	ISASyncRootGroup     = "PBXFileSystemSynchronizedRootGroup"
	ISASourcesBuildPhase = "PBXSourcesBuildPhase"
	ISANativeTarget      = "PBXNativeTarget"
)

// Record is one object in the manifest's objects dictionary.
type Record struct {
	ID      ID
	ISA     string
	Comment string
	Attrs   *Dict
	Span    Span
}

// Section is the region between `/* Begin X section */` and
// `/* End X section */` markers.
type Section struct {
	ISA     string
	Begin   Span
	End     Span
	Records []*Record
}

// Document is a parsed manifest. The original bytes are kept so that a patch
// can splice new text in without touching anything else.
type Document struct {
	data     []byte
	Root     *Dict
	Objects  *Dict
	records  map[ID]*Record
	order    []*Record
	sections map[string]*Section
	secOrder []*Section
}

var (
	beginMarker = regexp.MustCompile(`^Begin (\w+) section$`)
	endMarker   = regexp.MustCompile(`^End (\w+) section$`)
)

// Parse reads a manifest into a Document. It fails with a *SyntaxError on
// malformed input and with a *SectionNotFoundError when the root has no
// objects dictionary.
func Parse(data []byte) (*Document, error) {
	root, comments, err := parseTree(data)
	if err != nil {
		return nil, err
	}
	objects, ok := root.Dict("objects")
	if !ok {
		return nil, &SectionNotFoundError{Section: "objects"}
	}

	doc := &Document{
		data:     data,
		Root:     root,
		Objects:  objects,
		records:  make(map[ID]*Record, len(objects.Entries)),
		sections: make(map[string]*Section),
	}

	for _, e := range objects.Entries {
		attrs, ok := e.Value.(*Dict)
		if !ok {
			return nil, &SyntaxError{Offset: e.Span.Start, Line: lineOf(data, e.Span.Start), Msg: fmt.Sprintf("object %s is not a dictionary", e.Key.Value)}
		}
		rec := &Record{
			ID:      ID(e.Key.Value),
			ISA:     attrs.Scalar("isa"),
			Comment: e.Key.Comment,
			Attrs:   attrs,
			Span:    e.Span,
		}
		doc.records[rec.ID] = rec
		doc.order = append(doc.order, rec)
	}

	if err := doc.indexSections(comments); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) indexSections(comments []comment) error {
	inner := Span{Start: d.Objects.Span().Start, End: d.Objects.Close}
	var open *Section
	for _, c := range comments {
		if c.span.Start < inner.Start || c.span.End > inner.End {
			continue
		}
		if m := beginMarker.FindStringSubmatch(c.text); m != nil {
			if open != nil {
				return &SyntaxError{Offset: c.span.Start, Line: lineOf(d.data, c.span.Start), Msg: fmt.Sprintf("section %s begins inside section %s", m[1], open.ISA)}
			}
			open = &Section{ISA: m[1], Begin: c.span}
			continue
		}
		if m := endMarker.FindStringSubmatch(c.text); m != nil {
			if open == nil || open.ISA != m[1] {
				return &SyntaxError{Offset: c.span.Start, Line: lineOf(d.data, c.span.Start), Msg: fmt.Sprintf("unbalanced end of section %s", m[1])}
			}
			open.End = c.span
			if _, dup := d.sections[open.ISA]; !dup {
				d.sections[open.ISA] = open
			}
			d.secOrder = append(d.secOrder, open)
			open = nil
		}
	}
	if open != nil {
		return &SyntaxError{Offset: open.Begin.Start, Line: lineOf(d.data, open.Begin.Start), Msg: fmt.Sprintf("section %s is never closed", open.ISA)}
	}

	for _, rec := range d.order {
		for _, sec := range d.secOrder {
			if rec.Span.Start > sec.Begin.End && rec.Span.End <= sec.End.Start {
				sec.Records = append(sec.Records, rec)
				break
			}
		}
	}
	return nil
}

// Bytes returns the manifest text the Document was parsed from.
func (d *Document) Bytes() []byte {
	return d.data
}

// Section returns the section holding records of the given isa.
func (d *Document) Section(isa string) (*Section, error) {
	sec, ok := d.sections[isa]
	if !ok {
		return nil, &SectionNotFoundError{Section: isa, Marker: "Begin " + isa + " section"}
	}
	return sec, nil
}

// Sections returns all sections in file order.
func (d *Document) Sections() []*Section {
	return slices.Clone(d.secOrder)
}

// Record returns the object with the given identifier.
func (d *Document) Record(id ID) (*Record, bool) {
	rec, ok := d.records[id]
	return rec, ok
}

// RecordsOf returns every object whose isa matches, in file order.
func (d *Document) RecordsOf(isa string) []*Record {
	var out []*Record
	for _, rec := range d.order {
		if rec.ISA == isa {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of objects in the manifest.
func (d *Document) Len() int {
	return len(d.order)
}

// IDs returns every identifier-shaped string in the document: object keys,
// references and the root object pointer. The result is sorted.
func (d *Document) IDs() []ID {
	seen := make(map[ID]bool, len(d.order)*2)
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *String:
			if IsID(v.Value) {
				seen[ID(v.Value)] = true
			}
		case *Array:
			for _, item := range v.Items {
				walk(item)
			}
		case *Dict:
			for _, e := range v.Entries {
				walk(e.Key)
				walk(e.Value)
			}
		}
	}
	walk(d.Root)

	out := make([]ID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DisplayName returns the name Xcode shows for a record: its name attribute,
// then its path, then its comment.
func (r *Record) DisplayName() string {
	if name := r.Attrs.Scalar("name"); name != "" {
		return name
	}
	if p := r.Attrs.Scalar("path"); p != "" {
		return p
	}
	return strings.TrimSpace(r.Comment)
}

// Refs returns the identifiers listed in an array attribute.
func (r *Record) Refs(attr string) []ID {
	a, ok := r.Attrs.Array(attr)
	if !ok {
		return nil
	}
	strs := a.Strings()
	out := make([]ID, len(strs))
	for i, s := range strs {
		out[i] = ID(s)
	}
	return out
}
