package pbxproj

import (
	"fmt"
	"sort"
	"strings"
)

// LookupOptions pins logical names to explicit identifiers. Pins win over
// name matching and are how an ambiguous group or phase is disambiguated.
type LookupOptions struct {
	GroupPins    map[string]ID
	SourcesPhase ID
}

// GroupEntry describes one PBXGroup for listings.
type GroupEntry struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	ID       ID     `json:"id"`
	Children int    `json:"children"`
	Pinned   bool   `json:"pinned,omitempty"`
}

// Lookup resolves logical group and target names to record identifiers.
// It is built once per loaded Document.
type Lookup struct {
	doc          *Document
	groupsByName map[string][]ID
	pins         map[string]ID
	sourcesPin   ID
}

// BuildLookup indexes every PBXGroup by its name and path attributes and
// validates the pinned identifiers against the document.
func BuildLookup(doc *Document, opts LookupOptions) (*Lookup, error) {
	l := &Lookup{
		doc:          doc,
		groupsByName: make(map[string][]ID),
		pins:         make(map[string]ID, len(opts.GroupPins)),
		sourcesPin:   opts.SourcesPhase,
	}

	for _, rec := range doc.RecordsOf(ISAGroup) {
		keys := map[string]bool{}
		for _, k := range []string{rec.Attrs.Scalar("name"), rec.Attrs.Scalar("path")} {
			if k != "" && !keys[k] {
				keys[k] = true
				l.groupsByName[k] = append(l.groupsByName[k], rec.ID)
			}
		}
	}

	for name, id := range opts.GroupPins {
		rec, ok := doc.Record(id)
		if !ok || rec.ISA != ISAGroup {
			return nil, &SectionNotFoundError{Section: ISAGroup, Marker: fmt.Sprintf("pinned group %s (%s)", name, id)}
		}
		l.pins[name] = id
	}
	if opts.SourcesPhase != "" {
		rec, ok := doc.Record(opts.SourcesPhase)
		if !ok || rec.ISA != ISASourcesBuildPhase {
			return nil, &SectionNotFoundError{Section: ISASourcesBuildPhase, Marker: string(opts.SourcesPhase)}
		}
	}
	return l, nil
}

// ResolveGroup returns the PBXGroup record for a logical group name.
func (l *Lookup) ResolveGroup(name string) (*Record, error) {
	if id, ok := l.pins[name]; ok {
		rec, _ := l.doc.Record(id)
		return rec, nil
	}
	// A raw identifier is accepted as a group name.
	if IsID(name) {
		if rec, ok := l.doc.Record(ID(name)); ok && rec.ISA == ISAGroup {
			return rec, nil
		}
	}
	ids := l.groupsByName[name]
	switch len(ids) {
	case 0:
		return nil, &UnknownGroupError{Group: name}
	case 1:
		rec, _ := l.doc.Record(ids[0])
		return rec, nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	return nil, fmt.Errorf("%w: %q matches %s; pin one under groups: in the config", ErrAmbiguousGroup, name, strings.Join(strs, ", "))
}

// ResolveSourcesPhase returns the PBXSourcesBuildPhase new files are compiled in.
// The pinned phase wins; otherwise the named target's Sources phase; otherwise
// the only Sources phase in the project.
func (l *Lookup) ResolveSourcesPhase(target string) (*Record, error) {
	if l.sourcesPin != "" {
		rec, _ := l.doc.Record(l.sourcesPin)
		return rec, nil
	}

	if target != "" {
		for _, t := range l.doc.RecordsOf(ISANativeTarget) {
			if t.Attrs.Scalar("name") != target {
				continue
			}
			for _, id := range t.Refs("buildPhases") {
				if rec, ok := l.doc.Record(id); ok && rec.ISA == ISASourcesBuildPhase {
					return rec, nil
				}
			}
			return nil, &SectionNotFoundError{Section: ISASourcesBuildPhase, Marker: "Sources phase of target " + target}
		}
		return nil, &SectionNotFoundError{Section: ISANativeTarget, Marker: "target " + target}
	}

	phases := l.doc.RecordsOf(ISASourcesBuildPhase)
	switch len(phases) {
	case 0:
		return nil, &SectionNotFoundError{Section: ISASourcesBuildPhase}
	case 1:
		return phases[0], nil
	}
	return nil, &SectionNotFoundError{
		Section: ISASourcesBuildPhase,
		Marker:  fmt.Sprintf("unique Sources phase (%d found; choose a target from %s)", len(phases), strings.Join(l.TargetNames(), ", ")),
	}
}

// TargetNames returns the names of all native targets, sorted.
func (l *Lookup) TargetNames() []string {
	var names []string
	for _, t := range l.doc.RecordsOf(ISANativeTarget) {
		names = append(names, t.Attrs.Scalar("name"))
	}
	sort.Strings(names)
	return names
}

// Groups lists every PBXGroup that has a name or path, sorted by name.
func (l *Lookup) Groups() []GroupEntry {
	pinned := make(map[ID]bool, len(l.pins))
	for _, id := range l.pins {
		pinned[id] = true
	}
	var out []GroupEntry
	for _, rec := range l.doc.RecordsOf(ISAGroup) {
		name := rec.DisplayName()
		if name == "" {
			continue
		}
		out = append(out, GroupEntry{
			Name:     name,
			Path:     rec.Attrs.Scalar("path"),
			ID:       rec.ID,
			Children: len(rec.Refs("children")),
			Pinned:   pinned[rec.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
