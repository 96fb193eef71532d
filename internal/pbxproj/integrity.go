package pbxproj

import "strings"

// Record types a build file's fileRef may point at.
var fileRefTypes = map[string]bool{
	ISAFileReference:  true,
	ISAVariantGroup:   true,
	ISAVersionGroup:   true,
	ISAReferenceProxy: true,
}

// Record types a group's children may point at.
var groupChildTypes = map[string]bool{
	ISAFileReference:  true,
	ISAGroup:          true,
	ISAVariantGroup:   true,
	ISAVersionGroup:   true,
	ISAReferenceProxy: true,
	ISASyncRootGroup:  true,
}

// CheckIntegrity verifies that every build file points at a file reference
// and that every group child and build phase entry resolves to a record of
// the expected type. It returns the problems in file order.
func (d *Document) CheckIntegrity() []Problem {
	var problems []Problem
	for _, rec := range d.order {
		switch {
		case rec.ISA == ISABuildFile:
			ref := rec.Attrs.Scalar("fileRef")
			if ref == "" {
				// Swift package products use productRef instead.
				continue
			}
			problems = append(problems, d.checkRef(rec, "fileRef", ID(ref), fileRefTypes)...)
		case rec.ISA == ISAGroup || rec.ISA == ISAVariantGroup:
			for _, child := range rec.Refs("children") {
				problems = append(problems, d.checkRef(rec, "children", child, groupChildTypes)...)
			}
		case strings.HasSuffix(rec.ISA, "BuildPhase"):
			for _, file := range rec.Refs("files") {
				problems = append(problems, d.checkRef(rec, "files", file, map[string]bool{ISABuildFile: true})...)
			}
		}
	}
	return problems
}

func (d *Document) checkRef(owner *Record, attr string, ref ID, want map[string]bool) []Problem {
	target, ok := d.records[ref]
	if !ok {
		return []Problem{{Record: owner.ID, Attr: attr, Ref: ref, Msg: "no such record"}}
	}
	if !want[target.ISA] {
		return []Problem{{Record: owner.ID, Attr: attr, Ref: ref, Msg: "unexpected type " + target.ISA}}
	}
	return nil
}

// newProblems returns the problems in after that are not in before.
func newProblems(before, after []Problem) []Problem {
	seen := make(map[Problem]int, len(before))
	for _, p := range before {
		seen[p]++
	}
	var out []Problem
	for _, p := range after {
		if seen[p] > 0 {
			seen[p]--
			continue
		}
		out = append(out, p)
	}
	return out
}
