// Package models provides shared value types for pbxpatch.
//
// # Source Files
//
// A [SourceFile] describes one file to add to an Xcode project: its display
// name, its path relative to the project directory and the logical group it
// belongs to. Descriptors are loaded from the YAML batch file or built from
// command-line arguments:
//
//	f := models.SourceFile{Name: "Foo.swift", Path: "Shared/Foo.swift", Group: "Shared"}
//	f = f.WithDefaults()
//
// # Group Policies
//
// A [GroupPolicy] decides what happens when a descriptor names a group that
// cannot be found in the project:
//   - PolicyAbort: fail the whole run before anything is written (default)
//   - PolicySkip: add the file and build records but skip group membership
package models
