package pbxproj

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for manifest operations.
var (
	// ErrSyntax indicates the manifest is not a well-formed property list.
	ErrSyntax = errors.New("pbxproj: syntax error")

	// ErrSectionNotFound indicates a required section marker or fixed record is missing.
	ErrSectionNotFound = errors.New("pbxproj: section not found")

	// ErrUnknownGroup indicates a source file names a group that has no record.
	ErrUnknownGroup = errors.New("pbxproj: unknown group")

	// ErrAmbiguousGroup indicates a group name matches more than one record.
	ErrAmbiguousGroup = errors.New("pbxproj: ambiguous group")

	// ErrIdentifierExhausted indicates no unique identifier could be generated.
	ErrIdentifierExhausted = errors.New("pbxproj: could not allocate a unique identifier")

	// ErrUnsupportedFileType indicates the file extension is not a compilable source type.
	ErrUnsupportedFileType = errors.New("pbxproj: unsupported file type")

	// ErrIntegrity indicates the patched manifest has dangling references.
	ErrIntegrity = errors.New("pbxproj: integrity check failed")
)

// SyntaxError reports the position of a parse failure.
type SyntaxError struct {
	Offset int
	Line   int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pbxproj: line %d (offset %d): %s", e.Line, e.Offset, e.Msg)
}

// Unwrap returns ErrSyntax.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// SectionNotFoundError names the section, and optionally the marker or
// identifier, that could not be located.
type SectionNotFoundError struct {
	Section string
	Marker  string
}

// Error implements the error interface.
func (e *SectionNotFoundError) Error() string {
	if e.Marker != "" {
		return fmt.Sprintf("pbxproj: section %s: %s not found", e.Section, e.Marker)
	}
	return fmt.Sprintf("pbxproj: section %s not found", e.Section)
}

// Unwrap returns ErrSectionNotFound.
func (e *SectionNotFoundError) Unwrap() error {
	return ErrSectionNotFound
}

// UnknownGroupError reports a group name with no matching PBXGroup record.
type UnknownGroupError struct {
	Group string
	File  string
}

// Error implements the error interface.
func (e *UnknownGroupError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("pbxproj: unknown group %q for %s", e.Group, e.File)
	}
	return fmt.Sprintf("pbxproj: unknown group %q", e.Group)
}

// Unwrap returns ErrUnknownGroup.
func (e *UnknownGroupError) Unwrap() error {
	return ErrUnknownGroup
}

// Problem is a single dangling or mistyped reference.
type Problem struct {
	Record ID
	Attr   string
	Ref    ID
	Msg    string
}

// String formats the problem for reports.
func (p Problem) String() string {
	return fmt.Sprintf("%s.%s -> %s: %s", p.Record, p.Attr, p.Ref, p.Msg)
}

// IntegrityError collects the problems found by CheckIntegrity.
type IntegrityError struct {
	Problems []Problem
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("pbxproj: %d integrity problem(s): %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Unwrap returns ErrIntegrity.
func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}
