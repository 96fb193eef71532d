package pbxproj

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

// sourceFileTypes maps compilable source extensions to Xcode's
// lastKnownFileType values.
var sourceFileTypes = map[string]string{
	".swift": "sourcecode.swift",
	".m":     "sourcecode.c.objc",
	".mm":    "sourcecode.cpp.objcpp",
	".c":     "sourcecode.c.c",
	".cc":    "sourcecode.cpp.cpp",
	".cpp":   "sourcecode.cpp.cpp",
	".cxx":   "sourcecode.cpp.cpp",
	".metal": "sourcecode.metal",
}

// FileTypeForExt returns the lastKnownFileType for a source extension.
func FileTypeForExt(ext string) (string, bool) {
	t, ok := sourceFileTypes[strings.ToLower(ext)]
	return t, ok
}

// Quote renders s the way Xcode writes strings: bare when every byte is
// safe, otherwise double-quoted with escapes.
func Quote(s string) string {
	if s != "" && !strings.Contains(s, "//") && !strings.Contains(s, "/*") {
		bare := true
		for i := 0; i < len(s); i++ {
			if !isBareChar(s[i]) {
				bare = false
				break
			}
		}
		if bare {
			return s
		}
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// isBareChar is the set Xcode leaves unquoted when writing. It is narrower
// than isUnquotedChar: the lexer also reads '+' bare, but other plist readers
// reject it.
func isBareChar(c byte) bool {
	return c != '+' && isUnquotedChar(c)
}

// commentText keeps a name from terminating the surrounding block comment.
func commentText(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}

func buildFileLine(indent string, id, fileRef ID, name, eol string) string {
	return fmt.Sprintf("%s%s /* %s in Sources */ = {isa = %s; fileRef = %s /* %s */; };%s",
		indent, id, commentText(name), ISABuildFile, fileRef, commentText(name), eol)
}

func fileReferenceLine(indent string, id ID, name, fileType, eol string) string {
	return fmt.Sprintf("%s%s /* %s */ = {isa = %s; lastKnownFileType = %s; path = %s; sourceTree = %s; };%s",
		indent, id, commentText(name), ISAFileReference, Quote(fileType), Quote(name), Quote("<group>"), eol)
}

func listItemLine(indent string, id ID, label, eol string) string {
	return fmt.Sprintf("%s%s /* %s */,%s", indent, id, commentText(label), eol)
}

// lineEnding returns the terminator of the line holding off: "\r\n" for
// CRLF manifests, "\n" otherwise.
func lineEnding(data []byte, off int) string {
	end := lineEnd(data, off)
	if end >= 2 && data[end-1] == '\n' && data[end-2] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// splice inserts text at a byte offset of the original manifest.
type splice struct {
	at   int
	text string
}

// applySplices returns a copy of data with every splice inserted. Splices at
// the same offset keep their relative order.
func applySplices(data []byte, splices []splice) []byte {
	sorted := make([]splice, len(splices))
	copy(sorted, splices)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].at < sorted[j].at })

	size := len(data)
	for _, s := range sorted {
		size += len(s.text)
	}
	var buf bytes.Buffer
	buf.Grow(size)
	prev := 0
	for _, s := range sorted {
		buf.Write(data[prev:s.at])
		buf.WriteString(s.text)
		prev = s.at
	}
	buf.Write(data[prev:])
	return buf.Bytes()
}

// lineStart returns the offset of the first byte of the line holding off.
func lineStart(data []byte, off int) int {
	return bytes.LastIndexByte(data[:off], '\n') + 1
}

// lineEnd returns the offset just past the newline ending the line holding off.
func lineEnd(data []byte, off int) int {
	i := bytes.IndexByte(data[off:], '\n')
	if i < 0 {
		return len(data)
	}
	return off + i + 1
}

// indentAt returns the run of spaces and tabs starting at off.
func indentAt(data []byte, off int) string {
	end := off
	for end < len(data) && (data[end] == ' ' || data[end] == '\t') {
		end++
	}
	return string(data[off:end])
}

func isBlank(b []byte) bool {
	return len(bytes.Trim(b, " \t")) == 0
}

// sectionIndent returns the indentation of the section's records, falling
// back to Xcode's two tabs for an empty section.
func sectionIndent(data []byte, sec *Section) string {
	if len(sec.Records) > 0 {
		ls := lineStart(data, sec.Records[0].Span.Start)
		if isBlank(data[ls:sec.Records[0].Span.Start]) {
			return string(data[ls:sec.Records[0].Span.Start])
		}
	}
	return "\t\t"
}

// arrayAppend computes where lines appended to an array go. New lines are
// wrapped in prefix and suffix, and extra holds a splice that puts a comma
// after the last existing item when it has none.
func arrayAppend(data []byte, a *Array, eol string) (at int, indent, prefix, suffix string, extra []splice) {
	ls := lineStart(data, a.Close)
	closeIndent := indentAt(data, ls)
	if isBlank(data[ls:a.Close]) {
		at = ls
	} else {
		// `( A, B )` on one line: break before the ')'.
		at = a.Close
		prefix = eol
		suffix = closeIndent
	}

	indent = closeIndent + "\t"
	if len(a.Items) > 0 {
		first := a.Items[0].Span().Start
		fls := lineStart(data, first)
		if isBlank(data[fls:first]) {
			indent = string(data[fls:first])
		}

		last := a.Items[len(a.Items)-1].Span().End
		tail := blockComment.ReplaceAll(data[last:a.Close], nil)
		if !bytes.Contains(tail, []byte(",")) {
			extra = append(extra, splice{at: last, text: ","})
		}
	}
	return at, indent, prefix, suffix, extra
}
