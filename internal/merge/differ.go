// Package merge computes line diffs between manifest versions for previews.
package merge

import (
	"fmt"
	"slices"
	"strings"
)

// EditOp represents a single edit operation in a diff.
type EditOp int

const (
	// OpEqual means the line is unchanged.
	OpEqual EditOp = iota
	// OpInsert means a line was added.
	OpInsert
	// OpDelete means a line was removed.
	OpDelete
)

// Edit represents a single line-level edit operation.
type Edit struct {
	// Op is the edit operation type.
	Op EditOp
	// OldLine is the 0-based index in the original (a) slice. -1 for inserts.
	OldLine int
	// NewLine is the 0-based index in the modified (b) slice. -1 for deletes.
	NewLine int
	// NewText holds the text for insert operations.
	NewText string
}

// DiffLines computes a minimal edit script turning a into b with Myers'
// O(ND) algorithm. Manifests are large and patches are small, so the cost
// follows the number of changed lines rather than the file size.
func DiffLines(a, b []string) []Edit {
	n, m := len(a), len(b)
	limit := n + m
	offset := limit + 1
	v := make([]int, 2*limit+3)

	var trace [][]int
search:
	for d := 0; d <= limit; d++ {
		trace = append(trace, slices.Clone(v))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				break search
			}
		}
	}

	// Walk the trace backwards from (n, m) to recover the path.
	var edits []Edit
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		vd := trace[d]
		k := x - y
		prevK := k - 1
		if k == -d || (k != d && vd[offset+k-1] < vd[offset+k+1]) {
			prevK = k + 1
		}
		prevX := vd[offset+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				edits = append(edits, Edit{Op: OpInsert, OldLine: -1, NewLine: prevY, NewText: b[prevY]})
			} else {
				edits = append(edits, Edit{Op: OpDelete, OldLine: prevX, NewLine: -1})
			}
		}
		x, y = prevX, prevY
	}

	slices.Reverse(edits)
	return edits
}

// Stat counts inserted and deleted lines in an edit script.
func Stat(edits []Edit) (inserted, deleted int) {
	for _, e := range edits {
		switch e.Op {
		case OpInsert:
			inserted++
		case OpDelete:
			deleted++
		}
	}
	return inserted, deleted
}

// annotatedLine is one line of the merged old/new sequence.
type annotatedLine struct {
	op   EditOp
	text string
	aIdx int // 0-based index in a, -1 if insert
	bIdx int // 0-based index in b, -1 if delete
}

// annotate interleaves the unchanged lines with the edit script.
func annotate(aLines, bLines []string, edits []Edit) []annotatedLine {
	annotated := make([]annotatedLine, 0, len(bLines)+len(edits))
	ei, ai, bi := 0, 0, 0
	for ai < len(aLines) || bi < len(bLines) {
		if ei < len(edits) {
			e := edits[ei]
			if e.Op == OpDelete && e.OldLine == ai {
				annotated = append(annotated, annotatedLine{op: OpDelete, text: aLines[ai], aIdx: ai, bIdx: -1})
				ai++
				ei++
				continue
			}
			if e.Op == OpInsert && e.NewLine == bi {
				annotated = append(annotated, annotatedLine{op: OpInsert, text: bLines[bi], aIdx: -1, bIdx: bi})
				bi++
				ei++
				continue
			}
		}
		switch {
		case ai < len(aLines) && bi < len(bLines):
			annotated = append(annotated, annotatedLine{op: OpEqual, text: aLines[ai], aIdx: ai, bIdx: bi})
			ai++
			bi++
		case ai < len(aLines):
			// Shouldn't happen with correct diff, but handle gracefully.
			annotated = append(annotated, annotatedLine{op: OpDelete, text: aLines[ai], aIdx: ai, bIdx: -1})
			ai++
		default:
			annotated = append(annotated, annotatedLine{op: OpInsert, text: bLines[bi], aIdx: -1, bIdx: bi})
			bi++
		}
	}
	return annotated
}

// hunkRange is a half-open range of annotated lines printed as one hunk.
type hunkRange struct {
	start, end int
}

// hunks groups changes whose context windows touch.
func hunks(annotated []annotatedLine, context int) []hunkRange {
	var out []hunkRange
	for i := 0; i < len(annotated); i++ {
		if annotated[i].op == OpEqual {
			continue
		}
		start := max(i-context, 0)
		end := min(i+1+context, len(annotated))
		if len(out) > 0 && start <= out[len(out)-1].end {
			out[len(out)-1].end = end
		} else {
			out = append(out, hunkRange{start: start, end: end})
		}
	}
	return out
}

// UnifiedDiff produces a unified diff string comparing base and current content.
// Returns an empty string if the files are identical.
func UnifiedDiff(filename string, base, current []byte) string {
	aLines := splitLines(string(base))
	bLines := splitLines(string(current))

	edits := DiffLines(aLines, bLines)
	if len(edits) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", filename)
	fmt.Fprintf(&sb, "+++ b/%s\n", filename)

	// Generate hunks with context (3 lines).
	const contextLines = 3

	annotated := annotate(aLines, bLines, edits)
	for _, h := range hunks(annotated, contextLines) {
		// Line numbers are 1-based; an empty side starts at the line before.
		aStart, bStart, aCount, bCount := -1, -1, 0, 0
		for idx := h.start; idx < h.end; idx++ {
			al := annotated[idx]
			if al.aIdx >= 0 {
				if aStart < 0 {
					aStart = al.aIdx + 1
				}
				aCount++
			}
			if al.bIdx >= 0 {
				if bStart < 0 {
					bStart = al.bIdx + 1
				}
				bCount++
			}
		}
		if aStart < 0 {
			aStart = lastIndexBefore(annotated, h.start, true)
		}
		if bStart < 0 {
			bStart = lastIndexBefore(annotated, h.start, false)
		}

		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", aStart, aCount, bStart, bCount)

		for idx := h.start; idx < h.end; idx++ {
			al := annotated[idx]
			switch al.op {
			case OpEqual:
				sb.WriteString(" " + al.text + "\n")
			case OpDelete:
				sb.WriteString("-" + al.text + "\n")
			case OpInsert:
				sb.WriteString("+" + al.text + "\n")
			}
		}
	}

	return sb.String()
}

// lastIndexBefore returns the 1-based line number, on side a or b, of the
// last line before annotated[pos], or 0 when there is none.
func lastIndexBefore(annotated []annotatedLine, pos int, sideA bool) int {
	for i := pos - 1; i >= 0; i-- {
		idx := annotated[i].bIdx
		if sideA {
			idx = annotated[i].aIdx
		}
		if idx >= 0 {
			return idx + 1
		}
	}
	return 0
}

// splitLines splits a string into lines, removing trailing empty lines
// caused by a final newline.
func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
