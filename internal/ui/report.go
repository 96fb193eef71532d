package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/modu-ai/pbxpatch/internal/pbxproj"
)

// Reporter prints patch results. Output is styled only when the theme
// allows color and w is a terminal.
type Reporter struct {
	w     io.Writer
	theme *Theme
	st    styles
	term  bool
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer, theme *Theme) *Reporter {
	r := lipgloss.NewRenderer(w)
	f, isFile := w.(*os.File)
	return &Reporter{w: w, theme: theme, st: theme.styles(r), term: isFile && IsTerminal(f)}
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}

// Added prints one line per generated file with its identifiers.
func (r *Reporter) Added(a pbxproj.Added) {
	group := "-"
	if a.Group != "" {
		group = string(a.Group)
	}
	r.printf("%s %s  fileRef=%s buildFile=%s group=%s\n",
		r.st.success.Render("+"),
		a.File.Name,
		r.st.id.Render(string(a.FileRef)),
		r.st.id.Render(string(a.BuildFile)),
		r.st.muted.Render(group),
	)
}

// Skipped prints why a file was left out.
func (r *Reporter) Skipped(s pbxproj.Skipped) {
	r.printf("%s %s  %s\n", r.st.warning.Render("="), s.File.Name, r.st.muted.Render("skipped: "+s.Reason))
}

// Result prints every added and skipped file followed by the completion
// notice. written tells whether the manifest was saved or only previewed.
func (r *Reporter) Result(path string, res *pbxproj.Result, written bool) {
	for _, a := range res.Added {
		r.Added(a)
	}
	for _, s := range res.Skipped {
		r.Skipped(s)
	}

	switch {
	case !res.Changed():
		r.printf("%s nothing to add to %s\n", r.st.muted.Render("•"), path)
	case written:
		r.printf("%s added %d file(s) to %s\n", r.st.success.Render("✓"), len(res.Added), r.st.title.Render(path))
	default:
		r.printf("%s dry run: %d file(s) would be added to %s\n", r.st.warning.Render("•"), len(res.Added), r.st.title.Render(path))
	}
	if res.Collisions > 0 {
		r.printf("%s\n", r.st.muted.Render(fmt.Sprintf("  regenerated %d colliding identifier(s)", res.Collisions)))
	}
}

// Diff prints a unified diff. Terminals get a syntax highlighted block;
// other writers get the diff text with added and removed lines styled.
func (r *Reporter) Diff(diff string) {
	if diff == "" {
		return
	}
	if r.term && !r.theme.NoColor {
		if out, err := renderDiff(diff, glamour.WithAutoStyle()); err == nil {
			r.printf("%s", out)
			return
		}
	}
	for line := range strings.Lines(diff) {
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = r.st.title.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = r.st.hunk.Render(text)
		case strings.HasPrefix(text, "+"):
			text = r.st.added.Render(text)
		case strings.HasPrefix(text, "-"):
			text = r.st.removed.Render(text)
		}
		r.printf("%s\n", text)
	}
}

// renderDiff renders diff as a fenced markdown code block.
func renderDiff(diff string, style glamour.TermRendererOption) (string, error) {
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(0))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	fence := "```"
	for strings.Contains(diff, fence) {
		fence += "`"
	}
	return tr.Render(fence + "diff\n" + diff + fence + "\n")
}

// Problems prints integrity problems, or a clean notice when there are none.
func (r *Reporter) Problems(path string, objects int, problems []pbxproj.Problem) {
	if len(problems) == 0 {
		r.printf("%s %s: %d objects, no dangling references\n", r.st.success.Render("✓"), path, objects)
		return
	}
	r.printf("%s %s: %d problem(s)\n", r.st.failure.Render("✗"), path, len(problems))
	for _, p := range problems {
		r.printf("  %s\n", p.String())
	}
}

// Groups prints the group lookup table.
func (r *Reporter) Groups(groups []pbxproj.GroupEntry) {
	if len(groups) == 0 {
		r.printf("%s\n", r.st.muted.Render("no named groups"))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.st.border).
		Headers("NAME", "PATH", "ID", "CHILDREN", "PINNED").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.st.title.Padding(0, 1)
			}
			if col == 2 {
				return r.st.id.Padding(0, 1)
			}
			return r.st.muted.UnsetForeground().Padding(0, 1)
		})
	for _, g := range groups {
		pinned := ""
		if g.Pinned {
			pinned = "yes"
		}
		t.Row(g.Name, g.Path, string(g.ID), strconv.Itoa(g.Children), pinned)
	}
	r.printf("%s\n", t.Render())
}

// Failure prints one error line.
func (r *Reporter) Failure(err error) {
	r.printf("%s %v\n", r.st.failure.Render("error:"), err)
}

// Notice prints an informational line.
func (r *Reporter) Notice(format string, args ...any) {
	r.printf("%s %s\n", r.st.muted.Render("•"), fmt.Sprintf(format, args...))
}
