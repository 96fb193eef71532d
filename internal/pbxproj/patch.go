package pbxproj

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/modu-ai/pbxpatch/pkg/models"
)

// Stage is a step of a patch run.
type Stage int

const (
	StageLoaded Stage = iota
	StageBuildFile
	StageFileReference
	StageGroup
	StageBuildPhase
	StagePersisted
	StageAborted
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case StageLoaded:
		return "loaded"
	case StageBuildFile:
		return "patched(BuildFile)"
	case StageFileReference:
		return "patched(FileReference)"
	case StageGroup:
		return "patched(Group)"
	case StageBuildPhase:
		return "patched(BuildPhase)"
	case StagePersisted:
		return "persisted"
	case StageAborted:
		return "aborted"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Options configures a Patcher.
type Options struct {
	// Target names the native target whose Sources phase receives new files.
	Target string
	// Policy decides what an unknown group does to the run.
	Policy models.GroupPolicy
	// Lookup pins group and phase identifiers.
	Lookup LookupOptions
	// IDs produces candidate identifiers. Nil means RandomIDSource.
	IDs IDSource
	// MaxAttempts bounds identifier regeneration on collision.
	MaxAttempts int
	// OnStage, when set, is called after each completed stage.
	OnStage func(Stage)
	Logger  *slog.Logger
}

// Added records the identifiers generated for one source file.
type Added struct {
	File      models.SourceFile `json:"file"`
	FileRef   ID                `json:"file_ref"`
	BuildFile ID                `json:"build_file"`
	Group     ID                `json:"group,omitempty"`
}

// Skipped records a source file that was left out and why.
type Skipped struct {
	File   models.SourceFile `json:"file"`
	Reason string            `json:"reason"`
}

// Result is the outcome of a successful Apply. Data holds the full patched
// manifest; nothing has been written yet.
type Result struct {
	Data       []byte    `json:"-"`
	Phase      ID        `json:"phase"`
	Added      []Added   `json:"added"`
	Skipped    []Skipped `json:"skipped,omitempty"`
	Stages     []Stage   `json:"-"`
	Collisions int       `json:"collisions,omitempty"`
}

// Changed reports whether the patch adds anything.
func (r *Result) Changed() bool {
	return len(r.Added) > 0
}

// Patcher inserts source files into a manifest.
type Patcher struct {
	opts   Options
	logger *slog.Logger
}

// NewPatcher creates a Patcher.
func NewPatcher(opts Options) *Patcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opts.Policy = opts.Policy.OrDefault()
	return &Patcher{opts: opts, logger: logger}
}

// plannedFile is a normalized source file with its identifiers and group.
type plannedFile struct {
	file      models.SourceFile
	fileType  string
	fileRef   ID
	buildFile ID
	group     *Record
}

// @MX:ANCHOR: [AUTO] Apply is the single entry point for manifest insertion
// @MX:REASON: [AUTO] fan_in=3, called from cli add, patch_test.go, cli tests
// Apply plans every insertion for files and splices them into the manifest
// text in one pass. Every section lookup happens before any text is changed,
// and the patched text is re-parsed and checked for dangling references
// before it is returned. On error doc is untouched and no result is produced.
func (p *Patcher) Apply(ctx context.Context, doc *Document, files []models.SourceFile) (*Result, error) {
	res := &Result{Stages: []Stage{StageLoaded}}
	p.logger.Debug("patch started", "files", len(files), "objects", doc.Len())

	lookup, err := BuildLookup(doc, p.opts.Lookup)
	if err != nil {
		return nil, p.abort(res, err)
	}
	phase, err := lookup.ResolveSourcesPhase(p.opts.Target)
	if err != nil {
		return nil, p.abort(res, err)
	}
	phaseFiles, ok := phase.Attrs.Array("files")
	if !ok {
		return nil, p.abort(res, &SectionNotFoundError{Section: ISASourcesBuildPhase, Marker: "files of " + string(phase.ID)})
	}
	buildSec, err := doc.Section(ISABuildFile)
	if err != nil {
		return nil, p.abort(res, err)
	}
	refSec, err := doc.Section(ISAFileReference)
	if err != nil {
		return nil, p.abort(res, err)
	}
	res.Phase = phase.ID

	ids := NewIDAllocator(doc, p.opts.IDs)
	ids.SetMaxAttempts(p.opts.MaxAttempts)

	var planned []plannedFile
	for i, f := range files {
		pf, skip, err := p.plan(doc, lookup, i, f)
		if err != nil {
			return nil, p.abort(res, err)
		}
		if skip != nil {
			p.logger.Info("skipping source file", "file", skip.File.Name, "reason", skip.Reason)
			res.Skipped = append(res.Skipped, *skip)
			continue
		}
		if pf.fileRef, err = ids.Allocate(); err != nil {
			return nil, p.abort(res, err)
		}
		if pf.buildFile, err = ids.Allocate(); err != nil {
			return nil, p.abort(res, err)
		}
		planned = append(planned, *pf)
	}
	res.Collisions = ids.Collisions()

	if len(planned) == 0 {
		res.Data = doc.Bytes()
		return res, nil
	}

	data := doc.Bytes()
	eol := lineEnding(data, buildSec.Begin.Start)
	var splices []splice

	// BuildFile: right after the Begin marker line, in input order.
	var sb strings.Builder
	indent := sectionIndent(data, buildSec)
	for _, pf := range planned {
		sb.WriteString(buildFileLine(indent, pf.buildFile, pf.fileRef, pf.file.Name, eol))
	}
	splices = append(splices, splice{at: lineEnd(data, buildSec.Begin.End), text: sb.String()})
	if err := p.advance(ctx, res, StageBuildFile); err != nil {
		return nil, err
	}

	// FileReference: right before the End marker line.
	sb.Reset()
	indent = sectionIndent(data, refSec)
	for _, pf := range planned {
		sb.WriteString(fileReferenceLine(indent, pf.fileRef, pf.file.Name, pf.fileType, eol))
	}
	splices = append(splices, splice{at: lineStart(data, refSec.End.Start), text: sb.String()})
	if err := p.advance(ctx, res, StageFileReference); err != nil {
		return nil, err
	}

	// Group membership, one splice per distinct group in first-seen order.
	var groupOrder []*Record
	byGroup := make(map[ID][]plannedFile)
	for _, pf := range planned {
		if pf.group == nil {
			continue
		}
		if _, seen := byGroup[pf.group.ID]; !seen {
			groupOrder = append(groupOrder, pf.group)
		}
		byGroup[pf.group.ID] = append(byGroup[pf.group.ID], pf)
	}
	for _, g := range groupOrder {
		children, ok := g.Attrs.Array("children")
		if !ok {
			return nil, p.abort(res, &SectionNotFoundError{Section: ISAGroup, Marker: "children of " + string(g.ID)})
		}
		splices = append(splices, appendToArray(data, eol, children, byGroup[g.ID], func(pf plannedFile) (ID, string) {
			return pf.fileRef, pf.file.Name
		})...)
	}
	if err := p.advance(ctx, res, StageGroup); err != nil {
		return nil, err
	}

	// BuildPhase membership for every file regardless of group.
	splices = append(splices, appendToArray(data, eol, phaseFiles, planned, func(pf plannedFile) (ID, string) {
		return pf.buildFile, pf.file.Name + " in Sources"
	})...)
	if err := p.advance(ctx, res, StageBuildPhase); err != nil {
		return nil, err
	}

	patched := applySplices(data, splices)
	if err := verifyPatched(doc, patched); err != nil {
		return nil, p.abort(res, err)
	}

	res.Data = patched
	for _, pf := range planned {
		a := Added{File: pf.file, FileRef: pf.fileRef, BuildFile: pf.buildFile}
		if pf.group != nil {
			a.Group = pf.group.ID
		}
		res.Added = append(res.Added, a)
	}
	p.logger.Debug("patch composed", "added", len(res.Added), "skipped", len(res.Skipped), "collisions", res.Collisions)
	return res, nil
}

// plan normalizes one source file and resolves its group. A non-nil Skipped
// means the file is already present and must not be added again.
func (p *Patcher) plan(doc *Document, lookup *Lookup, index int, f models.SourceFile) (*plannedFile, *Skipped, error) {
	f = f.WithDefaults()
	f.Name = norm.NFC.String(f.Name)
	f.Group = norm.NFC.String(f.Group)
	if f.Name == "" {
		return nil, nil, fmt.Errorf("source file %d: name or path is required", index+1)
	}
	fileType, ok := FileTypeForExt(f.Ext())
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.Name)
	}

	pf := &plannedFile{file: f, fileType: fileType}
	group, err := lookup.ResolveGroup(f.Group)
	var unknown *UnknownGroupError
	switch {
	case errors.As(err, &unknown):
		unknown.File = f.Name
		if p.opts.Policy != models.PolicySkip {
			return nil, nil, unknown
		}
		p.logger.Warn("unknown group, file will not be added to any group", "file", f.Name, "group", f.Group)
	case err != nil:
		return nil, nil, fmt.Errorf("resolve group for %s: %w", f.Name, err)
	default:
		pf.group = group
	}

	if existing := findExisting(doc, group, f.Name); existing != "" {
		where := "project"
		if group != nil {
			where = "group " + group.DisplayName()
		}
		return nil, &Skipped{File: f, Reason: fmt.Sprintf("already in %s as %s", where, existing)}, nil
	}
	return pf, nil, nil
}

// findExisting returns the identifier of a file reference named name, looking
// only at group's children when group is known.
func findExisting(doc *Document, group *Record, name string) ID {
	matches := func(rec *Record) bool {
		if rec.ISA != ISAFileReference {
			return false
		}
		for _, k := range []string{rec.Attrs.Scalar("path"), rec.Attrs.Scalar("name")} {
			if k != "" && norm.NFC.String(k) == name {
				return true
			}
		}
		return false
	}
	if group != nil {
		for _, id := range group.Refs("children") {
			if rec, ok := doc.Record(id); ok && matches(rec) {
				return rec.ID
			}
		}
		return ""
	}
	for _, rec := range doc.RecordsOf(ISAFileReference) {
		if matches(rec) {
			return rec.ID
		}
	}
	return ""
}

func appendToArray(data []byte, eol string, a *Array, files []plannedFile, item func(plannedFile) (ID, string)) []splice {
	at, indent, prefix, suffix, extra := arrayAppend(data, a, eol)
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, pf := range files {
		id, label := item(pf)
		sb.WriteString(listItemLine(indent, id, label, eol))
	}
	sb.WriteString(suffix)
	return append(extra, splice{at: at, text: sb.String()})
}

// verifyPatched re-parses the patched text and fails on any reference problem
// that was not already present in the original.
func verifyPatched(orig *Document, patched []byte) error {
	doc, err := Parse(patched)
	if err != nil {
		return fmt.Errorf("re-parse patched manifest: %w", err)
	}
	if problems := newProblems(orig.CheckIntegrity(), doc.CheckIntegrity()); len(problems) > 0 {
		return &IntegrityError{Problems: problems}
	}
	return nil
}

func (p *Patcher) advance(ctx context.Context, res *Result, s Stage) error {
	if err := ctx.Err(); err != nil {
		return p.abort(res, err)
	}
	res.Stages = append(res.Stages, s)
	p.logger.Debug("stage complete", "stage", s.String())
	if p.opts.OnStage != nil {
		p.opts.OnStage(s)
	}
	return nil
}

func (p *Patcher) abort(res *Result, err error) error {
	res.Stages = append(res.Stages, StageAborted)
	p.logger.Debug("patch aborted", "after", res.Stages[len(res.Stages)-2].String(), "error", err)
	return err
}
