package pbxproj

import (
	"testing"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"ScheduledWorkout.swift", "ScheduledWorkout.swift"},
		{"sourcecode.swift", "sourcecode.swift"},
		{"Shared/User.swift", "Shared/User.swift"},
		{"A+B.swift", `"A+B.swift"`},
		{"NSString+Extras.m", `"NSString+Extras.m"`},
		{"My View.swift", `"My View.swift"`},
		{"<group>", `"<group>"`},
		{"", `""`},
		{`a"b.swift`, `"a\"b.swift"`},
		{"a//b", `"a//b"`},
		{"Café.swift", `"Café.swift"`},
		{"tab\there", `"tab\there"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := Quote(tt.in); got != tt.want {
				t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
			}

			root, _, err := parseTree([]byte("{ k = " + Quote(tt.in) + "; }"))
			if err != nil {
				t.Fatalf("quoted value does not parse: %v", err)
			}
			if got := root.Scalar("k"); got != tt.in {
				t.Errorf("round trip = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestFileTypeForExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext    string
		want   string
		wantOK bool
	}{
		{".swift", "sourcecode.swift", true},
		{".SWIFT", "sourcecode.swift", true},
		{".m", "sourcecode.c.objc", true},
		{".metal", "sourcecode.metal", true},
		{".png", "", false},
		{".storyboard", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := FileTypeForExt(tt.ext)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("FileTypeForExt(%q) = (%q, %v), want (%q, %v)", tt.ext, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRenderedLines(t *testing.T) {
	t.Parallel()

	const (
		fid ID = "AAAAAAAAAAAAAAAAAAAAAAAA"
		bid ID = "BBBBBBBBBBBBBBBBBBBBBBBB"
	)
	got := buildFileLine("\t\t", bid, fid, "ScheduledWorkout.swift", "\n")
	want := "\t\tBBBBBBBBBBBBBBBBBBBBBBBB /* ScheduledWorkout.swift in Sources */ = {isa = PBXBuildFile; fileRef = AAAAAAAAAAAAAAAAAAAAAAAA /* ScheduledWorkout.swift */; };\n"
	if got != want {
		t.Errorf("buildFileLine() =\n%q\nwant\n%q", got, want)
	}

	got = fileReferenceLine("\t\t", fid, "ScheduledWorkout.swift", "sourcecode.swift", "\n")
	want = "\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* ScheduledWorkout.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = ScheduledWorkout.swift; sourceTree = \"<group>\"; };\n"
	if got != want {
		t.Errorf("fileReferenceLine() =\n%q\nwant\n%q", got, want)
	}

	got = listItemLine("\t\t\t\t", fid, "odd */ name.swift", "\n")
	want = "\t\t\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* odd * / name.swift */,\n"
	if got != want {
		t.Errorf("listItemLine() = %q, want %q", got, want)
	}

	got = listItemLine("\t\t\t\t", fid, "View+Style.swift", "\r\n")
	want = "\t\t\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* View+Style.swift */,\r\n"
	if got != want {
		t.Errorf("listItemLine() with CRLF = %q, want %q", got, want)
	}
}

func TestApplySplices(t *testing.T) {
	t.Parallel()

	got := applySplices([]byte("abcdef"), []splice{
		{at: 3, text: "X"},
		{at: 0, text: "Y"},
		{at: 3, text: "Z"},
		{at: 6, text: "!"},
	})
	if string(got) != "YabcXZdef!" {
		t.Errorf("applySplices() = %q, want %q", got, "YabcXZdef!")
	}
}

func TestLineHelpers(t *testing.T) {
	t.Parallel()

	data := []byte("one\n\t\ttwo\nthree")
	if got := lineStart(data, 7); got != 4 {
		t.Errorf("lineStart = %d, want 4", got)
	}
	if got := lineEnd(data, 5); got != 10 {
		t.Errorf("lineEnd = %d, want 10", got)
	}
	if got := lineEnd(data, 12); got != len(data) {
		t.Errorf("lineEnd on last line = %d, want %d", got, len(data))
	}
	if got := indentAt(data, 4); got != "\t\t" {
		t.Errorf("indentAt = %q", got)
	}
}

func TestLineEnding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		off  int
		want string
	}{
		{"lf", "one\ntwo\n", 1, "\n"},
		{"crlf", "one\r\ntwo\r\n", 1, "\r\n"},
		{"crlf second line", "one\r\ntwo\r\n", 6, "\r\n"},
		{"no terminator", "one", 1, "\n"},
		{"lone cr", "one\rtwo\n", 1, "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := lineEnding([]byte(tt.data), tt.off); got != tt.want {
				t.Errorf("lineEnding(%q, %d) = %q, want %q", tt.data, tt.off, got, tt.want)
			}
		})
	}
}
