package pbxproj

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveGroup(t *testing.T) {
	t.Parallel()

	lookup, err := BuildLookup(parseFixture(t), LookupOptions{})
	if err != nil {
		t.Fatalf("BuildLookup() error: %v", err)
	}

	tests := []struct {
		name    string
		group   string
		want    ID
		wantErr error
	}{
		{"by path", "Shared", sharedGroup, nil},
		{"by path with spaces", "CrossfitTrackerWatch Watch App", watchGroup, nil},
		{"by name", "Products", "CDB1A6AA2EA34E8F00B13136", nil},
		{"by identifier", string(appGroup), appGroup, nil},
		{"unknown", "Widgets", "", ErrUnknownGroup},
		{"identifier of a non-group", string(userFileRef), "", ErrUnknownGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, err := lookup.ResolveGroup(tt.group)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveGroup(%q) error = %v, want %v", tt.group, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveGroup(%q) error: %v", tt.group, err)
			}
			if rec.ID != tt.want {
				t.Errorf("ResolveGroup(%q) = %s, want %s", tt.group, rec.ID, tt.want)
			}
		})
	}
}

func TestResolveGroupAmbiguous(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t, `path = "CrossfitTrackerWatch Watch App";`, `path = Shared;`)

	lookup, err := BuildLookup(doc, LookupOptions{})
	if err != nil {
		t.Fatalf("BuildLookup() error: %v", err)
	}
	if _, err := lookup.ResolveGroup("Shared"); !errors.Is(err, ErrAmbiguousGroup) {
		t.Fatalf("ResolveGroup() error = %v, want ErrAmbiguousGroup", err)
	}

	pinned, err := BuildLookup(doc, LookupOptions{GroupPins: map[string]ID{"Shared": sharedGroup}})
	if err != nil {
		t.Fatalf("BuildLookup() with pin error: %v", err)
	}
	rec, err := pinned.ResolveGroup("Shared")
	if err != nil {
		t.Fatalf("ResolveGroup() with pin error: %v", err)
	}
	if rec.ID != sharedGroup {
		t.Errorf("pinned ResolveGroup() = %s, want %s", rec.ID, sharedGroup)
	}
}

func TestBuildLookupBadPins(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t)
	tests := []struct {
		name string
		opts LookupOptions
	}{
		{"group pin missing", LookupOptions{GroupPins: map[string]ID{"Shared": "0123456789ABCDEF01234567"}}},
		{"group pin wrong type", LookupOptions{GroupPins: map[string]ID{"Shared": userFileRef}}},
		{"phase pin wrong type", LookupOptions{SourcesPhase: sharedGroup}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := BuildLookup(doc, tt.opts); !errors.Is(err, ErrSectionNotFound) {
				t.Errorf("BuildLookup() error = %v, want ErrSectionNotFound", err)
			}
		})
	}
}

func TestResolveSourcesPhase(t *testing.T) {
	t.Parallel()

	doc := parseFixture(t)
	tests := []struct {
		name    string
		opts    LookupOptions
		target  string
		want    ID
		wantErr bool
	}{
		{"app target", LookupOptions{}, "CrossfitTracker", appSources, false},
		{"watch target", LookupOptions{}, "CrossfitTrackerWatch Watch App", watchSources, false},
		{"pin wins over target", LookupOptions{SourcesPhase: watchSources}, "CrossfitTracker", watchSources, false},
		{"unknown target", LookupOptions{}, "Widgets", "", true},
		{"no target with two phases", LookupOptions{}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lookup, err := BuildLookup(doc, tt.opts)
			if err != nil {
				t.Fatalf("BuildLookup() error: %v", err)
			}
			rec, err := lookup.ResolveSourcesPhase(tt.target)
			if tt.wantErr {
				if !errors.Is(err, ErrSectionNotFound) {
					t.Errorf("ResolveSourcesPhase(%q) error = %v, want ErrSectionNotFound", tt.target, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSourcesPhase(%q) error: %v", tt.target, err)
			}
			if rec.ID != tt.want {
				t.Errorf("ResolveSourcesPhase(%q) = %s, want %s", tt.target, rec.ID, tt.want)
			}
		})
	}
}

func TestResolveSourcesPhaseSingle(t *testing.T) {
	t.Parallel()

	// Demote the watch phase so only one Sources phase remains.
	doc := parseFixture(t, "CDB1A6F32EA3550000B13136 /* Sources */ = {\n\t\t\tisa = PBXSourcesBuildPhase;",
		"CDB1A6F32EA3550000B13136 /* Sources */ = {\n\t\t\tisa = PBXHeadersBuildPhase;")
	lookup, err := BuildLookup(doc, LookupOptions{})
	if err != nil {
		t.Fatalf("BuildLookup() error: %v", err)
	}
	rec, err := lookup.ResolveSourcesPhase("")
	if err != nil {
		t.Fatalf("ResolveSourcesPhase() error: %v", err)
	}
	if rec.ID != appSources {
		t.Errorf("ResolveSourcesPhase() = %s, want %s", rec.ID, appSources)
	}
}

func TestLookupListings(t *testing.T) {
	t.Parallel()

	lookup, err := BuildLookup(parseFixture(t), LookupOptions{GroupPins: map[string]ID{"Shared": sharedGroup}})
	if err != nil {
		t.Fatalf("BuildLookup() error: %v", err)
	}

	if diff := cmp.Diff([]string{"CrossfitTracker", "CrossfitTrackerWatch Watch App"}, lookup.TargetNames()); diff != "" {
		t.Errorf("TargetNames() mismatch (-want +got):\n%s", diff)
	}

	want := []GroupEntry{
		{Name: "CrossfitTracker", Path: "CrossfitTracker", ID: appGroup, Children: 3},
		{Name: "CrossfitTrackerWatch Watch App", Path: "CrossfitTrackerWatch Watch App", ID: watchGroup, Children: 1},
		{Name: "Products", ID: "CDB1A6AA2EA34E8F00B13136", Children: 2},
		{Name: "Shared", Path: "Shared", ID: sharedGroup, Children: 2, Pinned: true},
	}
	if diff := cmp.Diff(want, lookup.Groups()); diff != "" {
		t.Errorf("Groups() mismatch (-want +got):\n%s", diff)
	}
}
