package models_test

import (
	"testing"

	"github.com/modu-ai/pbxpatch/pkg/models"
)

func TestSourceFileWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   models.SourceFile
		want models.SourceFile
	}{
		{
			name: "explicit values kept",
			in:   models.SourceFile{Name: "Foo.swift", Path: "Shared/Foo.swift", Group: "Other"},
			want: models.SourceFile{Name: "Foo.swift", Path: "Shared/Foo.swift", Group: "Other"},
		},
		{
			name: "name and group from path",
			in:   models.SourceFile{Path: "CrossfitTracker/AddWorkoutView.swift"},
			want: models.SourceFile{Name: "AddWorkoutView.swift", Path: "CrossfitTracker/AddWorkoutView.swift", Group: "CrossfitTracker"},
		},
		{
			name: "windows separators",
			in:   models.SourceFile{Path: `Shared\Model.swift`},
			want: models.SourceFile{Name: "Model.swift", Path: `Shared\Model.swift`, Group: "Shared"},
		},
		{
			name: "bare file has no group",
			in:   models.SourceFile{Path: "main.swift"},
			want: models.SourceFile{Name: "main.swift", Path: "main.swift"},
		},
		{
			name: "empty stays empty",
			in:   models.SourceFile{},
			want: models.SourceFile{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.WithDefaults(); got != tt.want {
				t.Errorf("WithDefaults() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSourceFileExt(t *testing.T) {
	f := models.SourceFile{Name: "Bridge.MM"}
	if got := f.Ext(); got != ".mm" {
		t.Errorf("Ext() = %q, want %q", got, ".mm")
	}
}
