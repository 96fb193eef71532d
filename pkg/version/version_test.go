package version

import (
	"strings"
	"testing"
)

func TestGetFullVersion(t *testing.T) {
	got := GetFullVersion()
	if !strings.HasPrefix(got, GetVersion()+" ") {
		t.Errorf("GetFullVersion() = %q, want prefix %q", got, GetVersion())
	}
	if !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("GetFullVersion() = %q, missing commit", got)
	}
}
