package ui

import (
	"os"
	"testing"
)

func TestHeadlessManagerForce(t *testing.T) {
	t.Parallel()

	hm := NewHeadlessManager()
	hm.ForceHeadless(true)
	if !hm.IsHeadless() {
		t.Error("ForceHeadless(true) should make IsHeadless true")
	}
	hm.ForceHeadless(false)
	if hm.IsHeadless() {
		t.Error("ForceHeadless(false) should make IsHeadless false")
	}
	hm.ClearForce()
	if got, want := hm.IsHeadless(), !IsTerminal(os.Stdin); got != want {
		t.Errorf("IsHeadless() after ClearForce = %v, want %v", got, want)
	}
}

func TestHeadlessManagerDefaults(t *testing.T) {
	t.Parallel()

	hm := NewHeadlessManager()
	if hm.HasDefaults() {
		t.Error("new manager should have no defaults")
	}
	src := map[string]string{DefaultKeyTarget: "App"}
	hm.SetDefaults(src)
	src[DefaultKeyTarget] = "Changed"

	if v, ok := hm.GetDefault(DefaultKeyTarget); !ok || v != "App" {
		t.Errorf("GetDefault() = %q, %v; want App, true", v, ok)
	}
	if _, ok := hm.GetDefault(DefaultKeyProject); ok {
		t.Error("unset key should not be found")
	}
	hm.SetDefaults(nil)
	if hm.HasDefaults() {
		t.Error("SetDefaults(nil) should clear defaults")
	}
}

func TestIsTerminalNil(t *testing.T) {
	t.Parallel()

	if IsTerminal(nil) {
		t.Error("nil file is not a terminal")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file is not a terminal")
	}
}
