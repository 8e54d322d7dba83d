package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if diff := cmp.Diff(Default(), Load()); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadParsesKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	rc := `# plotpic preferences
savedir = ~/pictures
history = ~/.plotpic_history
MouseSelectsInner = TRUE
fontsize = 14
font = Times
pngdpi = 600
unknown = ignored
not a pair
`
	if err := os.WriteFile(filepath.Join(home, rcName), []byte(rc), 0o600); err != nil {
		t.Fatalf("write rc: %v", err)
	}

	want := &Config{
		SaveDirectory:     filepath.Join(home, "pictures"),
		HistoryFile:       filepath.Join(home, ".plotpic_history"),
		MouseSelectsInner: true,
		FontSize:          14,
		Font:              "Times",
		PNGResolution:     600,
	}
	if diff := cmp.Diff(want, Load()); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	rc := "fontsize = -3\npngdpi = 150\n"
	if err := os.WriteFile(filepath.Join(home, rcName), []byte(rc), 0o600); err != nil {
		t.Fatalf("write rc: %v", err)
	}

	got := Load()
	if got.FontSize != 10 || got.PNGResolution != 300 {
		t.Fatalf("expected defaults to survive bad values, got %+v", got)
	}
}

func TestGetSavePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	c := &Config{SaveDirectory: dir}

	got := c.GetSavePath("plot.png")
	if got != filepath.Join(dir, "plot.png") {
		t.Fatalf("GetSavePath: got %q", got)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("save directory not created: %v", err)
	}

	abs := filepath.Join(t.TempDir(), "abs.png")
	if got := c.GetSavePath(abs); got != abs {
		t.Fatalf("absolute path rewritten: %q", got)
	}
	if got := (&Config{}).GetSavePath("plot.png"); got != "plot.png" {
		t.Fatalf("empty save dir: got %q", got)
	}
}
