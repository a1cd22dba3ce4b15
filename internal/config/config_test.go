package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestDiscoverWithoutManifest(t *testing.T) {
	cfg, path, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, "")
	nested := filepath.Join(root, "src", "drivers")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("Find = %q, want %q", got, want)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[output]
format = "json"
max-diagnostics = 25

[check]
jobs = 4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Format != "json" || cfg.Output.MaxDiagnostics != 25 {
		t.Errorf("output = %+v", cfg.Output)
	}
	// Untouched keys keep their defaults.
	if cfg.Output.Paths != "absolute" || cfg.Output.Color != "auto" {
		t.Errorf("output defaults lost: %+v", cfg.Output)
	}
	if cfg.Check.Jobs != 4 || cfg.Check.Cache {
		t.Errorf("check = %+v", cfg.Check)
	}
	if cfg.Tools.Spell != "codespell" {
		t.Errorf("tools = %+v", cfg.Tools)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad format", "[output]\nformat = \"xml\"\n"},
		{"bad paths", "[output]\npaths = \"shortest\"\n"},
		{"bad color", "[output]\ncolor = \"sometimes\"\n"},
		{"zero cap", "[output]\nmax-diagnostics = 0\n"},
		{"negative jobs", "[check]\njobs = -1\n"},
		{"not toml", "output = [[[\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.body)
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
