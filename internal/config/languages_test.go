package config

import (
	"path/filepath"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go", "go.mod", ".go"}},
			{Name: "git", FileTypes: []string{".gitignore", "Makefile"}},
		},
	}

	if got := cfg.Match("main.go"); got == nil || got.Name != "go" {
		t.Fatalf("Match main.go = %#v, want go", got)
	}
	if got := cfg.Match("go.mod"); got == nil || got.Name != "go" {
		t.Fatalf("Match go.mod = %#v, want go", got)
	}
	if got := cfg.Match(".gitignore"); got == nil || got.Name != "git" {
		t.Fatalf("Match .gitignore = %#v, want git", got)
	}
	if got := cfg.Match("unknown.txt"); got != nil {
		t.Fatalf("Match unknown.txt = %#v, want nil", got)
	}
}

func TestLoadLanguagesOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MULTICUR_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "go"
file-types = ["go", "go.mod"]

[[language]]
name = "python"
file-types = ["py"]
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if got := cfg.Match("go.mod"); got == nil || got.Name != "go" {
		t.Fatalf("Match go.mod = %#v, want go", got)
	}
	if got := cfg.Match("x.py"); got == nil || got.Name != "python" {
		t.Fatalf("Match x.py = %#v, want python", got)
	}
	// Defaults not named in the user file survive.
	if got := cfg.Match("x.toml"); got == nil || got.Name != "toml" {
		t.Fatalf("Match x.toml = %#v, want toml", got)
	}
}

func TestLoadLanguagesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MULTICUR_CONFIG_HOME", dir)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != len(DefaultLanguages().Languages) {
		t.Fatalf("Languages len = %d, want defaults", len(cfg.Languages))
	}
}
