package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// DefaultLanguages covers the grammars the syntax engine ships with.
func DefaultLanguages() Languages {
	return Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go"}},
			{Name: "toml", FileTypes: []string{"toml"}},
			{Name: "bash", FileTypes: []string{"sh", "bash", "zsh", ".bashrc", ".zshrc"}},
		},
	}
}

// LoadLanguages merges an optional user languages.toml over the defaults.
func LoadLanguages() (Languages, error) {
	cfg := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var user Languages
	if _, err := toml.Decode(string(data), &user); err != nil {
		return cfg, err
	}
	// User entries shadow defaults with the same name.
	for _, lang := range user.Languages {
		replaced := false
		for i := range cfg.Languages {
			if cfg.Languages[i].Name == lang.Name {
				cfg.Languages[i] = lang
				replaced = true
				break
			}
		}
		if !replaced {
			cfg.Languages = append(cfg.Languages, lang)
		}
	}
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
