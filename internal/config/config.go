package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Keymap struct {
	Global map[string]string `toml:"global"`
}

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	LineNumbers     string `toml:"line-numbers"`
	GitBranchSymbol string `toml:"git-branch-symbol"`
	Autosave        bool   `toml:"autosave"`
	KillRingMax     int    `toml:"kill-ring-max"`
}

type MulticursorOptions struct {
	DecisionsFile  string `toml:"decisions-file"`
	WatchDecisions bool   `toml:"watch-decisions"`
	MaxCursors     int    `toml:"max-cursors"`
}

type Theme struct {
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	MinibufferForeground       string `toml:"minibuffer-foreground"`
	MinibufferBackground       string `toml:"minibuffer-background"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	SelectionForeground        string `toml:"selection-foreground"`
	SelectionBackground        string `toml:"selection-background"`
	FakeCursorForeground       string `toml:"fake-cursor-foreground"`
	FakeCursorBackground       string `toml:"fake-cursor-background"`
	FakeSelectionBackground    string `toml:"fake-selection-background"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
}

type Config struct {
	Editor      EditorOptions      `toml:"editor"`
	Multicursor MulticursorOptions `toml:"multicursor"`
	Theme       Theme              `toml:"theme"`
	Keymap      Keymap             `toml:"keymap"`
	// Remap aliases one command name to another, resolved before dispatch
	// and before replication classification.
	Remap map[string]string `toml:"remap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			LineNumbers:     "absolute",
			GitBranchSymbol: "git:",
			Autosave:        false,
			KillRingMax:     60,
		},
		Multicursor: MulticursorOptions{
			DecisionsFile:  "",
			WatchDecisions: true,
			MaxCursors:     0, // unlimited
		},
		Theme: Theme{
			Foreground:                 "#B3B1AD",
			Background:                 "#0A0E14",
			StatuslineForeground:       "#B3B1AD",
			StatuslineBackground:       "#0F1419",
			MinibufferForeground:       "#B3B1AD",
			MinibufferBackground:       "#0F1419",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			SelectionForeground:        "#B3B1AD",
			SelectionBackground:        "#27425A",
			FakeCursorForeground:       "#0A0E14",
			FakeCursorBackground:       "#E6B450",
			FakeSelectionBackground:    "#1C3A52",
			SyntaxKeyword:              "#FFA759",
			SyntaxString:               "#BAE67E",
			SyntaxComment:              "#5C6773",
			SyntaxType:                 "#5CCFE6",
			SyntaxFunction:             "#FFD173",
			SyntaxNumber:               "#D4BFFF",
		},
		Keymap: Keymap{
			Global: map[string]string{
				"left":       "backward-char",
				"right":      "forward-char",
				"up":         "previous-line",
				"down":       "next-line",
				"ctrl+b":     "backward-char",
				"ctrl+f":     "forward-char",
				"ctrl+p":     "previous-line",
				"ctrl+n":     "next-line",
				"ctrl+a":     "move-beginning-of-line",
				"ctrl+e":     "move-end-of-line",
				"home":       "move-beginning-of-line",
				"end":        "move-end-of-line",
				"enter":      "newline",
				"backspace":  "delete-backward-char",
				"ctrl+d":     "delete-char",
				"del":        "delete-char",
				"ctrl+k":     "kill-line",
				"ctrl+w":     "kill-region",
				"alt+w":      "copy-region-as-kill",
				"ctrl+y":     "yank",
				"alt+y":      "yank-pop",
				"ctrl+space": "set-mark",
				"ctrl+x":     "exchange-point-and-mark",
				"ctrl+z":     "undo",
				"ctrl+r":     "redo",
				"ctrl+s":     "save-buffer",
				"alt+z":      "zap-to-char",
				"ctrl+g":     "mc-keyboard-quit",
				"alt+enter":  "mc-confirm",
				"alt+m":      "mc-edit-lines",
				"alt+.":      "mc-add-cursor",
				"ctrl+q":     "quit",
			},
		},
		Remap: map[string]string{},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
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

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.GitBranchSymbol != "" {
		cfg.Editor.GitBranchSymbol = userCfg.Editor.GitBranchSymbol
	}
	if userCfg.Editor.Autosave {
		cfg.Editor.Autosave = true
	}
	if userCfg.Editor.KillRingMax > 0 {
		cfg.Editor.KillRingMax = userCfg.Editor.KillRingMax
	}
	if userCfg.Multicursor.DecisionsFile != "" {
		cfg.Multicursor.DecisionsFile = userCfg.Multicursor.DecisionsFile
	}
	if userCfg.Multicursor.MaxCursors > 0 {
		cfg.Multicursor.MaxCursors = userCfg.Multicursor.MaxCursors
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap.Global {
		cfg.Keymap.Global[k] = v
	}
	for k, v := range userCfg.Remap {
		cfg.Remap[k] = v
	}
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.MinibufferForeground != "" {
		dst.MinibufferForeground = src.MinibufferForeground
	}
	if src.MinibufferBackground != "" {
		dst.MinibufferBackground = src.MinibufferBackground
	}
	if src.LineNumberForeground != "" {
		dst.LineNumberForeground = src.LineNumberForeground
	}
	if src.LineNumberActiveForeground != "" {
		dst.LineNumberActiveForeground = src.LineNumberActiveForeground
	}
	if src.SelectionForeground != "" {
		dst.SelectionForeground = src.SelectionForeground
	}
	if src.SelectionBackground != "" {
		dst.SelectionBackground = src.SelectionBackground
	}
	if src.FakeCursorForeground != "" {
		dst.FakeCursorForeground = src.FakeCursorForeground
	}
	if src.FakeCursorBackground != "" {
		dst.FakeCursorBackground = src.FakeCursorBackground
	}
	if src.FakeSelectionBackground != "" {
		dst.FakeSelectionBackground = src.FakeSelectionBackground
	}
	if src.SyntaxKeyword != "" {
		dst.SyntaxKeyword = src.SyntaxKeyword
	}
	if src.SyntaxString != "" {
		dst.SyntaxString = src.SyntaxString
	}
	if src.SyntaxComment != "" {
		dst.SyntaxComment = src.SyntaxComment
	}
	if src.SyntaxType != "" {
		dst.SyntaxType = src.SyntaxType
	}
	if src.SyntaxFunction != "" {
		dst.SyntaxFunction = src.SyntaxFunction
	}
	if src.SyntaxNumber != "" {
		dst.SyntaxNumber = src.SyntaxNumber
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("MULTICUR_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "multicur"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "multicur"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DecisionsPath returns the path of the learned command-classification file.
func DecisionsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "decisions.toml"), nil
}
