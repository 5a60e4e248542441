package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth                 int    `toml:"tab-width"`
	UseTabs                  bool   `toml:"use-tabs"`
	FontSize                 int    `toml:"font-size"`
	ShowLineNumbers          bool   `toml:"show-line-numbers"`
	ShowTextChanges          bool   `toml:"show-text-changes"`
	ShowMarginLine           bool   `toml:"show-margin-line"`
	MarginLine               int    `toml:"margin-line"`
	MarginLineBackground     bool   `toml:"margin-line-background"`
	HighlightCurrentLine     bool   `toml:"highlight-current-line"`
	CurrentLineMode          string `toml:"current-line-mode"`
	BraceMatching            bool   `toml:"brace-matching"`
	ShowIndentationGuides    bool   `toml:"show-indentation-guides"`
	AutocompleteBrackets     bool   `toml:"autocomplete-brackets"`
	AutocompleteQuotes       bool   `toml:"autocomplete-quotes"`
	ShowWhitespaces          bool   `toml:"show-whitespaces"`
	WheelZoom                bool   `toml:"wheel-zoom"`
	OccurrenceDelayMs        int    `toml:"occurrence-delay-ms"`
	OccurrenceLimit          int    `toml:"occurrence-limit"`
	RunCursorMs              int    `toml:"run-cursor-ms"`
	CaseSensitiveOccurrences bool   `toml:"case-sensitive-occurrences"`
}

type Config struct {
	Editor EditorOptions     `toml:"editor"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keys"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:                 4,
			UseTabs:                  false,
			FontSize:                 12,
			ShowLineNumbers:          true,
			ShowTextChanges:          true,
			ShowMarginLine:           true,
			MarginLine:               79,
			MarginLineBackground:     false,
			HighlightCurrentLine:     true,
			CurrentLineMode:          "full",
			BraceMatching:            true,
			ShowIndentationGuides:    false,
			AutocompleteBrackets:     true,
			AutocompleteQuotes:       true,
			ShowWhitespaces:          false,
			WheelZoom:                true,
			OccurrenceDelayMs:        800,
			OccurrenceLimit:          500,
			RunCursorMs:              300,
			CaseSensitiveOccurrences: true,
		},
		Theme:  DefaultTheme(),
		Keymap: DefaultKeymap(),
	}
}

// DefaultKeymap binds key strings to editor actions. An empty action in the
// user's [keys] table unbinds the key.
func DefaultKeymap() map[string]string {
	return map[string]string{
		"left":        "move_left",
		"right":       "move_right",
		"up":          "move_up",
		"down":        "move_down",
		"ctrl+left":   "move_word_left",
		"ctrl+right":  "move_word_right",
		"shift+left":  "select_left",
		"shift+right": "select_right",
		"shift+up":    "select_up",
		"shift+down":  "select_down",
		"end":         "move_line_end",
		"shift+end":   "select_line_end",
		"ctrl+home":   "move_file_start",
		"ctrl+end":    "move_file_end",
		"pgup":        "page_up",
		"pgdn":        "page_down",
		"del":         "delete_char",
		"backspace":   "backspace",
		"enter":       "insert_newline",
		"shift+tab":   "unindent",
		"ctrl+a":      "select_all",
		"ctrl+z":      "undo",
		"ctrl+y":      "redo",
		"ctrl+c":      "copy",
		"ctrl+x":      "cut",
		"ctrl+v":      "paste",
		"ctrl+d":      "duplicate_line",
		"alt+up":      "move_line_up",
		"alt+down":    "move_line_down",
		"ctrl+f":      "find_next",
		"f3":          "find_next",
		"shift+f3":    "find_previous",
		"ctrl+b":      "toggle_bookmark",
		"f2":          "next_bookmark",
		"shift+f2":    "previous_bookmark",
		"f9":          "toggle_breakpoint",
		"ctrl+r":      "run_cursor",
		"alt+=":       "zoom_in",
		"alt+-":       "zoom_out",
		"alt+0":       "reset_zoom",
		"ctrl+s":      "save",
	}
}

// Load reads config.toml on top of Default. A named theme is applied before the
// user's own [theme.colors] so explicit overrides always win.
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

	var themeRef struct {
		Theme struct {
			Name string `toml:"theme"`
		} `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &themeRef); err != nil {
		return cfg, err
	}
	if themeRef.Theme.Name != "" {
		theme, err := LoadTheme(themeRef.Theme.Name)
		if err != nil {
			return cfg, err
		}
		cfg.Theme.merge(theme)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Default(), err
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	d := Default().Editor
	if c.Editor.TabWidth < 1 {
		c.Editor.TabWidth = d.TabWidth
	}
	if c.Editor.FontSize < 1 {
		c.Editor.FontSize = d.FontSize
	}
	if c.Editor.MarginLine < 1 {
		c.Editor.MarginLine = d.MarginLine
	}
	if c.Editor.OccurrenceDelayMs < 1 {
		c.Editor.OccurrenceDelayMs = d.OccurrenceDelayMs
	}
	if c.Editor.OccurrenceLimit < 1 || c.Editor.OccurrenceLimit > d.OccurrenceLimit {
		c.Editor.OccurrenceLimit = d.OccurrenceLimit
	}
	if c.Editor.RunCursorMs < 1 {
		c.Editor.RunCursorMs = d.RunCursorMs
	}
	for key, action := range c.Keymap {
		if action == "" {
			delete(c.Keymap, key)
		}
	}
	switch c.Editor.CurrentLineMode {
	case "full", "simple":
	default:
		c.Editor.CurrentLineMode = d.CurrentLineMode
	}
}

func ConfigDir() (string, error) {
	if v := os.Getenv("NEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "nedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
