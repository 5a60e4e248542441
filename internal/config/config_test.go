package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("NEDIT_CONFIG_HOME", "/tmp/nedit-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/nedit-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/nedit-config")
	}

	t.Setenv("NEDIT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/nedit" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/nedit")
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("NEDIT_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.MarginLine != 79 {
		t.Fatalf("MarginLine = %d, want 79", cfg.Editor.MarginLine)
	}
	if cfg.Editor.OccurrenceDelayMs != 800 {
		t.Fatalf("OccurrenceDelayMs = %d, want 800", cfg.Editor.OccurrenceDelayMs)
	}
	if !cfg.Editor.ShowLineNumbers {
		t.Fatalf("ShowLineNumbers = false, want true")
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
EditorBackground = "#111111"
CurrentLine = "#222222"
SearchResult = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
show-line-numbers = false
current-line-mode = "simple"

[theme]
theme = "test"

[theme.colors]
SearchResult = "#123456"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.ShowLineNumbers {
		t.Fatalf("ShowLineNumbers = true, want false")
	}
	if cfg.Editor.CurrentLineMode != "simple" {
		t.Fatalf("CurrentLineMode = %q, want %q", cfg.Editor.CurrentLineMode, "simple")
	}
	if !cfg.Editor.BraceMatching {
		t.Fatalf("BraceMatching = false, want default true")
	}
	if got := cfg.Theme.Colors[RoleEditorBackground]; got != "#111111" {
		t.Fatalf("EditorBackground = %q, want %q", got, "#111111")
	}
	if got := cfg.Theme.Colors[RoleSearchResult]; got != "#123456" {
		t.Fatalf("SearchResult = %q, want %q", got, "#123456")
	}
	if got := cfg.Theme.Colors[RoleBraceMatch]; got != DefaultTheme().Colors[RoleBraceMatch] {
		t.Fatalf("BraceMatch = %q, want default", got)
	}
}

func TestLoadNormalizesInvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEDIT_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 0
current-line-mode = "sideways"
occurrence-delay-ms = 0
occurrence-limit = 2000
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 4 {
		t.Fatalf("TabWidth = %d, want 4", cfg.Editor.TabWidth)
	}
	if cfg.Editor.CurrentLineMode != "full" {
		t.Fatalf("CurrentLineMode = %q, want %q", cfg.Editor.CurrentLineMode, "full")
	}
	if cfg.Editor.OccurrenceDelayMs != 800 {
		t.Fatalf("OccurrenceDelayMs = %d, want 800", cfg.Editor.OccurrenceDelayMs)
	}
	if cfg.Editor.OccurrenceLimit != 500 {
		t.Fatalf("OccurrenceLimit = %d, want the 500 cap", cfg.Editor.OccurrenceLimit)
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[colors]
EditorBackground = "#aaaaaa"
Default = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Colors[RoleEditorBackground] != "#aaaaaa" {
		t.Fatalf("EditorBackground = %q, want %q", theme.Colors[RoleEditorBackground], "#aaaaaa")
	}
	if theme.Colors[RoleDefault] != "#bbbbbb" {
		t.Fatalf("Default = %q, want %q", theme.Colors[RoleDefault], "#bbbbbb")
	}
}

func TestThemeColor(t *testing.T) {
	theme := Theme{Colors: map[string]string{
		"hex":   "#102030",
		"named": "red",
		"bad":   "#zzzzzz",
	}}
	if got, want := theme.Color("hex"), tcell.NewRGBColor(0x10, 0x20, 0x30); got != want {
		t.Fatalf("Color(hex) = %v, want %v", got, want)
	}
	if got := theme.Color("named"); got != tcell.ColorRed {
		t.Fatalf("Color(named) = %v, want red", got)
	}
	if got := theme.Color("bad"); got != tcell.ColorDefault {
		t.Fatalf("Color(bad) = %v, want default", got)
	}
	if got := theme.Color("missing"); got != tcell.ColorDefault {
		t.Fatalf("Color(missing) = %v, want default", got)
	}
}

func TestLoadKeymapOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEDIT_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[keys]
"ctrl+k" = "duplicate_line"
"ctrl+d" = ""
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.Keymap["ctrl+k"]; got != "duplicate_line" {
		t.Fatalf("ctrl+k = %q, want duplicate_line", got)
	}
	if _, ok := cfg.Keymap["ctrl+d"]; ok {
		t.Fatalf("ctrl+d still bound after unbinding")
	}
	if got := cfg.Keymap["ctrl+z"]; got != "undo" {
		t.Fatalf("ctrl+z = %q, want undo", got)
	}
}
