package config

import (
	"path/filepath"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	langs := DefaultLanguages()
	cases := map[string]string{
		"main.go":          "go",
		"/src/tool/app.py": "python",
		"script.pyw":       "python",
		".bashrc":          "bash",
		"ci.yml":           "yaml",
		"notes.txt":        "",
	}
	for path, want := range cases {
		got := langs.Match(path)
		switch {
		case want == "" && got != nil:
			t.Fatalf("Match(%q) = %q, want nil", path, got.Name)
		case want != "" && (got == nil || got.Name != want):
			t.Fatalf("Match(%q) = %#v, want %s", path, got, want)
		}
	}
	if py := langs.ByName("python"); py == nil || py.CommentToken != "#" {
		t.Fatalf("python comment token = %#v", py)
	}
}

func TestLoadLanguages(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "go"
file-types = ["go"]
language-servers = ["gopls"]

[language-server.gopls]
command = "gopls"
args = ["-remote=auto"]
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if got := cfg.Match("main.go"); got == nil || len(got.LanguageServers) != 1 {
		t.Fatalf("Match main.go = %#v, want user go entry", got)
	}
	if cfg.ByName("python") == nil {
		t.Fatalf("built-in python language missing after merge")
	}
	if cfg.LanguageServers == nil {
		t.Fatalf("LanguageServers is nil")
	}
	server, ok := cfg.LanguageServers["gopls"]
	if !ok {
		t.Fatalf("LanguageServers missing gopls")
	}
	if server.Command != "gopls" {
		t.Fatalf("gopls command = %q, want %q", server.Command, "gopls")
	}
}

func TestLoadLanguagesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEDIT_CONFIG_HOME", dir)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != len(DefaultLanguages().Languages) {
		t.Fatalf("Languages len = %d, want defaults", len(cfg.Languages))
	}
}

func TestLanguageIndent(t *testing.T) {
	opts := Default().Editor
	tabs := true
	goLang := &Language{Name: "go", UseTabs: &tabs}
	if w, useTabs := goLang.Indent(opts); w != 4 || !useTabs {
		t.Fatalf("go Indent = (%d, %v), want (4, true)", w, useTabs)
	}
	yaml := &Language{Name: "yaml", IndentWidth: 2}
	if w, useTabs := yaml.Indent(opts); w != 2 || useTabs {
		t.Fatalf("yaml Indent = (%d, %v), want (2, false)", w, useTabs)
	}
	var none *Language
	if w, _ := none.Indent(opts); w != opts.TabWidth {
		t.Fatalf("nil Indent width = %d, want %d", w, opts.TabWidth)
	}
}
