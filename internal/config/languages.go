package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type LanguageServer struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

type Language struct {
	Name            string   `toml:"name"`
	FileTypes       []string `toml:"file-types"`
	Roots           []string `toml:"roots"`
	LanguageServers []string `toml:"language-servers"`
	IndentWidth     int      `toml:"indent-width"`
	UseTabs         *bool    `toml:"use-tabs"`
	CommentToken    string   `toml:"comment-token"`
}

// Indent returns the indentation settings for the language, falling back to
// the editor-wide options for anything the language leaves unset.
func (l *Language) Indent(opts EditorOptions) (width int, useTabs bool) {
	width, useTabs = opts.TabWidth, opts.UseTabs
	if l == nil {
		return width, useTabs
	}
	if l.IndentWidth > 0 {
		width = l.IndentWidth
	}
	if l.UseTabs != nil {
		useTabs = *l.UseTabs
	}
	return width, useTabs
}

// DefaultLanguages covers the grammars the editor ships highlighting for.
func DefaultLanguages() Languages {
	tabs := true
	return Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go"}, Roots: []string{"go.mod"}, LanguageServers: []string{"gopls"}, UseTabs: &tabs, CommentToken: "//"},
			{Name: "python", FileTypes: []string{"py", "pyw"}, Roots: []string{"pyproject.toml", "setup.py"}, LanguageServers: []string{"pylsp"}, IndentWidth: 4, CommentToken: "#"},
			{Name: "javascript", FileTypes: []string{"js", "mjs", "cjs"}, IndentWidth: 2, CommentToken: "//"},
			{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc"}, IndentWidth: 2, CommentToken: "#"},
			{Name: "yaml", FileTypes: []string{"yaml", "yml"}, IndentWidth: 2, CommentToken: "#"},
			{Name: "toml", FileTypes: []string{"toml"}, CommentToken: "#"},
			{Name: "c", FileTypes: []string{"c", "h"}, CommentToken: "//"},
			{Name: "markdown", FileTypes: []string{"md", "markdown"}},
		},
		LanguageServers: map[string]LanguageServer{
			"gopls": {Command: "gopls"},
			"pylsp": {Command: "pylsp"},
		},
	}
}

// ByName looks a language up by its configured name.
func (l Languages) ByName(name string) *Language {
	for i := range l.Languages {
		if strings.EqualFold(l.Languages[i].Name, name) {
			return &l.Languages[i]
		}
	}
	return nil
}

type Languages struct {
	Languages       []Language               `toml:"language"`
	LanguageServers map[string]LanguageServer `toml:"language-server"`
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

// LoadLanguages reads languages.toml. User entries are matched before the
// built-in defaults, so a user [[language]] with the same name shadows ours.
func LoadLanguages() (Languages, error) {
	defaults := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return defaults, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return defaults, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return defaults, err
	}
	if cfg.LanguageServers == nil {
		cfg.LanguageServers = map[string]LanguageServer{}
	}
	for _, lang := range defaults.Languages {
		if cfg.ByName(lang.Name) == nil {
			cfg.Languages = append(cfg.Languages, lang)
		}
	}
	for name, server := range defaults.LanguageServers {
		if _, ok := cfg.LanguageServers[name]; !ok {
			cfg.LanguageServers[name] = server
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
