package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

// Color roles consulted by the editor, its extensions and side widgets.
const (
	RoleEditorBackground          = "EditorBackground"
	RoleDefault                   = "Default"
	RoleEditorSelectionColor      = "EditorSelectionColor"
	RoleEditorSelectionBackground = "EditorSelectionBackground"
	RoleSearchResult              = "SearchResult"
	RoleCurrentLine               = "CurrentLine"
	RoleMarginLine                = "MarginLine"
	RoleBraceMatch                = "BraceMatch"
	RoleBraceUnmatched            = "BraceUnmatched"
	RoleIndentationGuide          = "IndentationGuide"
	RoleLineNumber                = "LineNumber"
	RoleLineNumberActive          = "LineNumberActive"
	RoleTextChanged               = "TextChanged"
	RoleBookmark                  = "Bookmark"
	RoleBreakpoint                = "Breakpoint"
	RoleFoldArea                  = "FoldArea"
	RoleRunCursor                 = "RunCursor"
	RoleScrollbarTrack            = "ScrollbarTrack"
	RoleCurrentLineMarker         = "CurrentLineMarker"
	RoleWhitespace                = "Whitespace"
)

type Theme struct {
	Name   string            `toml:"theme"`
	Colors map[string]string `toml:"colors"`
}

func DefaultTheme() Theme {
	return Theme{
		Colors: map[string]string{
			RoleEditorBackground:          "#0A0E14",
			RoleDefault:                   "#B3B1AD",
			RoleEditorSelectionColor:      "#B3B1AD",
			RoleEditorSelectionBackground: "#27425A",
			RoleSearchResult:              "#3D4751",
			RoleCurrentLine:               "#151A1F",
			RoleMarginLine:                "#1B2128",
			RoleBraceMatch:                "#E6B450",
			RoleBraceUnmatched:            "#FF3333",
			RoleIndentationGuide:          "#2D3640",
			RoleLineNumber:                "#3E4B59",
			RoleLineNumberActive:          "#B3B1AD",
			RoleTextChanged:               "#E6B450",
			RoleBookmark:                  "#59C2FF",
			RoleBreakpoint:                "#FF3333",
			RoleFoldArea:                  "#5C6773",
			RoleRunCursor:                 "gray",
			RoleScrollbarTrack:            "#3E4B59",
			RoleCurrentLineMarker:         "white",
			RoleWhitespace:                "#2D3640",
			"keyword":                     "#FFA759",
			"string":                      "#BAE67E",
			"comment":                     "#5C6773",
			"type":                        "#5CCFE6",
			"function":                    "#FFD173",
			"number":                      "#D4BFFF",
			"constant":                    "#FFDD8E",
			"operator":                    "#F29668",
			"punctuation":                 "#C0C0C0",
			"field":                       "#E6B673",
			"builtin":                     "#73D0FF",
			"variable":                    "#B3B1AD",
			"parameter":                   "#B3B1AD",
		},
	}
}

// Color resolves a named role. Unknown roles resolve to tcell.ColorDefault.
func (t Theme) Color(role string) tcell.Color {
	return parseColor(t.Colors[role], tcell.ColorDefault)
}

func (t *Theme) merge(src Theme) {
	if t.Colors == nil {
		t.Colors = map[string]string{}
	}
	for role, value := range src.Colors {
		if strings.TrimSpace(value) != "" {
			t.Colors[role] = value
		}
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. Both a [colors] table and a flat list of
// role = "color" pairs are accepted.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Colors map[string]string `toml:"colors"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && len(wrap.Colors) > 0 {
		return Theme{Name: name, Colors: wrap.Colors}, nil
	}
	var flat map[string]interface{}
	if _, err := toml.Decode(string(data), &flat); err != nil {
		return Theme{}, err
	}
	t := Theme{Name: name, Colors: map[string]string{}}
	for k, v := range flat {
		if s, ok := v.(string); ok {
			t.Colors[k] = s
		}
	}
	return t, nil
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
