package neditable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/nedit/internal/config"
	"github.com/kobzarvs/nedit/internal/document"
)

func TestOpenDetectsLanguage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(path, []byte("print(1)\n"), 0o644))

	ed, err := Open(path, config.DefaultLanguages())
	require.NoError(t, err)
	assert.Equal(t, "python", ed.Language())
	assert.Equal(t, path, ed.FilePath())
	assert.Equal(t, "print(1)\n", ed.Document().Text())
}

func TestOpenMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.go")
	ed, err := Open(path, config.DefaultLanguages())
	require.NoError(t, err)
	assert.Equal(t, "", ed.Document().Text())
	assert.Equal(t, "go", ed.Language())
}

func TestSaveClearsModified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	ed := New(path, "", document.New("one"))
	ed.Document().Insert(document.Position{Col: 3}, " two")
	require.True(t, ed.Document().Modified())

	require.NoError(t, ed.Save())
	assert.False(t, ed.Document().Modified())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one two", string(data))
}

func TestSaveWithoutPath(t *testing.T) {
	assert.Error(t, New("", "", nil).Save())
}

func TestSortedCheckersAndNotifications(t *testing.T) {
	ed := New("", "", nil)
	calls := 0
	cancel := ed.OnCheckersUpdated(func(*Editable) { calls++ })

	ed.SetChecker(Checker{Name: "lint", Priority: 1, Checks: map[int]Check{3: {Message: "w"}}})
	ed.SetChecker(Checker{Name: "errors", Priority: 5, Checks: map[int]Check{1: {Message: "e"}}})
	assert.Equal(t, 2, calls)

	sorted := ed.SortedCheckers()
	require.Len(t, sorted, 2)
	assert.Equal(t, "errors", sorted[0].Name)
	assert.Equal(t, "lint", sorted[1].Name)

	ed.RemoveChecker("lint")
	ed.RemoveChecker("missing")
	assert.Equal(t, 3, calls)

	cancel()
	ed.SetChecker(Checker{Name: "x"})
	assert.Equal(t, 3, calls)
}

func TestCheckerLinesSorted(t *testing.T) {
	c := Checker{Checks: map[int]Check{9: {}, 2: {}, 5: {}}}
	assert.Equal(t, []int{2, 5, 9}, c.Lines())
}

type view struct{ doc *document.Document }

func (v view) Document() *document.Document { return v.doc }

func TestEditorBackReference(t *testing.T) {
	ed := New("", "", nil)
	assert.Nil(t, ed.Editor())
	v := view{doc: ed.Document()}
	ed.SetEditor(v)
	assert.Equal(t, v, ed.Editor())
}
