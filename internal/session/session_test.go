package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nedit", "session.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Remember("a.py", FileState{Line: 3, Col: 2, View: map[string]int{"vscrollbar": 17}})
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	fs, ok := again.Lookup("a.py")
	if !ok {
		t.Fatalf("state for a.py missing")
	}
	if fs.Line != 3 || fs.Col != 2 || fs.View["vscrollbar"] != 17 {
		t.Fatalf("state = %+v", fs)
	}
	abs, _ := filepath.Abs("a.py")
	if again.ActiveFile() != abs {
		t.Fatalf("active file = %q, want %q", again.ActiveFile(), abs)
	}
}

func TestSaveSkipsCleanStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, _ := Open(path)
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("clean store wrote a file: %v", err)
	}
	s.Remember("", FileState{Line: 1})
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("unnamed buffer was remembered")
	}
}

func TestOpenCorruptSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path)
	if err == nil {
		t.Fatalf("expected an error for a corrupt session")
	}
	if s == nil {
		t.Fatalf("store should still be usable")
	}
	s.Remember("b.go", FileState{})
	if _, ok := s.Lookup("b.go"); !ok {
		t.Fatalf("Remember on recovered store failed")
	}
}

func TestDefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join(dir, "nedit", "session.json"); got != want {
		t.Fatalf("DefaultPath = %q, want %q", got, want)
	}
}
