package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNamedBeforeInitIsSilent(t *testing.T) {
	Named("lsp").Warn("dropped", "server", "gopls")
}

func TestNamedWritesComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nedit.log")
	t.Setenv("NEDIT_LOG_FILE", path)
	lsp := Named("lsp")
	if err := Init(false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	lsp.Warn("server exited", "server", "gopls")
	lsp.Debug("hidden below info")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "lsp") || !strings.Contains(out, "server exited") {
		t.Fatalf("log = %q", out)
	}
	if strings.Contains(out, "hidden below info") {
		t.Fatalf("debug line written at info level: %q", out)
	}
}
