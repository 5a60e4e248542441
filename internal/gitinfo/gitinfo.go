// Package gitinfo reads the checked out branch straight from .git, for the
// status line. It never runs git.
package gitinfo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var errNotRepo = errors.New("gitinfo: not inside a git work tree")

// Branch returns the branch checked out in the work tree containing path,
// "detached:<short hash>" for a detached HEAD and "" outside a repository.
func Branch(path string) string {
	gitDir, _, err := locate(path)
	if err != nil {
		return ""
	}
	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return ""
	}
	line, _, _ := bytes.Cut(head, []byte("\n"))
	ref := strings.TrimSpace(string(line))
	if name, ok := strings.CutPrefix(ref, "ref:"); ok {
		return strings.TrimPrefix(strings.TrimSpace(name), "refs/heads/")
	}
	if len(ref) >= 7 {
		return "detached:" + ref[:7]
	}
	return ""
}

// Root returns the top of the work tree containing path, or "".
func Root(path string) string {
	_, root, err := locate(path)
	if err != nil {
		return ""
	}
	return root
}

// locate walks up from path looking for .git, which is either the git
// directory itself or a file pointing at it (worktrees, submodules).
func locate(path string) (gitDir, root string, err error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ".git")
		if info, err := os.Stat(candidate); err == nil {
			if info.IsDir() {
				return candidate, dir, nil
			}
			data, err := os.ReadFile(candidate)
			if err != nil {
				return "", "", err
			}
			if target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:"); ok {
				target = strings.TrimSpace(target)
				if !filepath.IsAbs(target) {
					target = filepath.Join(dir, target)
				}
				return target, dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", errNotRepo
		}
		dir = parent
	}
}
