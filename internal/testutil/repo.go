// Package testutil provides fixtures shared by lint-runner tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// InitRepo creates a git repository in a fresh temp dir and returns its
// symlink-free path, matching what git rev-parse --show-toplevel prints.
func InitRepo(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	RunGit(t, dir, "init", "-q")
	RunGit(t, dir, "config", "user.email", "test@example.com")
	RunGit(t, dir, "config", "user.name", "Test User")
	return dir
}

// RunGit runs git in dir and fails the test on error.
func RunGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}

// CreateFile writes content (or an empty file) at dir/path, creating parents.
func CreateFile(t *testing.T, dir, path string, content ...string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))

	data := ""
	if len(content) > 0 {
		data = content[0]
	}
	require.NoError(t, os.WriteFile(fullPath, []byte(data), 0o644))
}

// WriteScript writes an executable /bin/sh script at dir/path.
func WriteScript(t *testing.T, dir, path, body string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte("#!/bin/sh\n"+body+"\n"), 0o755)) //nolint:gosec // test script must be executable
}
