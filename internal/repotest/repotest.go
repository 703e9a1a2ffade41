// Package repotest has helpers for tests that need a real Git repository.
package repotest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Repo is a throwaway Git repository rooted in a test temp dir.
type Repo struct {
	Root string
	home string
}

// SkipIfGitNotAvailable skips the test if git binary is not found in PATH.
func SkipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// New initializes an empty repository. The test is skipped when git is missing.
func New(t *testing.T) *Repo {
	t.Helper()
	SkipIfGitNotAvailable(t)

	root := t.TempDir()
	// Resolve symlinks so paths match what git reports (e.g. /private/var on macOS).
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	r := &Repo{Root: root, home: t.TempDir()}
	r.Git(t, "init", "--quiet")
	r.Git(t, "config", "commit.gpgsign", "false")
	return r
}

// Git runs a git command inside the repository and returns its trimmed stdout.
func (r *Repo) Git(t *testing.T, args ...string) string {
	t.Helper()
	return r.gitAs(t, "Siri Test", "test@example.com", args...)
}

// Write creates or overwrites a file in the working tree without staging it.
func (r *Repo) Write(t *testing.T, name string, content string) {
	t.Helper()
	full := filepath.Join(r.Root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// Commit writes the files, stages them and commits as the given author.
func (r *Repo) Commit(t *testing.T, name, email string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		r.Write(t, path, content)
		r.gitAs(t, name, email, "add", "--", path)
	}
	r.gitAs(t, name, email, "commit", "--quiet", "-m", "update by "+name)
}

func (r *Repo) gitAs(t *testing.T, name, email string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Root
	cmd.Env = append(os.Environ(),
		"HOME="+r.home,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME="+name,
		"GIT_AUTHOR_EMAIL="+email,
		"GIT_COMMITTER_NAME="+name,
		"GIT_COMMITTER_EMAIL="+email,
	)
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("git %s: %v: %s", strings.Join(args, " "), err, stderr)
	}
	return strings.TrimSpace(string(out))
}
