package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
)

// writeRepo fabricates a minimal .git layout; the package reads HEAD
// directly, so no git binary is required.
func writeRepo(t *testing.T, dir, head string) {
	t.Helper()
	gitDir := filepath.Join(dir, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte(head), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
}

func TestBranchFromRef(t *testing.T) {
	dir := t.TempDir()
	writeRepo(t, dir, "ref: refs/heads/feature/fast\n")
	if got := Branch(dir); got != "feature/fast" {
		t.Fatalf("Branch() = %q, want %q", got, "feature/fast")
	}
}

func TestBranchFromNestedFile(t *testing.T) {
	dir := t.TempDir()
	writeRepo(t, dir, "ref: refs/heads/main\n")
	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	file := filepath.Join(sub, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := Branch(file); got != "main" {
		t.Fatalf("Branch() = %q, want %q", got, "main")
	}
}

func TestBranchDetachedHead(t *testing.T) {
	dir := t.TempDir()
	writeRepo(t, dir, "0123456789abcdef0123456789abcdef01234567\n")
	if got := Branch(dir); got != "detached:0123456" {
		t.Fatalf("Branch() = %q, want %q", got, "detached:0123456")
	}
}

func TestBranchWorktreeIndirection(t *testing.T) {
	main := t.TempDir()
	writeRepo(t, main, "ref: refs/heads/wt\n")

	worktree := t.TempDir()
	gitFile := "gitdir: " + filepath.Join(main, ".git") + "\n"
	if err := os.WriteFile(filepath.Join(worktree, ".git"), []byte(gitFile), 0o644); err != nil {
		t.Fatalf("write .git file: %v", err)
	}
	if got := Branch(worktree); got != "wt" {
		t.Fatalf("Branch() = %q, want %q", got, "wt")
	}
}

func TestBranchOutsideRepo(t *testing.T) {
	if got := Branch(t.TempDir()); got != "" {
		t.Fatalf("Branch() = %q, want empty outside a repository", got)
	}
}
