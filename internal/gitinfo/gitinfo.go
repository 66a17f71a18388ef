// Package gitinfo reads the current branch for the status line. It
// walks up from the buffer's file to find the repository and parses
// HEAD directly, so no git binary is needed.
package gitinfo

import (
	"os"
	"path/filepath"
	"strings"
)

// Branch returns the branch name for the repository containing path,
// "detached:<sha7>" for a detached HEAD, or "" when path is not inside
// a repository.
func Branch(path string) string {
	gitDir := findGitDir(path)
	if gitDir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(data))
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if ref, ok := strings.CutPrefix(line, "ref:"); ok {
		ref = strings.TrimSpace(ref)
		if name, ok := strings.CutPrefix(ref, "refs/heads/"); ok {
			return name
		}
		return filepath.Base(ref)
	}
	if len(line) >= 7 {
		return "detached:" + line[:7]
	}
	return ""
}

// findGitDir locates the .git directory governing path, following
// worktree indirection files.
func findGitDir(path string) string {
	dir := path
	if info, err := os.Stat(dir); err != nil {
		return ""
	} else if !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, ".git")
		if info, err := os.Stat(candidate); err == nil {
			if info.IsDir() {
				return candidate
			}
			if info.Mode().IsRegular() {
				return resolveGitFile(dir, candidate)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// resolveGitFile handles .git files written by worktrees and
// submodules, which point at the real git dir.
func resolveGitFile(base, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return ""
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	return target
}
