package vcs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotWorkingCopy is returned by Detect when a directory holds no .git
// entry.
var ErrNotWorkingCopy = errors.New("not a git working copy")

// DetectionResult describes the git metadata found in a directory.
type DetectionResult struct {
	// Root is the working copy directory
	Root string

	// GitDir is the metadata directory (.git, or the target of a .git file)
	GitDir string

	// IsLinked indicates .git is a file pointing elsewhere, as in linked
	// worktrees and submodules
	IsLinked bool
}

// Detect reports whether dir itself is the root of a git working copy.
// Parent directories are not searched.
//
// Returns ErrNotWorkingCopy if dir has no .git entry.
func Detect(dir string) (*DetectionResult, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	gitPath := filepath.Join(root, ".git")
	info, err := os.Stat(gitPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotWorkingCopy
	}
	if err != nil {
		return nil, err
	}

	result := &DetectionResult{Root: root, GitDir: gitPath}
	if info.Mode().IsRegular() {
		result.IsLinked = true
		result.GitDir = resolveGitFile(root, gitPath)
	}
	return result, nil
}

// resolveGitFile follows a .git file of the form
//
//	gitdir: /path/to/repo/.git/worktrees/name
//
// falling back to the file itself when it cannot be parsed.
func resolveGitFile(root, gitFile string) string {
	content, err := os.ReadFile(gitFile)
	if err != nil {
		return gitFile
	}

	line := strings.TrimSpace(string(content))
	if !strings.HasPrefix(line, "gitdir: ") {
		return gitFile
	}

	gitDir := strings.TrimPrefix(line, "gitdir: ")
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}
	return filepath.Clean(gitDir)
}
