// Package testutil builds git fixtures for tests: bare remotes reachable
// through file:// URLs and working copies cloned from them.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

var testSignature = object.Signature{
	Name:  "Tests",
	Email: "tests@example.com",
}

// NewRemote creates a bare repository whose main branch holds one commit
// with files (a README when files is empty). It returns the file:// URL
// and the bare directory.
func NewRemote(t *testing.T, files map[string]string) (string, string) {
	t.Helper()

	bare := t.TempDir()
	_, err := gogit.PlainInitWithOptions(bare, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
		Bare:        true,
	})
	require.NoError(t, err)

	if len(files) == 0 {
		files = map[string]string{"README.md": "# notes\n"}
	}

	seed := t.TempDir()
	r, err := gogit.PlainInitWithOptions(seed, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
	})
	require.NoError(t, err)

	url := "file://" + filepath.ToSlash(bare)
	_, err = r.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{url}})
	require.NoError(t, err)

	CommitFiles(t, r, seed, files, "Initial commit")

	err = r.Push(&gogit.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{"refs/heads/main:refs/heads/main"},
	})
	require.NoError(t, err)

	return url, bare
}

// NewEmptyRemote creates a bare repository without commits. It returns the
// file:// URL and the bare directory.
func NewEmptyRemote(t *testing.T) (string, string) {
	t.Helper()

	bare := t.TempDir()
	_, err := gogit.PlainInitWithOptions(bare, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.Main},
		Bare:        true,
	})
	require.NoError(t, err)

	return "file://" + filepath.ToSlash(bare), bare
}

// HasBranch reports whether main exists in the repository at dir.
func HasBranch(t *testing.T, dir string) bool {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	_, err = r.Reference(plumbing.Main, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

// CommitFiles writes files into dir and commits them on r.
func CommitFiles(t *testing.T, r *gogit.Repository, dir string, files map[string]string, message string) plumbing.Hash {
	t.Helper()

	wt, err := r.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	sig := testSignature
	sig.When = time.Now()
	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: &sig})
	require.NoError(t, err)
	return hash
}

// CloneInto clones url into dir, which must be empty or absent.
func CloneInto(t *testing.T, url, dir string) *gogit.Repository {
	t.Helper()

	r, err := gogit.PlainClone(dir, false, &gogit.CloneOptions{URL: url})
	require.NoError(t, err)
	return r
}

// BranchHead returns the commit main points to in the repository at dir.
func BranchHead(t *testing.T, dir string) plumbing.Hash {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	ref, err := r.Reference(plumbing.Main, true)
	require.NoError(t, err)
	return ref.Hash()
}

// FileAtHead returns name's content at the tip of main in the repository
// at dir, and whether the file exists there.
func FileAtHead(t *testing.T, dir, name string) (string, bool) {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)

	ref, err := r.Reference(plumbing.Main, true)
	require.NoError(t, err)

	commit, err := r.CommitObject(ref.Hash())
	require.NoError(t, err)

	f, err := commit.File(name)
	if errors.Is(err, object.ErrFileNotFound) {
		return "", false
	}
	require.NoError(t, err)

	content, err := f.Contents()
	require.NoError(t, err)
	return content, true
}
