package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinbox/pinbox/internal/testutil"
	"github.com/pinbox/pinbox/internal/vcs"
)

func TestCloneAndOpen(t *testing.T) {
	url, _ := testutil.NewRemote(t, nil)
	dir := filepath.Join(t.TempDir(), "notes")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	repo, err := Clone(context.Background(), vcs.CloneOptions{URL: url, Directory: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, repo.Path())

	_, err = os.Stat(filepath.Join(dir, "README.md"))
	assert.NoError(t, err)

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	opened, err := Open(dir)
	require.NoError(t, err)

	head, err := opened.Head()
	require.NoError(t, err)
	cloneHead, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, cloneHead, head)
}

func TestCloneFailure(t *testing.T) {
	missing := "file://" + filepath.ToSlash(filepath.Join(t.TempDir(), "missing.git"))

	_, err := Clone(context.Background(), vcs.CloneOptions{URL: missing, Directory: t.TempDir()})
	assert.ErrorIs(t, err, vcs.ErrClone)

	_, err = Clone(context.Background(), vcs.CloneOptions{Directory: t.TempDir()})
	assert.ErrorIs(t, err, vcs.ErrRepositoryNotSet)
}

func TestCloneEmptyRemote(t *testing.T) {
	url, bare := testutil.NewEmptyRemote(t)
	dir := t.TempDir()

	repo, err := Clone(context.Background(), vcs.CloneOptions{URL: url, Directory: dir})
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Empty(t, head, "branch is unborn")

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	info, err := repo.Remote("origin")
	require.NoError(t, err)
	assert.Equal(t, url, info.URL)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("x = 1\n"), 0o644))
	hash, err := repo.Commit(vcs.CommitOptions{Message: "first", Paths: []string{"config.toml"}})
	require.NoError(t, err)

	require.NoError(t, repo.Push(context.Background(), vcs.PushOptions{}))
	assert.Equal(t, hash, testutil.BranchHead(t, bare).String())
}

func TestOpenNonRepository(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	_, err := Open(dir)
	assert.ErrorIs(t, err, vcs.ErrOpen)
	assert.True(t, vcs.IsFatal(err))
}

func TestRemoteLookup(t *testing.T) {
	url, _ := testutil.NewRemote(t, nil)
	dir := t.TempDir()
	testutil.CloneInto(t, url, dir)

	repo, err := Open(dir)
	require.NoError(t, err)

	info, err := repo.Remote("origin")
	require.NoError(t, err)
	assert.Equal(t, vcs.RemoteInfo{Name: "origin", URL: url}, info)

	_, err = repo.Remote("upstream")
	assert.ErrorIs(t, err, vcs.ErrRemoteNotFound)
}

func TestCommitAndPush(t *testing.T) {
	url, bare := testutil.NewRemote(t, nil)
	dir := t.TempDir()
	testutil.CloneInto(t, url, dir)

	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("x = 1\n"), 0o644))
	hash, err := repo.Commit(vcs.CommitOptions{
		Message: "Add config",
		Paths:   []string{"config.toml"},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Push(context.Background(), vcs.PushOptions{}))
	assert.Equal(t, hash, testutil.BranchHead(t, bare).String())

	content, ok := testutil.FileAtHead(t, bare, "config.toml")
	require.True(t, ok)
	assert.Equal(t, "x = 1\n", content)

	// Nothing new to send.
	assert.NoError(t, repo.Push(context.Background(), vcs.PushOptions{}))
}

func TestCommitRequiresMessage(t *testing.T) {
	url, _ := testutil.NewRemote(t, nil)
	dir := t.TempDir()
	testutil.CloneInto(t, url, dir)

	repo, err := Open(dir)
	require.NoError(t, err)

	_, err = repo.Commit(vcs.CommitOptions{})
	assert.ErrorIs(t, err, vcs.ErrCommit)
}

func TestPushRejectedWhenRemoteMovedOn(t *testing.T) {
	url, _ := testutil.NewRemote(t, nil)

	// Another clone pushes first.
	otherDir := t.TempDir()
	other := testutil.CloneInto(t, url, otherDir)
	testutil.CommitFiles(t, other, otherDir, map[string]string{"a.txt": "a"}, "other")
	require.NoError(t, other.Push(&gogit.PushOptions{RemoteName: "origin"}))

	// This clone knows about that commit, then diverges from it.
	dir := t.TempDir()
	local := testutil.CloneInto(t, url, dir)

	repo, err := Open(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)

	require.NoError(t, repo.ResetTo(firstParent(t, local, head)))
	testutil.CommitFiles(t, local, dir, map[string]string{"b.txt": "b"}, "diverge")

	err = repo.Push(context.Background(), vcs.PushOptions{})
	assert.ErrorIs(t, err, vcs.ErrPushRejected)
	assert.True(t, vcs.IsUserActionRequired(err))
}

func TestPushHTTPRemoteWithoutToken(t *testing.T) {
	url, _ := testutil.NewRemote(t, nil)
	dir := t.TempDir()
	r := testutil.CloneInto(t, url, dir)

	require.NoError(t, r.DeleteRemote("origin"))
	_, err := r.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://example.invalid/u/notes.git"},
	})
	require.NoError(t, err)

	repo, err := Open(dir)
	require.NoError(t, err)

	err = repo.Push(context.Background(), vcs.PushOptions{})
	assert.ErrorIs(t, err, vcs.ErrTokenNotSet)
}

func TestPushMissingRemote(t *testing.T) {
	url, _ := testutil.NewRemote(t, nil)
	dir := t.TempDir()
	r := testutil.CloneInto(t, url, dir)
	require.NoError(t, r.DeleteRemote("origin"))

	repo, err := Open(dir)
	require.NoError(t, err)

	err = repo.Push(context.Background(), vcs.PushOptions{})
	assert.ErrorIs(t, err, vcs.ErrRemoteNotFound)
}

func TestResetToKeepsWorkingFiles(t *testing.T) {
	url, _ := testutil.NewRemote(t, nil)
	dir := t.TempDir()
	testutil.CloneInto(t, url, dir)

	repo, err := Open(dir)
	require.NoError(t, err)
	before, err := repo.Head()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("n"), 0o644))
	_, err = repo.Commit(vcs.CommitOptions{Message: "new", Paths: []string{"new.txt"}})
	require.NoError(t, err)

	require.NoError(t, repo.ResetTo(before))

	after, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = os.Stat(filepath.Join(dir, "new.txt"))
	assert.NoError(t, err, "mixed reset leaves the working directory alone")
}

func TestResetToUnborn(t *testing.T) {
	url, _ := testutil.NewEmptyRemote(t)
	dir := t.TempDir()

	repo, err := Clone(context.Background(), vcs.CloneOptions{URL: url, Directory: dir})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("n"), 0o644))
	_, err = repo.Commit(vcs.CommitOptions{Message: "new", Paths: []string{"new.txt"}})
	require.NoError(t, err)

	require.NoError(t, repo.ResetTo(""))

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Empty(t, head)
	assert.False(t, testutil.HasBranch(t, dir))
	assert.FileExists(t, filepath.Join(dir, "new.txt"))

	// The same file can be committed again from scratch.
	_, err = repo.Commit(vcs.CommitOptions{Message: "again", Paths: []string{"new.txt"}})
	assert.NoError(t, err)
}

// firstParent returns the parent of the commit at hash.
func firstParent(t *testing.T, r *gogit.Repository, hash string) string {
	t.Helper()

	c, err := r.CommitObject(plumbing.NewHash(hash))
	require.NoError(t, err)
	require.NotZero(t, c.NumParents())

	p, err := c.Parent(0)
	require.NoError(t, err)
	return p.Hash.String()
}
