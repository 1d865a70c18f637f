// Package git implements pinbox's working copy operations on top of go-git.
//
// A Repo pairs an opened repository with the directory it was opened from.
// It is owned by a single call chain and is not safe for concurrent use.
package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/pinbox/pinbox/internal/vcs"
)

// Repo is an opened local working copy.
type Repo struct {
	// repo is the go-git repository handle
	repo *gogit.Repository

	// path is the working directory
	path string
}

// Open opens the working copy at path. The directory itself must hold the
// .git directory; parents are not searched.
func Open(path string) (*Repo, error) {
	r, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", vcs.ErrOpen, path, err)
	}
	return &Repo{repo: r, path: path}, nil
}

// Clone clones opts.URL into opts.Directory. A remote without commits
// yields an unborn main branch tracking origin.
//
// Credentials are offered when the remote needs them and a token is set;
// otherwise the clone is anonymous.
func Clone(ctx context.Context, opts vcs.CloneOptions) (*Repo, error) {
	if opts.URL == "" {
		return nil, vcs.ErrRepositoryNotSet
	}

	// Public remotes clone without a token; go-git reports the
	// rejection if the remote wants one.
	auth, _ := PrepareAuth(opts.URL, opts.Credentials)

	r, err := gogit.PlainCloneContext(ctx, opts.Directory, false, &gogit.CloneOptions{
		URL:  opts.URL,
		Auth: auth,
	})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		return initEmpty(opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", vcs.ErrClone, opts.URL, classifyTransportError(err))
	}

	return &Repo{repo: r, path: opts.Directory}, nil
}

// initEmpty stands in for cloning a remote without commits: a fresh
// repository on an unborn main branch with origin pointing at the remote.
func initEmpty(opts vcs.CloneOptions) (*Repo, error) {
	r, err := gogit.PlainInitWithOptions(opts.Directory, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(vcs.DefaultBranch)},
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", vcs.ErrClone, opts.URL, err)
	}

	_, err = r.CreateRemote(&config.RemoteConfig{
		Name: vcs.DefaultRemote,
		URLs: []string{opts.URL},
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", vcs.ErrClone, opts.URL, err)
	}

	return &Repo{repo: r, path: opts.Directory}, nil
}

// Path returns the working directory.
func (r *Repo) Path() string {
	return r.path
}

// Repository exposes the underlying go-git handle.
func (r *Repo) Repository() *gogit.Repository {
	return r.repo
}

// Filesystem returns the working directory as seen by go-git. Paths are
// relative to the working copy root.
func (r *Repo) Filesystem() (billy.Filesystem, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	return wt.Filesystem, nil
}

// Head returns the commit hash HEAD points to, or "" for an unborn branch.
func (r *Repo) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// CurrentBranch returns the short name of the checked out branch, or ""
// when HEAD is detached.
func (r *Repo) CurrentBranch() (string, error) {
	ref, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	return ref.Target().Short(), nil
}
