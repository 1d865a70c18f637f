package git

import (
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/pinbox/pinbox/internal/vcs"
)

// Fallback identity when git config provides none.
const (
	defaultAuthorName  = "pinbox"
	defaultAuthorEmail = "pinbox@localhost"
)

// Commit stages opts.Paths and commits them on the current branch.
// It returns the new commit hash.
func (r *Repo) Commit(opts vcs.CommitOptions) (string, error) {
	if opts.Message == "" {
		return "", fmt.Errorf("%w: commit message is required", vcs.ErrCommit)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%w: %w", vcs.ErrCommit, err)
	}

	for _, p := range opts.Paths {
		if _, err := wt.Add(p); err != nil {
			return "", fmt.Errorf("%w: git add %s: %w", vcs.ErrCommit, p, err)
		}
	}

	hash, err := wt.Commit(opts.Message, &gogit.CommitOptions{
		Author: r.signature(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", vcs.ErrCommit, err)
	}

	return hash.String(), nil
}

// ResetTo moves the current branch back to hash and resets the index,
// leaving files in the working directory untouched. An empty hash returns
// the current branch to unborn.
func (r *Repo) ResetTo(hash string) error {
	if hash == "" {
		return r.resetToUnborn()
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	err = wt.Reset(&gogit.ResetOptions{
		Commit: plumbing.NewHash(hash),
		Mode:   gogit.MixedReset,
	})
	if err != nil {
		return fmt.Errorf("git reset %s failed: %w", hash, err)
	}
	return nil
}

// resetToUnborn deletes the branch HEAD points to and empties the index.
func (r *Repo) resetToUnborn() error {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return fmt.Errorf("git reset to unborn: HEAD is detached at %s", head.Hash())
	}

	if err := r.repo.Storer.RemoveReference(head.Target()); err != nil {
		return fmt.Errorf("failed to delete %s: %w", head.Target(), err)
	}
	if err := r.repo.Storer.SetIndex(&index.Index{Version: 2}); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}
	return nil
}

// signature picks the author from git config, then defaults.
func (r *Repo) signature() *object.Signature {
	var name, email string
	if cfg, err := r.repo.ConfigScoped(config.GlobalScope); err == nil {
		name, email = cfg.User.Name, cfg.User.Email
	}

	if name == "" {
		name = defaultAuthorName
	}
	if email == "" {
		email = defaultAuthorEmail
	}

	return &object.Signature{
		Name:  name,
		Email: email,
		When:  time.Now(),
	}
}
