package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/pinbox/pinbox/internal/category"
	"github.com/pinbox/pinbox/internal/config"
	"github.com/pinbox/pinbox/internal/vcs"
	"github.com/pinbox/pinbox/internal/vcs/git"
)

// seedMessage is the commit message used when seeding the manifest.
const seedMessage = "Add default categories"

var (
	// ErrReadManifest is returned when the manifest cannot be read.
	ErrReadManifest = errors.New("failed to read categories")

	// ErrWriteManifest is returned when the default manifest cannot be
	// written.
	ErrWriteManifest = errors.New("failed to write categories")
)

// Synchronizer reads the category manifest of a working copy.
type Synchronizer struct {
	store  *config.Store
	logger *zap.Logger
}

// NewSynchronizer creates a Synchronizer. A nil logger disables logging.
func NewSynchronizer(store *config.Store, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		store:  store,
		logger: logger.Named("categories"),
	}
}

// ManifestPath returns the manifest location inside the working copy.
func ManifestPath(repo *git.Repo) string {
	return filepath.Join(repo.Path(), category.ManifestFileName)
}

// GetCategories returns the categories stored in repo.
//
// When the manifest is missing it is seeded with category.Default(),
// committed and pushed to origin before being read back. A failed push
// leaves the working copy as it was, so the next call seeds again.
func (s *Synchronizer) GetCategories(ctx context.Context, repo *git.Repo) (category.Categories, error) {
	path := ManifestPath(repo)

	wfs, err := repo.Filesystem()
	if err != nil {
		return category.Categories{}, fmt.Errorf("%w %s: %w", ErrReadManifest, path, err)
	}

	_, err = wfs.Stat(category.ManifestFileName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.seed(ctx, repo, wfs, path); err != nil {
			return category.Categories{}, err
		}
	case err != nil:
		return category.Categories{}, fmt.Errorf("%w %s: %w", ErrReadManifest, path, err)
	}

	data, err := util.ReadFile(wfs, category.ManifestFileName)
	if err != nil {
		return category.Categories{}, fmt.Errorf("%w %s: %w", ErrReadManifest, path, err)
	}

	cats, err := category.Decode(data)
	if err != nil {
		return category.Categories{}, fmt.Errorf("%s: %w", path, err)
	}
	s.logger.Debug("read categories", zap.String("path", path), zap.Int("count", cats.Len()))
	return cats, nil
}

func (s *Synchronizer) seed(ctx context.Context, repo *git.Repo, wfs billy.Filesystem, path string) error {
	cfg, err := s.store.LoadOptional()
	if err != nil {
		return err
	}

	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	if branch != vcs.DefaultBranch {
		return fmt.Errorf("%w: %s has %q checked out", vcs.ErrBranchMismatch, repo.Path(), branch)
	}

	// Empty for an unborn branch; ResetTo("") restores that state.
	prev, err := repo.Head()
	if err != nil {
		return err
	}

	data, err := category.Encode(category.Default())
	if err != nil {
		return err
	}

	if err := util.WriteFile(wfs, category.ManifestFileName, data, 0o644); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteManifest, path, err)
	}
	s.logger.Info("seeded default categories", zap.String("path", path))

	committed, err := s.publish(ctx, repo, cfg)
	if err != nil {
		s.discard(repo, wfs, prev, committed)
		return err
	}
	return nil
}

// publish commits the manifest and pushes it. It reports whether a commit
// was created.
func (s *Synchronizer) publish(ctx context.Context, repo *git.Repo, cfg *config.Config) (bool, error) {
	remote, err := repo.Remote(vcs.DefaultRemote)
	if err != nil {
		return false, err
	}

	hash, err := repo.Commit(vcs.CommitOptions{
		Message: seedMessage,
		Paths:   []string{category.ManifestFileName},
	})
	if err != nil {
		return false, err
	}
	s.logger.Debug("committed categories", zap.String("commit", hash))

	err = repo.Push(ctx, vcs.PushOptions{
		Remote:      remote.Name,
		Branch:      vcs.DefaultBranch,
		Credentials: vcs.TokenCredentials(cfg.TokenValue()),
	})
	if err != nil {
		return true, err
	}

	s.logger.Info("pushed categories", zap.String("remote", remote.URL), zap.String("commit", hash))
	return true, nil
}

// discard undoes a failed seed. When committed is set the branch is first
// moved back to prev.
func (s *Synchronizer) discard(repo *git.Repo, wfs billy.Filesystem, prev string, committed bool) {
	if committed {
		if err := repo.ResetTo(prev); err != nil {
			s.logger.Warn("failed to undo seed commit", zap.String("commit", prev), zap.Error(err))
		}
	}
	err := wfs.Remove(category.ManifestFileName)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove seeded categories", zap.String("path", ManifestPath(repo)), zap.Error(err))
	}
}
