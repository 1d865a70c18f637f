package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/pinbox/pinbox/internal/appdir"
	"github.com/pinbox/pinbox/internal/config"
	"github.com/pinbox/pinbox/internal/vcs"
	"github.com/pinbox/pinbox/internal/vcs/git"
)

// lockRetryDelay is how often a blocked process retries the clone lock.
const lockRetryDelay = 50 * time.Millisecond

// ErrLock is returned when the working copy lock cannot be taken.
var ErrLock = errors.New("failed to lock working copy")

// Bootstrapper opens the local working copy, cloning it first when the
// directory is empty.
type Bootstrapper struct {
	dirs   *appdir.Dirs
	store  *config.Store
	logger *zap.Logger
}

// NewBootstrapper creates a Bootstrapper. A nil logger disables logging.
func NewBootstrapper(dirs *appdir.Dirs, store *config.Store, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{
		dirs:   dirs,
		store:  store,
		logger: logger.Named("bootstrap"),
	}
}

// EnsureRepository returns the opened working copy and its path.
//
// An empty directory is cloned from the configured repository; anything
// else is opened as an existing working copy. Concurrent callers are
// serialized by a lock file next to the working copy.
func (b *Bootstrapper) EnsureRepository(ctx context.Context) (*git.Repo, string, error) {
	dir, err := b.dirs.RepoDir()
	if err != nil {
		return nil, "", err
	}

	unlock, err := b.lock(ctx)
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	empty, err := appdir.IsEmptyDir(dir)
	if err != nil {
		return nil, "", fmt.Errorf("%w %s: %w", vcs.ErrOpen, dir, err)
	}

	if !empty {
		if _, err := vcs.Detect(dir); err != nil {
			return nil, "", fmt.Errorf("%w %s: %w", vcs.ErrOpen, dir, err)
		}

		b.logger.Debug("opening working copy", zap.String("path", dir))
		repo, err := git.Open(dir)
		if err != nil {
			return nil, "", err
		}
		return repo, dir, nil
	}

	cfg, err := b.store.LoadOptional()
	if err != nil {
		return nil, "", err
	}
	if !cfg.HasRepository() {
		return nil, "", vcs.ErrRepositoryNotSet
	}

	url := cfg.Repository.String()
	b.logger.Info("cloning working copy", zap.String("url", url), zap.String("path", dir))

	repo, err := git.Clone(ctx, vcs.CloneOptions{
		URL:         url,
		Directory:   dir,
		Credentials: vcs.TokenCredentials(cfg.TokenValue()),
	})
	if err != nil {
		return nil, "", err
	}
	return repo, dir, nil
}

func (b *Bootstrapper) lock(ctx context.Context) (func(), error) {
	path, err := b.dirs.LockFile()
	if err != nil {
		return nil, err
	}

	fl := flock.New(path)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrLock, path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w %s", ErrLock, path)
	}

	return func() {
		if err := fl.Unlock(); err != nil {
			b.logger.Warn("failed to release lock", zap.String("path", path), zap.Error(err))
		}
	}, nil
}
