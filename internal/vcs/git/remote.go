package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	"github.com/pinbox/pinbox/internal/vcs"
)

// Remote returns the configured remote called name.
func (r *Repo) Remote(name string) (vcs.RemoteInfo, error) {
	remote, err := r.lookupRemote(name)
	if err != nil {
		return vcs.RemoteInfo{}, err
	}

	return vcs.RemoteInfo{
		Name: name,
		URL:  remote.Config().URLs[0],
	}, nil
}

// Push pushes the branch named in opts to the same branch on the remote.
//
// Credentials are resolved against the remote URL only when pushing; an
// up-to-date remote is not an error.
func (r *Repo) Push(ctx context.Context, opts vcs.PushOptions) error {
	name := opts.RemoteName()

	remote, err := r.lookupRemote(name)
	if err != nil {
		return err
	}
	url := remote.Config().URLs[0]

	auth, err := PrepareAuth(url, opts.Credentials)
	if err != nil {
		return fmt.Errorf("push to %s: %w", name, err)
	}

	err = remote.PushContext(ctx, &gogit.PushOptions{
		RemoteName: name,
		RefSpecs:   []config.RefSpec{config.RefSpec(opts.RefSpec())},
		Auth:       auth,
	})
	if err == nil || errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return nil
	}

	err = classifyTransportError(err)
	switch {
	case errors.Is(err, vcs.ErrAuthFailed):
		return fmt.Errorf("push to %s: %w", url, err)
	case errors.Is(err, gogit.ErrForceNeeded), strings.Contains(err.Error(), "non-fast-forward"):
		return fmt.Errorf("%w %s: %w", vcs.ErrPushRejected, url, err)
	default:
		return fmt.Errorf("%w %s: %w", vcs.ErrPush, url, err)
	}
}

func (r *Repo) lookupRemote(name string) (*gogit.Remote, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return nil, fmt.Errorf("%w: %q in %s", vcs.ErrRemoteNotFound, name, r.path)
		}
		return nil, fmt.Errorf("failed to read remote %q: %w", name, err)
	}

	if len(remote.Config().URLs) == 0 {
		return nil, fmt.Errorf("%w: %q has no URL", vcs.ErrRemoteNotFound, name)
	}
	return remote, nil
}
