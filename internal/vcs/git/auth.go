package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/pinbox/pinbox/internal/vcs"
)

// PrepareAuth resolves the transport credentials for rawURL.
//
//   - file remotes never request credentials: nil, nil
//   - http(s) remotes request plaintext credentials: the token is sent as
//     the password, with the URL's user (or "git") as the username
//   - every other transport requests a credential type pinbox cannot
//     supply: ErrAuthUnsupported
func PrepareAuth(rawURL string, creds vcs.Credentials) (transport.AuthMethod, error) {
	ep, err := transport.NewEndpoint(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL %s: %w", rawURL, err)
	}

	switch ep.Protocol {
	case "file":
		return nil, nil

	case "http", "https":
		if !creds.HasToken() {
			return nil, vcs.ErrTokenNotSet
		}

		username := ep.User
		if username == "" {
			username = vcs.DefaultUsername
		}

		return &http.BasicAuth{
			Username: username,
			Password: *creds.Token,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s remotes need key based credentials", vcs.ErrAuthUnsupported, ep.Protocol)
	}
}

// classifyTransportError tags credential rejections with ErrAuthFailed.
func classifyTransportError(err error) error {
	if errors.Is(err, transport.ErrAuthenticationRequired) || errors.Is(err, transport.ErrAuthorizationFailed) {
		return fmt.Errorf("%w: %w", vcs.ErrAuthFailed, err)
	}
	return err
}
