// Package vcs holds the version control vocabulary shared by pinbox
// components: remote and branch defaults, operation options, credentials
// and the error taxonomy.
//
// The git implementation lives in internal/vcs/git and is built on go-git,
// so no git binary is required at runtime.
//
// # Usage
//
//	repo, err := git.Clone(ctx, vcs.CloneOptions{
//	    URL:       "https://example.com/u/notes.git",
//	    Directory: dir,
//	})
//	if err != nil {
//	    return err
//	}
//
//	err = repo.Push(ctx, vcs.PushOptions{
//	    Credentials: vcs.TokenCredentials(token, ok),
//	})
package vcs

import "fmt"

const (
	// DefaultRemote is the only remote pinbox clones from and pushes to.
	DefaultRemote = "origin"

	// DefaultBranch is the only branch pinbox pushes.
	DefaultBranch = "main"

	// DefaultUsername is sent with a token when the remote URL carries
	// no user.
	DefaultUsername = "git"
)

// BranchRef returns the full reference name of a local branch.
func BranchRef(branch string) string {
	return "refs/heads/" + branch
}

// Credentials supplies plaintext credentials to a transport on demand.
//
// Token is optional. Transports that never ask for credentials (local
// file remotes) work without one; asking for a missing token yields
// ErrTokenNotSet.
type Credentials struct {
	// Token is used as the password.
	Token *string
}

// TokenCredentials builds Credentials from an optional token.
func TokenCredentials(token string, ok bool) Credentials {
	if !ok {
		return Credentials{}
	}
	return Credentials{Token: &token}
}

// HasToken reports whether a token is available.
func (c Credentials) HasToken() bool {
	return c.Token != nil
}

// String never reveals the token.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Token: %s}", redacted(c.Token))
}

func redacted(token *string) string {
	if token == nil {
		return "<unset>"
	}
	return "<redacted>"
}

// RemoteInfo describes a configured remote.
type RemoteInfo struct {
	// Name is the remote name (e.g., "origin")
	Name string

	// URL is the first configured URL
	URL string
}

// CloneOptions configures a clone.
type CloneOptions struct {
	// URL is the remote to clone.
	URL string

	// Directory is the destination; it must be empty or absent.
	Directory string

	// Credentials are used for remotes that request them. A missing token
	// falls back to an anonymous clone.
	Credentials Credentials
}

// CommitOptions configures a commit.
type CommitOptions struct {
	// Message is the commit message (required)
	Message string

	// Paths are staged before committing, relative to the working copy.
	Paths []string
}

// PushOptions configures a push.
type PushOptions struct {
	// Remote is the remote name. Empty uses DefaultRemote.
	Remote string

	// Branch is the branch pushed to the same name on the remote.
	// Empty uses DefaultBranch.
	Branch string

	// Credentials are resolved when the transport needs them.
	Credentials Credentials
}

// RemoteName returns the remote to push to.
func (o PushOptions) RemoteName() string {
	if o.Remote == "" {
		return DefaultRemote
	}
	return o.Remote
}

// BranchName returns the branch to push.
func (o PushOptions) BranchName() string {
	if o.Branch == "" {
		return DefaultBranch
	}
	return o.Branch
}

// RefSpec returns the refspec pushing BranchName to the same name.
func (o PushOptions) RefSpec() string {
	ref := BranchRef(o.BranchName())
	return ref + ":" + ref
}
