package vcs

import "errors"

// Errors returned by repository operations.
//
// Operations wrap these together with the offending path or URL and the
// underlying cause, so both can be checked with errors.Is():
//
//	if errors.Is(err, vcs.ErrRepositoryNotSet) {
//	    // ask the user to run `pinbox config git.repository <url>`
//	}
var (
	// ErrRepositoryNotSet is returned when a clone is needed but no
	// remote URL is configured.
	ErrRepositoryNotSet = errors.New("repository not set, please use pinbox config git.repository <url>")

	// ErrClone is returned when cloning the remote fails.
	ErrClone = errors.New("failed to clone repository")

	// ErrOpen is returned when an existing working copy cannot be opened.
	ErrOpen = errors.New("failed to open repository")

	// ErrRemoteNotFound is returned when the named remote is not
	// configured in the working copy.
	ErrRemoteNotFound = errors.New("remote not found")

	// ErrTokenNotSet is returned when the transport asks for credentials
	// and no token is configured.
	ErrTokenNotSet = errors.New("token not set, please use pinbox config git.token <token>")

	// ErrAuthUnsupported is returned when the transport asks for a
	// credential type other than plaintext username/password.
	ErrAuthUnsupported = errors.New("can not auth")

	// ErrAuthFailed is returned when the remote rejects the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBranchMismatch is returned when the checked out branch is not
	// the branch pinbox pushes.
	ErrBranchMismatch = errors.New("checked out branch is not " + DefaultBranch)

	// ErrCommit is returned when staging or committing fails.
	ErrCommit = errors.New("failed to commit")

	// ErrPush is returned when a push fails for any other reason.
	ErrPush = errors.New("failed to push")

	// ErrPushRejected is returned when the remote refuses a
	// non-fast-forward update.
	ErrPushRejected = errors.New("push rejected by remote")
)

// IsUserActionRequired returns true if the error is fixed by changing
// pinbox configuration (remote URL or token) rather than by retrying.
func IsUserActionRequired(err error) bool {
	if err == nil {
		return false
	}

	// Nothing to clone from
	if errors.Is(err, ErrRepositoryNotSet) {
		return true
	}

	// Credentials missing or wrong
	if errors.Is(err, ErrTokenNotSet) || errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrAuthUnsupported) {
		return true
	}

	// Remote history moved on
	if errors.Is(err, ErrPushRejected) {
		return true
	}

	return false
}

// IsFatal returns true if the working copy itself is unusable and needs
// manual repair or removal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrOpen) {
		return true
	}

	if errors.Is(err, ErrRemoteNotFound) {
		return true
	}

	if errors.Is(err, ErrBranchMismatch) {
		return true
	}

	return false
}
