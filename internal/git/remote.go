package git

import (
	"errors"
	"fmt"
	"log/slog"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RemoteURL returns the fetch URL of the remote tracked by ref's branch.
// No tracking remote, a remote that does not exist, and a remote without any
// URL all yield "": local-only branches are a steady state, not an error.
func (s *Service) RemoteURL(ref *plumbing.Reference) (string, error) {
	branch, err := s.trackingConfig(ref)
	if err != nil || branch == nil || branch.Remote == "." {
		return "", err
	}
	remote, err := s.repo.Remote(branch.Remote)
	if err != nil {
		if errors.Is(err, gitlib.ErrRemoteNotFound) {
			return "", nil
		}
		slog.Error("remote lookup", slog.String("remote", branch.Remote), slog.Any("error", err))
		return "", fmt.Errorf("remote %s: %w", branch.Remote, err)
	}
	// The first URL of a remote is its fetch URL.
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}
