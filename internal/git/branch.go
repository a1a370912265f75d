package git

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

// trackingConfig returns the tracking section of ref's branch, or nil when
// the reference is not a branch or the branch has no complete tracking
// configuration. Only storer-level read failures are errors; a missing or
// half-filled [branch] section is a normal state of a real repository.
func (s *Service) trackingConfig(ref *plumbing.Reference) (*config.Branch, error) {
	if !ref.Name().IsBranch() {
		return nil, nil
	}
	branch, err := s.repo.Branch(ref.Name().Short())
	if err != nil {
		if errors.Is(err, gitlib.ErrBranchNotFound) {
			return nil, nil
		}
		slog.Error("branch config lookup", slog.String("branch", ref.Name().Short()), slog.Any("error", err))
		return nil, fmt.Errorf("branch config %s: %w", ref.Name().Short(), err)
	}
	if branch.Remote == "" || branch.Merge == "" {
		return nil, nil
	}
	return branch, nil
}

// upstreamName maps tracking configuration to the local name of the tracked
// reference: refs/remotes/<remote>/<branch>, or the merge target itself when
// the remote is "." (a branch tracking another local branch). A merge value
// outside refs/heads/ is a misconfiguration, reported as absence.
func upstreamName(branch *config.Branch) (plumbing.ReferenceName, bool) {
	if !branch.Merge.IsBranch() {
		return "", false
	}
	if branch.Remote == "." {
		return branch.Merge, true
	}
	return plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short()), true
}

// Upstream resolves the upstream reference tracked by a local branch.
// No upstream configured, an invalid tracking spec, and a tracking ref that
// does not exist locally all yield (nil, nil).
func (s *Service) Upstream(ref *plumbing.Reference) (*plumbing.Reference, error) {
	branch, err := s.trackingConfig(ref)
	if err != nil || branch == nil {
		return nil, err
	}
	name, ok := upstreamName(branch)
	if !ok {
		slog.Debug("ignoring invalid tracking spec",
			slog.String("branch", branch.Name),
			slog.String("merge", branch.Merge.String()),
		)
		return nil, nil
	}
	upstream, err := s.repo.Reference(name, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		slog.Error("upstream lookup", slog.String("name", name.String()), slog.Any("error", err))
		return nil, fmt.Errorf("resolve upstream %s: %w", name, err)
	}
	return upstream, nil
}

// Remote reports which remote owns ref's branch and the branch's name on
// that remote, such that Name + "/" + Branch reconstructs the upstream short
// name exactly. A non-branch reference or a branch without a remote yields
// the zero value. A tracking name that does not start with "<remote>/"
// violates the tracking format and is fatal.
func (s *Service) Remote(ref *plumbing.Reference) (RemoteBranch, error) {
	branch, err := s.trackingConfig(ref)
	if err != nil || branch == nil || branch.Remote == "." {
		return RemoteBranch{}, err
	}
	name, ok := upstreamName(branch)
	if !ok {
		return RemoteBranch{}, nil
	}
	short := name.Short()
	rest, ok := strings.CutPrefix(short, branch.Remote+"/")
	if !ok {
		slog.Error("tracking name not under remote",
			slog.String("tracking", short),
			slog.String("remote", branch.Remote),
		)
		return RemoteBranch{}, fmt.Errorf("tracking ref %s not under remote %s", short, branch.Remote)
	}
	return RemoteBranch{Name: branch.Remote, Branch: rest}, nil
}
