package git

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const headPrefix = "refs/heads/"

// Head returns the resolved HEAD reference.
//
// A repository without a HEAD reference yields (nil, nil). When HEAD is
// symbolic but cannot be resolved (unborn branch, no commits yet) the
// symbolic reference itself is returned: its target still names the branch
// the repository is on. Any other lookup failure indicates store corruption
// and is fatal.
func (s *Service) Head() (*plumbing.Reference, error) {
	symbolic, err := s.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		slog.Error("reference lookup", slog.String("name", plumbing.HEAD.String()), slog.Any("error", err))
		return nil, fmt.Errorf("lookup HEAD: %w", err)
	}
	if symbolic.Type() == plumbing.HashReference {
		return symbolic, nil
	}
	direct, err := s.repo.Reference(plumbing.HEAD, true)
	if err != nil {
		slog.Debug("empty repository, HEAD unresolved", slog.String("target", symbolic.Target().String()))
		return symbolic, nil
	}
	return direct, nil
}

// LocalBranchName extracts the branch name a reference stands for.
//
// A direct reference yields its short name only when it lives in the branch
// namespace; a symbolic reference yields the suffix after "refs/heads/" when
// present (the unborn-branch case). Everything else is "". A reference of
// invalid type means the store handed back something it never should, which
// is fatal.
func LocalBranchName(ref *plumbing.Reference) (string, error) {
	switch ref.Type() {
	case plumbing.HashReference:
		if ref.Name().IsBranch() {
			return ref.Name().Short(), nil
		}
		return "", nil
	case plumbing.SymbolicReference:
		if rest, ok := strings.CutPrefix(ref.Target().String(), headPrefix); ok {
			return rest, nil
		}
		return "", nil
	}
	slog.Error("invalid reference type", slog.Int("type", int(ref.Type())), slog.String("name", ref.Name().String()))
	return "", fmt.Errorf("invalid reference type %d for %s", ref.Type(), ref.Name())
}
