package git

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNoHead is returned by Status when the repository has no HEAD reference
// at all, which makes it unusable for status reporting.
var ErrNoHead = errors.New("repository has no HEAD")

// Service answers read-only status queries against one open repository.
//
// Every query reads fresh state; nothing is cached between calls. The
// zero-locking model matches go-git's read path: callers that share one
// Service across goroutines must serialize themselves.
type Service struct {
	repo *gitlib.Repository
	path string
}

func Open(repoPath string) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return &Service{repo: repo, path: abs}, nil
}

// IsNotRepository reports whether err from Open means the path is not inside
// a git repository, as opposed to a repository that failed to open.
func IsNotRepository(err error) bool {
	return errors.Is(err, gitlib.ErrRepositoryNotExists)
}

func (s *Service) RepoPath() string {
	return s.path
}

// gitDirFS returns the filesystem rooted at the repository's git directory.
// Operation markers and the stash reflog live there; go-git exposes neither
// through its porcelain API.
func (s *Service) gitDirFS() (billy.Filesystem, error) {
	st, ok := s.repo.Storer.(interface{ Filesystem() billy.Filesystem })
	if !ok {
		return nil, fmt.Errorf("repository storage has no filesystem")
	}
	return st.Filesystem(), nil
}

// Status gathers every prompt-relevant fact about the repository in one
// record. Soft absences (no upstream, no remote, unborn branch) leave their
// fields zero; any store-level failure aborts the whole query.
func (s *Service) Status() (Status, error) {
	var res Status

	head, err := s.Head()
	if err != nil {
		return res, err
	}
	if head == nil {
		return res, ErrNoHead
	}
	res.Branch, err = LocalBranchName(head)
	if err != nil {
		return res, err
	}
	if head.Type() == plumbing.HashReference {
		res.Head = head.Hash().String()
		res.Detached = res.Branch == ""
	}

	res.State, err = s.State()
	if err != nil {
		return res, err
	}

	stashes, err := s.Stashes()
	if err != nil {
		return res, err
	}
	for {
		entry, err := stashes.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
		if entry.Index == 0 {
			res.LastStash = entry.Message
		}
		res.Stashes++
	}

	if head.Type() != plumbing.HashReference || !head.Name().IsBranch() {
		return res, nil
	}
	upstream, err := s.Upstream(head)
	if err != nil {
		return res, err
	}
	if upstream != nil {
		res.Upstream = upstream.Name().Short()
		res.Ahead, res.Behind, err = s.AheadBehind(head, upstream)
		if err != nil {
			return res, err
		}
	}
	remote, err := s.Remote(head)
	if err != nil {
		return res, err
	}
	res.RemoteName = remote.Name
	res.RemoteBranch = remote.Branch
	res.RemoteURL, err = s.RemoteURL(head)
	if err != nil {
		return res, err
	}
	return res, nil
}
