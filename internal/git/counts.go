package git

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// CountRange counts the commits selected by an "exclude..include" range:
// those reachable from include but not from exclude. An endpoint that cannot
// be resolved to a commit is fatal.
func (s *Service) CountRange(rangeSpec string) (int, error) {
	exclude, include, ok := strings.Cut(rangeSpec, "..")
	if !ok || exclude == "" || include == "" {
		slog.Error("malformed revision range", slog.String("range", rangeSpec))
		return 0, fmt.Errorf("malformed revision range %q", rangeSpec)
	}
	excludeHash, err := s.resolveEndpoint(rangeSpec, exclude)
	if err != nil {
		return 0, err
	}
	includeHash, err := s.resolveEndpoint(rangeSpec, include)
	if err != nil {
		return 0, err
	}
	return s.countReachable(includeHash, excludeHash)
}

// AheadBehind reports how many commits local has that upstream does not and
// vice versa. The two counts are independent range queries with the
// endpoints swapped; identical endpoints yield 0, 0.
func (s *Service) AheadBehind(local, upstream *plumbing.Reference) (ahead, behind int, err error) {
	ahead, err = s.CountRange(fmt.Sprintf("%s..%s", upstream.Hash(), local.Hash()))
	if err != nil {
		return 0, 0, err
	}
	behind, err = s.CountRange(fmt.Sprintf("%s..%s", local.Hash(), upstream.Hash()))
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

func (s *Service) resolveEndpoint(rangeSpec, rev string) (plumbing.Hash, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		slog.Error("resolve revision",
			slog.String("range", rangeSpec),
			slog.String("rev", rev),
			slog.Any("error", err),
		)
		return plumbing.ZeroHash, fmt.Errorf("resolve %q in range %q: %w", rev, rangeSpec, err)
	}
	return *hash, nil
}

// countReachable marks everything reachable from exclude first, then counts
// the still-unvisited commits reachable from include. Marking the exclude
// side in full up front guarantees a commit reachable from both endpoints is
// never counted, no matter how many merge paths lead to it.
func (s *Service) countReachable(include, exclude plumbing.Hash) (int, error) {
	visited := make(map[plumbing.Hash]struct{})
	if err := s.walk(exclude, visited, nil); err != nil {
		return 0, err
	}
	count := 0
	if err := s.walk(include, visited, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// walk traverses parent edges breadth-first from a single seed. Commits are
// marked visited when enqueued, so each one is processed exactly once. The
// traversal is iterative: history depth is unbounded and must not be limited
// by the stack.
func (s *Service) walk(from plumbing.Hash, visited map[plumbing.Hash]struct{}, count *int) error {
	if _, ok := visited[from]; ok {
		return nil
	}
	visited[from] = struct{}{}
	queue := []plumbing.Hash{from}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]
		commit, err := s.repo.CommitObject(hash)
		if err != nil {
			slog.Error("commit lookup", slog.String("hash", hash.String()), slog.Any("error", err))
			return fmt.Errorf("commit %s: %w", hash, err)
		}
		if count != nil {
			*count++
		}
		for _, parent := range commit.ParentHashes {
			if _, ok := visited[parent]; ok {
				continue
			}
			visited[parent] = struct{}{}
			queue = append(queue, parent)
		}
	}
	return nil
}
