package git

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// The stash list is the reflog of refs/stash; go-git has no stash API, so
// the entries are read straight from the log file in the git directory.
const stashLog = "logs/refs/stash"

// StashEntry is one stashed change-set. Index 0 is the most recent entry,
// matching stash@{0}.
type StashEntry struct {
	Index   int
	Message string
}

// StashIter walks the stash list newest-first. It is restartable: Reset
// rewinds to the first entry without re-reading the store.
type StashIter struct {
	entries []StashEntry
	pos     int
}

// Stashes opens an iterator over the repository's stash entries. A
// repository that never stashed has no reflog, which yields an empty
// iterator; a reflog that exists but cannot be read or parsed is fatal.
func (s *Service) Stashes() (*StashIter, error) {
	fs, err := s.gitDirFS()
	if err != nil {
		return nil, err
	}
	f, err := fs.Open(stashLog)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &StashIter{}, nil
		}
		slog.Error("open stash reflog", slog.Any("error", err))
		return nil, fmt.Errorf("open stash reflog: %w", err)
	}
	defer f.Close()
	entries, err := parseStashLog(f)
	if err != nil {
		slog.Error("parse stash reflog", slog.Any("error", err))
		return nil, fmt.Errorf("parse stash reflog: %w", err)
	}
	return &StashIter{entries: entries}, nil
}

// NumStashes counts stashed change-sets by folding over the stash iterator.
func (s *Service) NumStashes() (int, error) {
	iter, err := s.Stashes()
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		if _, err := iter.Next(); err != nil {
			if err == io.EOF {
				return n, nil
			}
			return 0, err
		}
		n++
	}
}

func (it *StashIter) Next() (StashEntry, error) {
	if it.pos >= len(it.entries) {
		return StashEntry{}, io.EOF
	}
	entry := it.entries[it.pos]
	it.pos++
	return entry, nil
}

func (it *StashIter) Reset() {
	it.pos = 0
}

// parseStashLog reads reflog lines of the form
// "<old> <new> <ident> <timestamp> <tz>\t<message>". The reflog appends new
// entries at the end, so the last line is stash@{0}.
func parseStashLog(r io.Reader) ([]StashEntry, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	entries := make([]StashEntry, 0, len(lines))
	for i, line := range lines {
		message := ""
		if tab := strings.IndexByte(line, '\t'); tab >= 0 {
			message = line[tab+1:]
		}
		entries = append(entries, StashEntry{Index: len(lines) - 1 - i, Message: message})
	}
	slices.Reverse(entries)
	return entries, nil
}
