package git

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const stashLine = "0000000000000000000000000000000000000000 1111111111111111111111111111111111111111 " +
	"Test <test@example.com> 1714564800 +0000\t"

func writeStashLog(t *testing.T, dir string, messages ...string) {
	t.Helper()
	logDir := filepath.Join(dir, ".git", "logs", "refs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", logDir, err)
	}
	var b strings.Builder
	for _, message := range messages {
		b.WriteString(stashLine + message + "\n")
	}
	if err := os.WriteFile(filepath.Join(logDir, "stash"), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write stash log: %v", err)
	}
}

func TestNumStashes_NoReflog(t *testing.T) {
	svc, _ := initTestRepo(t)
	commitFile(t, svc, "a.txt", "a", "first")

	got, err := svc.NumStashes()
	if err != nil {
		t.Fatalf("NumStashes() error = %v", err)
	}
	if got != 0 {
		t.Fatalf("NumStashes() = %d, want 0", got)
	}
}

func TestNumStashes_CountsEntries(t *testing.T) {
	svc, dir := initTestRepo(t)
	commitFile(t, svc, "a.txt", "a", "first")
	writeStashLog(t, dir,
		"WIP on main: aaaaaaa first",
		"WIP on main: bbbbbbb second",
		"On main: named stash",
	)

	got, err := svc.NumStashes()
	if err != nil {
		t.Fatalf("NumStashes() error = %v", err)
	}
	if got != 3 {
		t.Fatalf("NumStashes() = %d, want 3", got)
	}
}

func TestStashes_NewestFirstAndRestartable(t *testing.T) {
	svc, dir := initTestRepo(t)
	commitFile(t, svc, "a.txt", "a", "first")
	writeStashLog(t, dir,
		"WIP on main: aaaaaaa oldest",
		"On main: newest",
	)

	iter, err := svc.Stashes()
	if err != nil {
		t.Fatalf("Stashes() error = %v", err)
	}
	first, err := iter.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if first.Index != 0 || first.Message != "On main: newest" {
		t.Fatalf("first entry = %+v, want index 0 with newest message", first)
	}
	second, err := iter.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if second.Index != 1 || second.Message != "WIP on main: aaaaaaa oldest" {
		t.Fatalf("second entry = %+v, want index 1 with oldest message", second)
	}
	if _, err := iter.Next(); err != io.EOF {
		t.Fatalf("Next() after exhaustion = %v, want io.EOF", err)
	}

	iter.Reset()
	again, err := iter.Next()
	if err != nil {
		t.Fatalf("Next() after Reset error = %v", err)
	}
	if again != first {
		t.Fatalf("entry after Reset = %+v, want %+v", again, first)
	}
}

func TestParseStashLog_SkipsBlankLines(t *testing.T) {
	t.Parallel()

	entries, err := parseStashLog(strings.NewReader(stashLine + "one\n\n" + stashLine + "two\n"))
	if err != nil {
		t.Fatalf("parseStashLog() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Message != "two" || entries[1].Message != "one" {
		t.Fatalf("entries = %+v, want newest first", entries)
	}
}
