package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initTestRepo creates an empty on-disk repository with "main" as the
// default branch and returns a Service bound to it.
func initTestRepo(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	_, err := gitlib.PlainInitWithOptions(dir, &gitlib.PlainInitOptions{
		InitOptions: gitlib.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	svc, err := Open(dir)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	return svc, dir
}

func testSignature() *object.Signature {
	return &object.Signature{
		Name:  "Test",
		Email: "test@example.com",
		When:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// commitFile writes a file, stages it and commits it, returning the new
// commit hash.
func commitFile(t *testing.T, svc *Service, name, content, message string) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(svc.path, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	wt, err := svc.repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	hash, err := wt.Commit(message, &gitlib.CommitOptions{Author: testSignature()})
	if err != nil {
		t.Fatalf("commit %q: %v", message, err)
	}
	return hash
}

// mergeCommit records an empty commit with explicit parents, the shape git
// leaves behind after a merge.
func mergeCommit(t *testing.T, svc *Service, message string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	wt, err := svc.repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	hash, err := wt.Commit(message, &gitlib.CommitOptions{
		Author:            testSignature(),
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	if err != nil {
		t.Fatalf("merge commit %q: %v", message, err)
	}
	return hash
}

// checkoutNew creates branch name at start and leaves it checked out.
func checkoutNew(t *testing.T, svc *Service, name string, start plumbing.Hash) {
	t.Helper()
	wt, err := svc.repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	err = wt.Checkout(&gitlib.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Hash:   start,
		Create: true,
	})
	if err != nil {
		t.Fatalf("checkout -b %s: %v", name, err)
	}
}

func checkout(t *testing.T, svc *Service, name string) {
	t.Helper()
	wt, err := svc.repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.Checkout(&gitlib.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)}); err != nil {
		t.Fatalf("checkout %s: %v", name, err)
	}
}

// trackBranch wires branch to remote/branch tracking configuration and sets
// the remote-tracking reference to tip.
func trackBranch(t *testing.T, svc *Service, branch, remote string, tip plumbing.Hash) {
	t.Helper()
	err := svc.repo.CreateBranch(&config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	})
	if err != nil {
		t.Fatalf("create branch config %s: %v", branch, err)
	}
	name := plumbing.NewRemoteReferenceName(remote, branch)
	if err := svc.repo.Storer.SetReference(plumbing.NewHashReference(name, tip)); err != nil {
		t.Fatalf("set %s: %v", name, err)
	}
}

func createRemote(t *testing.T, svc *Service, name, url string) {
	t.Helper()
	_, err := svc.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		t.Fatalf("create remote %s: %v", name, err)
	}
}
