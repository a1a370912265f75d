package git

// Status is one repository snapshot as the prompt consumes it. Fields for
// absent facts stay at their zero value; absence is not an error.
type Status struct {
	// Branch is the current branch name, including the target branch of an
	// unborn HEAD. Empty when HEAD is detached.
	Branch string
	// Head is the full hash of the current commit. Empty on an unborn branch.
	Head     string
	Detached bool

	// Upstream is the short name of the tracked upstream, e.g. "origin/main".
	Upstream string
	Ahead    int
	Behind   int

	State RepoState

	Stashes int
	// LastStash is the message of the most recent stash entry, if any.
	LastStash string

	RemoteName   string
	RemoteBranch string
	RemoteURL    string
}

// RemoteBranch names a branch as the owning remote knows it.
type RemoteBranch struct {
	Name   string // remote name, e.g. "origin"
	Branch string // branch name on the remote, e.g. "main"
}
