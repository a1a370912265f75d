package git

import "github.com/go-git/go-billy/v5"

// RepoState identifies the multi-step operation a repository is in the
// middle of, if any.
type RepoState uint8

const (
	StateNone RepoState = iota
	StateMerge
	StateRevert
	StateRevertSequence
	StateCherryPick
	StateCherryPickSequence
	StateBisect
	StateRebase
	StateRebaseInteractive
	StateRebaseMerge
	StateApplyMailbox
	StateApplyMailboxOrRebase
	// StateOther covers operation markers this version does not know about.
	StateOther
)

// Tag returns the action tag shown in prompts. These names mostly match
// gitaction in zsh's vcs_info. Unknown states map to "action", never to an
// error.
func (st RepoState) Tag() string {
	switch st {
	case StateNone:
		return ""
	case StateMerge:
		return "merge"
	case StateRevert:
		return "revert"
	case StateRevertSequence:
		return "revert-seq"
	case StateCherryPick:
		return "cherry"
	case StateCherryPickSequence:
		return "cherry-seq"
	case StateBisect:
		return "bisect"
	case StateRebase:
		return "rebase"
	case StateRebaseInteractive:
		return "rebase-i"
	case StateRebaseMerge:
		return "rebase-m"
	case StateApplyMailbox:
		return "am"
	case StateApplyMailboxOrRebase:
		return "am/rebase"
	}
	return "action"
}

// State classifies the repository's in-progress operation from the marker
// files in its git directory. The checks follow the precedence git itself
// uses when deciding what operation is underway: rebase variants first, then
// merge, the sequencer operations, and bisect.
func (s *Service) State() (RepoState, error) {
	fs, err := s.gitDirFS()
	if err != nil {
		return StateNone, err
	}
	switch {
	case fileExists(fs, "rebase-merge/interactive"):
		return StateRebaseInteractive, nil
	case dirExists(fs, "rebase-merge"):
		return StateRebaseMerge, nil
	case fileExists(fs, "rebase-apply/rebasing"):
		return StateRebase, nil
	case fileExists(fs, "rebase-apply/applying"):
		return StateApplyMailbox, nil
	case dirExists(fs, "rebase-apply"):
		return StateApplyMailboxOrRebase, nil
	case fileExists(fs, "MERGE_HEAD"):
		return StateMerge, nil
	case fileExists(fs, "REVERT_HEAD"):
		if fileExists(fs, "sequencer/todo") {
			return StateRevertSequence, nil
		}
		return StateRevert, nil
	case fileExists(fs, "CHERRY_PICK_HEAD"):
		if fileExists(fs, "sequencer/todo") {
			return StateCherryPickSequence, nil
		}
		return StateCherryPick, nil
	case fileExists(fs, "BISECT_LOG"):
		return StateBisect, nil
	}
	return StateNone, nil
}

func fileExists(fs billy.Filesystem, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(fs billy.Filesystem, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}
