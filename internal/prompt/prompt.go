// Package prompt renders a repository status record as a single shell
// prompt segment.
package prompt

import (
	"fmt"
	"strings"

	"github.com/thiagokokada/gitprompt-go/internal/git"
)

// Options toggle the optional segments of the rendered line.
type Options struct {
	ShowRemoteURL    bool
	ShowStashMessage bool
}

// Render formats one status snapshot. The output is a stable, single-line
// segment; an empty string means there is nothing worth showing.
func Render(st git.Status, opts Options) string {
	var parts []string
	switch {
	case st.Branch != "":
		parts = append(parts, st.Branch)
	case st.Detached && st.Head != "":
		parts = append(parts, "@"+shortHash(st.Head))
	default:
		return ""
	}
	if st.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("⇡%d", st.Ahead))
	}
	if st.Behind > 0 {
		parts = append(parts, fmt.Sprintf("⇣%d", st.Behind))
	}
	if st.Stashes > 0 {
		segment := fmt.Sprintf("*%d", st.Stashes)
		if opts.ShowStashMessage && st.LastStash != "" {
			segment += " (" + st.LastStash + ")"
		}
		parts = append(parts, segment)
	}
	if tag := st.State.Tag(); tag != "" {
		parts = append(parts, "|"+tag)
	}
	if opts.ShowRemoteURL && st.RemoteURL != "" {
		parts = append(parts, "‹"+st.RemoteURL+"›")
	}
	return strings.Join(parts, " ")
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
