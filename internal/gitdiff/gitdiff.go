package gitdiff

import (
	"context"
	"fmt"
	"strings"
)

// Section labels, fixed strings embedded verbatim in the review prompt.
const (
	LabelStaged   = "STAGED CHANGES"
	LabelUnstaged = "UNSTAGED CHANGES"
	LabelBranch   = "BRANCH DIFF"
)

// Section is one labeled block of raw diff text.
type Section struct {
	Label string
	Body  string
}

// Bundle is an ordered set of labeled diff sections built fresh per
// request. Sections with empty trimmed bodies are never included.
type Bundle struct {
	Sections []Section
}

// Empty reports whether the bundle has no sections at all.
func (b Bundle) Empty() bool {
	return len(b.Sections) == 0
}

// Text renders the bundle as labeled sections separated by blank lines.
func (b Bundle) Text() string {
	var sb strings.Builder
	for i, s := range b.Sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s.Label)
		sb.WriteString(":\n")
		sb.WriteString(s.Body)
		if !strings.HasSuffix(s.Body, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// GitRunner runs a git command in a working directory and returns stdout.
// Satisfied by *gitrun.Runner.
type GitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// Collector gathers diffs from a repository via a GitRunner.
type Collector struct {
	git    GitRunner
	remote string
}

// NewCollector creates a Collector. remote is the alias used for the
// remote-tracking fallback in branch resolution; empty means "origin".
func NewCollector(git GitRunner, remote string) *Collector {
	if remote == "" {
		remote = "origin"
	}
	return &Collector{git: git, remote: remote}
}

// WorkingChanges collects staged and unstaged diffs from the working tree
// at root. Sections appear in fixed STAGED, UNSTAGED order; a section
// whose body trims to empty is omitted. Both empty yields an empty bundle
// and nil error: nothing to review is not a failure.
func (c *Collector) WorkingChanges(ctx context.Context, root string) (Bundle, error) {
	staged, err := c.git.Run(ctx, root, "diff", "--cached")
	if err != nil {
		return Bundle{}, fmt.Errorf("collecting staged changes: %w", err)
	}
	unstaged, err := c.git.Run(ctx, root, "diff")
	if err != nil {
		return Bundle{}, fmt.Errorf("collecting unstaged changes: %w", err)
	}

	var bundle Bundle
	if strings.TrimSpace(staged) != "" {
		bundle.Sections = append(bundle.Sections, Section{Label: LabelStaged, Body: staged})
	}
	if strings.TrimSpace(unstaged) != "" {
		bundle.Sections = append(bundle.Sections, Section{Label: LabelUnstaged, Body: unstaged})
	}
	return bundle, nil
}

// BranchDiff collects a three-dot diff between two branches: the changes
// reachable from target but not from its common ancestor with base. Both
// names go through Resolve first, so short names that only exist as
// remote-tracking references still work.
func (c *Collector) BranchDiff(ctx context.Context, root, target, base string) (Bundle, error) {
	targetRef, err := c.Resolve(ctx, root, target)
	if err != nil {
		return Bundle{}, err
	}
	baseRef, err := c.Resolve(ctx, root, base)
	if err != nil {
		return Bundle{}, err
	}

	diff, err := c.git.Run(ctx, root, "diff", baseRef+"..."+targetRef)
	if err != nil {
		return Bundle{}, &CompareError{Target: targetRef, Base: baseRef, Err: err}
	}

	var bundle Bundle
	if strings.TrimSpace(diff) != "" {
		bundle.Sections = append(bundle.Sections, Section{Label: LabelBranch, Body: diff})
	}
	return bundle, nil
}
