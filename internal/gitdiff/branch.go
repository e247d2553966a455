package gitdiff

import (
	"context"
	"fmt"
	"strings"
)

// BranchNotFoundError reports a branch name that resolved neither directly
// nor under the remote alias. Name is the name as the user typed it.
type BranchNotFoundError struct {
	Name string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %q not found", e.Name)
}

// CompareError reports a diff failure between two successfully resolved
// references, e.g. unrelated histories.
type CompareError struct {
	Target string
	Base   string
	Err    error
}

func (e *CompareError) Error() string {
	return fmt.Sprintf("comparing %s...%s: %v", e.Base, e.Target, e.Err)
}

func (e *CompareError) Unwrap() error { return e.Err }

// BranchListError reports a failed branch listing, e.g. outside a
// repository.
type BranchListError struct {
	Err error
}

func (e *BranchListError) Error() string {
	return fmt.Sprintf("listing branches: %v", e.Err)
}

func (e *BranchListError) Unwrap() error { return e.Err }

// Resolve verifies that name refers to an existing reference. If direct
// verification fails and name does not already carry the remote alias
// prefix, it retries as <remote>/<name>; users type short branch names
// that may exist only as remote-tracking references. Both attempts
// failing yields a *BranchNotFoundError.
func (c *Collector) Resolve(ctx context.Context, root, name string) (string, error) {
	if _, err := c.git.Run(ctx, root, "rev-parse", "--verify", name); err == nil {
		return name, nil
	}

	if !strings.HasPrefix(name, c.remote+"/") {
		remoteRef := c.remote + "/" + name
		if _, err := c.git.Run(ctx, root, "rev-parse", "--verify", remoteRef); err == nil {
			return remoteRef, nil
		}
	}

	return "", &BranchNotFoundError{Name: name}
}

// ListBranches returns all local and remote branch names, short form,
// de-duplicated by first occurrence. The synthetic <remote>/HEAD pointer
// is dropped and the remote alias prefix is stripped, so a branch present
// both locally and on the remote appears exactly once.
func (c *Collector) ListBranches(ctx context.Context, root string) ([]string, error) {
	out, err := c.git.Run(ctx, root, "branch", "--all", "--format=%(refname:short)")
	if err != nil {
		return nil, &BranchListError{Err: err}
	}

	seen := make(map[string]bool)
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || name == c.remote+"/HEAD" {
			continue
		}
		name = strings.TrimPrefix(name, c.remote+"/")
		if !seen[name] {
			seen[name] = true
			branches = append(branches, name)
		}
	}
	return branches, nil
}
