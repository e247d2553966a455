package prompt

import (
	"fmt"
	"strings"

	"github.com/dshills/revu/internal/gitdiff"
)

const systemPrompt = `You are an experienced code reviewer. You review code diffs and respond with clear, constructive feedback in plain prose.

Rules:
1. Only review the changes shown in the diff. Do not comment on unchanged code.
2. Be specific: reference the files and hunks you are talking about.
3. Keep the tone constructive. Point out what is done well, not only problems.`

const reviewInstructions = `Please provide:

1. **Summary**: A brief overview of what the changes do.
2. **Potential Issues**: Bugs, edge cases, security or performance concerns.
3. **Best Practices**: Suggestions for improving code quality and maintainability.
4. **Positive Feedback**: What is done well in these changes.`

// BranchContext names the two sides of a branch comparison for the
// prompt's introductory sentence.
type BranchContext struct {
	Target string
	Base   string
}

// Build renders the fixed review template around a diff bundle. Pure and
// deterministic: identical inputs yield byte-identical prompt text. bctx
// is nil for working-tree reviews.
func Build(bundle gitdiff.Bundle, bctx *BranchContext) string {
	var b strings.Builder

	if bctx != nil {
		fmt.Fprintf(&b, "Review the following code changes on branch %q compared to %q.\n\n", bctx.Target, bctx.Base)
	} else {
		b.WriteString("Review the following code changes.\n\n")
	}

	b.WriteString(reviewInstructions)
	b.WriteString("\n\n```diff\n")
	b.WriteString(bundle.Text())
	b.WriteString("```\n")

	return b.String()
}

// SystemPrompt returns the system prompt sent alongside every review.
func SystemPrompt() string {
	return systemPrompt
}
