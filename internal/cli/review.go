package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dshills/revu/internal/config"
	"github.com/dshills/revu/internal/gitdiff"
	"github.com/dshills/revu/internal/gitrun"
	"github.com/dshills/revu/internal/prompt"
	"github.com/dshills/revu/internal/providers"
	"github.com/dshills/revu/internal/redact"
	"github.com/dshills/revu/internal/relay"
	"github.com/spf13/cobra"
)

// Shared review flags
var (
	flagProvider     string
	flagModel        string
	flagRemote       string
	flagMaxTokens    int
	flagMaxDiffBytes int
	flagNoRedact     bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "Model provider (anthropic, openai, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagRemote, "remote", "", "Remote alias for branch resolution (default origin)")
	cmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Maximum response tokens")
	cmd.Flags().IntVar(&flagMaxDiffBytes, "max-diff-bytes", 0, "Refuse diffs larger than this many bytes (default 10 MiB)")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagRemote != "" {
		m["remote"] = flagRemote
	}
	if flagMaxTokens > 0 {
		m["maxTokens"] = fmt.Sprintf("%d", flagMaxTokens)
	}
	if flagMaxDiffBytes > 0 {
		m["maxDiffBytes"] = fmt.Sprintf("%d", flagMaxDiffBytes)
	}
	return m
}

func newCollector(cfg config.Config) *gitdiff.Collector {
	return gitdiff.NewCollector(&gitrun.Runner{MaxOutput: cfg.MaxDiffBytes}, cfg.Remote)
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review working tree changes",
	Long:  "Review staged and unstaged changes, streaming the model's response to stdout. Use the branch subcommand to review a branch comparison instead.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		bundle, err := newCollector(cfg).WorkingChanges(ctx, "")
		if err != nil {
			reportDiffError(err)
			return nil
		}
		if bundle.Empty() {
			fmt.Fprintln(os.Stdout, "Nothing to review: no staged or unstaged changes.")
			return nil
		}

		streamReview(ctx, cfg, bundle, nil)
		return nil
	},
}

var reviewBranchCmd = &cobra.Command{
	Use:   "branch <target> [base]",
	Short: "Review changes on a branch compared to a base branch",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		target := args[0]
		base := cfg.BaseBranch
		if len(args) == 2 {
			base = args[1]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		collector := newCollector(cfg)
		bundle, err := collector.BranchDiff(ctx, "", target, base)
		if err != nil {
			var nfe *gitdiff.BranchNotFoundError
			if errors.As(err, &nfe) {
				fail(ExitUsageError, "%s%s", nfe.Error(), branchHint(ctx, collector))
				return nil
			}
			reportDiffError(err)
			return nil
		}
		if bundle.Empty() {
			fmt.Fprintf(os.Stdout, "Nothing to review: no changes on %q compared to %q.\n", target, base)
			return nil
		}

		streamReview(ctx, cfg, bundle, &prompt.BranchContext{Target: target, Base: base})
		return nil
	},
}

// streamReview builds the prompt, submits it, and relays response
// fragments to stdout as they arrive.
func streamReview(ctx context.Context, cfg config.Config, bundle gitdiff.Bundle, bctx *prompt.BranchContext) {
	if flagNoRedact {
		cfg.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	if cfg.RedactSecrets {
		bundle = redact.Bundle(bundle)
	}

	provider, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		fail(ExitUsageError, "%v", err)
		return
	}

	userPrompt := prompt.Build(bundle, bctx)
	stream := relay.New(provider, cfg.MaxTokens).Review(ctx, prompt.SystemPrompt(), userPrompt)

	for fragment := range stream.Fragments() {
		fmt.Fprint(os.Stdout, fragment)
	}
	fmt.Fprintln(os.Stdout)

	if err := stream.Err(); err != nil {
		if providers.IsAuthError(err) {
			fail(ExitAuthError, "%v", err)
			return
		}
		fail(ExitRuntimeError, "%v", err)
	}
}

// reportDiffError surfaces a diff collection failure with the right exit
// code for its classification.
func reportDiffError(err error) {
	if errors.Is(err, gitrun.ErrNotARepository) {
		fail(ExitUsageError, "not a git repository")
		return
	}
	if errors.Is(err, gitrun.ErrOutputTooLarge) {
		fail(ExitRuntimeError, "%v (raise --max-diff-bytes to allow larger diffs)", err)
		return
	}
	fail(ExitRuntimeError, "%v", err)
}

// branchHint returns a best-effort " (available branches: ...)" suffix for
// branch-not-found messages. Listing failures degrade to an empty hint.
func branchHint(ctx context.Context, collector *gitdiff.Collector) string {
	branches, err := collector.ListBranches(ctx, "")
	if err != nil || len(branches) == 0 {
		return ""
	}
	return fmt.Sprintf(" (available branches: %s)", strings.Join(branches, ", "))
}

func init() {
	reviewCmd.AddCommand(reviewBranchCmd)

	addReviewFlags(reviewCmd)
	addReviewFlags(reviewBranchCmd)
}
