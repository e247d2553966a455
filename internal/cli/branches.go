package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/revu/internal/config"
	"github.com/spf13/cobra"
)

var branchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "List local and remote branches, de-duplicated",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		branches, err := newCollector(cfg).ListBranches(context.Background(), "")
		if err != nil {
			fail(ExitRuntimeError, "%v", err)
			return nil
		}

		for _, b := range branches {
			fmt.Fprintln(os.Stdout, b)
		}
		return nil
	},
}

func init() {
	branchesCmd.Flags().StringVar(&flagRemote, "remote", "", "Remote alias for branch resolution (default origin)")
}
