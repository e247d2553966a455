package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dshills/revu/internal/config"
	"github.com/dshills/revu/internal/providers"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Provider and model management",
}

type modelInfo struct {
	Provider string
	Models   []string
}

var knownModels = []modelInfo{
	{
		Provider: "anthropic",
		Models: []string{
			"claude-sonnet-4-6",
			"claude-opus-4-6",
			"claude-haiku-4-5",
		},
	},
	{
		Provider: "openai",
		Models: []string{
			"gpt-5.2",
			"gpt-4.1-mini",
			"o3-mini",
		},
	},
	{
		Provider: "ollama",
		Models: []string{
			"llama3.3",
			"codellama",
			"qwen2.5-coder",
			"deepseek-coder-v2",
		},
	},
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known providers and models",
	Run: func(cmd *cobra.Command, args []string) {
		for _, info := range knownModels {
			fmt.Fprintf(os.Stdout, "%s:\n", info.Provider)
			for _, m := range info.Models {
				fmt.Fprintf(os.Stdout, "  %s\n", m)
			}
		}
	},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the configured provider is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		providerName := cfg.Provider
		if flagProvider != "" {
			providerName = flagProvider
		}

		p, err := providers.New(providerName, cfg.Model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var got string
		err = p.Stream(ctx, providers.Request{
			SystemPrompt: "Respond with exactly: ok",
			UserPrompt:   "ping",
			MaxTokens:    10,
		}, func(fragment string) error {
			got += fragment
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
			if providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}
		if strings.TrimSpace(got) == "" {
			fmt.Fprintf(os.Stderr, "FAIL: %s stream completed without any response text\n", providerName)
			exitCode = ExitRuntimeError
			return nil
		}

		fmt.Fprintf(os.Stdout, "OK: %s is configured and responding\n", providerName)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
	modelsDoctorCmd.Flags().StringVar(&flagProvider, "provider", "", "Provider to check")
}
