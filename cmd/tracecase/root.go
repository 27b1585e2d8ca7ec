package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"basegraph.app/tracecase/common/id"
	"basegraph.app/tracecase/common/logger"
	"basegraph.app/tracecase/core/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "tracecase",
	Short: "Generate reviewable test cases from a requirement",
	Long: `tracecase turns a plain-text requirement (and an optional API contract)
into categorized, prioritized test cases with traceability to the evidence
they were derived from.

Commands:
  generate    Generate test cases, answering clarification questions on stdin
  gitlab      Create one GitLab issue per test case from a JSON export

Configuration is read from the environment (and .env.cli / .env in development):
  LLM_PROVIDER, LLM_API_KEY, LLM_MODEL, RETRIEVAL_BACKEND, RETRIEVAL_URL,
  GITLAB_TOKEN, GITLAB_PROJECT, DATABASE_URL`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(config.ServiceTypeCLI)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded

		logger.SetupCLI(cfg)

		if err := id.Init(cfg.NodeID); err != nil {
			return fmt.Errorf("initializing id generator: %w", err)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
