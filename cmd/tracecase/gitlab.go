package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service/issue_tracker"
)

var (
	gitlabInputFlag   string
	gitlabProjectFlag string
	gitlabLabelsFlag  []string
)

var gitlabCmd = &cobra.Command{
	Use:   "gitlab",
	Short: "Create one GitLab issue per test case",
	Long: `Create one GitLab issue per test case from a JSON file written by
"tracecase generate -f json". A failure for one case does not stop the rest.

Examples:
  tracecase gitlab -i cases.json
  tracecase gitlab -i cases.json -p group/app -l qa,regression`,
	RunE: runGitLab,
}

func init() {
	gitlabCmd.Flags().StringVarP(&gitlabInputFlag, "input", "i", "", "JSON test case file (required)")
	gitlabCmd.Flags().StringVarP(&gitlabProjectFlag, "project", "p", "", "Project id or path (default GITLAB_PROJECT)")
	gitlabCmd.Flags().StringSliceVarP(&gitlabLabelsFlag, "labels", "l", nil, "Issue labels (default GITLAB_LABELS)")
	_ = gitlabCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(gitlabCmd)
}

func runGitLab(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(gitlabInputFlag)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var cases []model.TestCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		return fmt.Errorf("parsing test cases: %w", err)
	}

	gitlabCfg := cfg.GitLab
	if gitlabProjectFlag != "" {
		gitlabCfg.Project = gitlabProjectFlag
	}

	tracker, err := issue_tracker.NewGitLabIssueTrackerService(gitlabCfg)
	if err != nil {
		return fmt.Errorf("set GITLAB_TOKEN and GITLAB_PROJECT (or --project): %w", err)
	}

	results, err := tracker.ExportTestCases(context.Background(), issue_tracker.ExportParams{
		Labels:    gitlabLabelsFlag,
		TestCases: cases,
	})
	if err != nil {
		return err
	}

	printExportResults(cmd.OutOrStdout(), results)

	if failed := issue_tracker.CountFailures(results); failed > 0 {
		return fmt.Errorf("%d of %d issues failed", failed, len(results))
	}
	return nil
}

func printExportResults(w io.Writer, results []issue_tracker.ExportResult) {
	for _, r := range results {
		if r.Status == issue_tracker.ExportStatusSuccess {
			fmt.Fprintf(w, "%-10s %-8s #%d %s\n", r.TestCaseID, r.Status, r.IssueIID, r.WebURL)
			continue
		}
		fmt.Fprintf(w, "%-10s %-8s %s\n", r.TestCaseID, r.Status, r.Error)
	}
}
