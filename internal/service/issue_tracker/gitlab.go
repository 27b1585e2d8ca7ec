package issue_tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"basegraph.app/tracecase/core/config"
	"basegraph.app/tracecase/internal/export"
	"basegraph.app/tracecase/internal/model"
)

type gitLabIssueTrackerService struct {
	client  *gitlab.Client
	project string
	labels  []string
}

func NewGitLabIssueTrackerService(cfg config.GitLabConfig) (IssueTrackerService, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	client, err := newClient(cfg.BaseURL, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}

	return &gitLabIssueTrackerService{
		client:  client,
		project: cfg.Project,
		labels:  cfg.Labels,
	}, nil
}

func (s *gitLabIssueTrackerService) ExportTestCases(ctx context.Context, params ExportParams) ([]ExportResult, error) {
	if len(params.TestCases) == 0 {
		return nil, export.ErrNothingToExport
	}

	project := s.project
	if strings.TrimSpace(params.Project) != "" {
		project = params.Project
	}
	labels := s.labels
	if len(params.Labels) > 0 {
		labels = params.Labels
	}

	results := make([]ExportResult, 0, len(params.TestCases))
	for _, tc := range params.TestCases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.createIssue(ctx, project, labels, tc))
	}

	slog.InfoContext(ctx, "exported test cases to gitlab",
		"project", project,
		"total", len(results),
		"failed", CountFailures(results))

	return results, nil
}

func (s *gitLabIssueTrackerService) createIssue(ctx context.Context, project string, labels []string, tc model.TestCase) ExportResult {
	opts := &gitlab.CreateIssueOptions{
		Title:       gitlab.Ptr(issueTitle(tc)),
		Description: gitlab.Ptr(renderDescription(tc)),
	}
	if len(labels) > 0 {
		opts.Labels = (*gitlab.LabelOptions)(&labels)
	}

	issue, _, err := s.client.Issues.CreateIssue(project, opts, gitlab.WithContext(ctx))
	if err != nil {
		slog.WarnContext(ctx, "failed to create gitlab issue",
			"test_case_id", tc.ID,
			"error", err)
		return ExportResult{
			TestCaseID: tc.ID,
			Status:     ExportStatusFailure,
			Error:      err.Error(),
		}
	}

	return ExportResult{
		TestCaseID: tc.ID,
		Status:     ExportStatusSuccess,
		IssueIID:   int64(issue.IID),
		WebURL:     issue.WebURL,
	}
}

func newClient(baseURL string, token string) (*gitlab.Client, error) {
	if baseURL == "" {
		return gitlab.NewClient(token)
	}
	apiURL := strings.TrimSuffix(baseURL, "/") + "/api/v4"
	return gitlab.NewClient(token, gitlab.WithBaseURL(apiURL))
}

func issueTitle(tc model.TestCase) string {
	if tc.ID == "" {
		return tc.Title
	}
	return tc.ID + " - " + tc.Title
}

func renderDescription(tc model.TestCase) string {
	var b strings.Builder

	if tc.Description != "" {
		b.WriteString(tc.Description)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "**Category:** %s\n", tc.Category)
	fmt.Fprintf(&b, "**Priority:** %s\n", tc.Priority)
	fmt.Fprintf(&b, "**Status:** %s\n", tc.Status)

	writeSection(&b, "Preconditions", tc.Preconditions, false)
	writeSection(&b, "Steps", tc.Steps, true)
	writeSection(&b, "Expected Results", tc.ExpectedResults, false)
	writeSection(&b, "Traceability", tc.Traceability, false)

	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, heading string, items []string, numbered bool) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", heading)
	for i, item := range items {
		if numbered {
			fmt.Fprintf(b, "%d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}
}
