package dto

import (
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service/issue_tracker"
)

type ExportRequest struct {
	Name      string           `json:"name,omitempty" binding:"max=255"`
	TestCases []model.TestCase `json:"test_cases"`
}

type GitLabExportRequest struct {
	Project   string           `json:"project,omitempty" binding:"max=255"`
	Labels    []string         `json:"labels,omitempty"`
	TestCases []model.TestCase `json:"test_cases"`
}

func (r GitLabExportRequest) ToParams() issue_tracker.ExportParams {
	return issue_tracker.ExportParams{
		Project:   r.Project,
		Labels:    r.Labels,
		TestCases: r.TestCases,
	}
}

type GitLabExportResponse struct {
	Results []issue_tracker.ExportResult `json:"results"`
	Total   int                          `json:"total"`
	Failed  int                          `json:"failed"`
}

func ToGitLabExportResponse(results []issue_tracker.ExportResult) *GitLabExportResponse {
	if results == nil {
		results = []issue_tracker.ExportResult{}
	}
	return &GitLabExportResponse{
		Results: results,
		Total:   len(results),
		Failed:  issue_tracker.CountFailures(results),
	}
}
