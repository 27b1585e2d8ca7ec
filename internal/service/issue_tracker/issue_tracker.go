package issue_tracker

import (
	"context"
	"errors"

	"basegraph.app/tracecase/internal/model"
)

var ErrNotConfigured = errors.New("issue tracker not configured")

type ExportStatus string

const (
	ExportStatusSuccess ExportStatus = "SUCCESS"
	ExportStatusFailure ExportStatus = "FAILURE"
)

type ExportParams struct {
	Project   string // Overrides the configured project when set
	Labels    []string
	TestCases []model.TestCase
}

// ExportResult reports what happened to one test case. A failed case carries
// Error and leaves IssueIID and WebURL empty.
type ExportResult struct {
	TestCaseID string       `json:"test_case_id"`
	Status     ExportStatus `json:"status"`
	IssueIID   int64        `json:"issue_iid,omitempty"`
	WebURL     string       `json:"web_url,omitempty"`
	Error      string       `json:"error,omitempty"`
}

type IssueTrackerService interface {
	// ExportTestCases creates one issue per test case. Per-case failures are
	// reported in the results; the returned error is reserved for problems
	// that prevent any export.
	ExportTestCases(ctx context.Context, params ExportParams) ([]ExportResult, error)
}

func CountFailures(results []ExportResult) int {
	n := 0
	for _, r := range results {
		if r.Status == ExportStatusFailure {
			n++
		}
	}
	return n
}
