package service

import (
	"context"
	"io"
	"log/slog"

	"basegraph.app/tracecase/internal/export"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service/issue_tracker"
)

type ExportService interface {
	Write(w io.Writer, format export.Format, cases []model.TestCase) error
	ToIssueTracker(ctx context.Context, params issue_tracker.ExportParams) ([]issue_tracker.ExportResult, error)
}

type exportService struct {
	tracker issue_tracker.IssueTrackerService
}

// NewExportService builds the export service. tracker may be nil, in which
// case ToIssueTracker returns issue_tracker.ErrNotConfigured.
func NewExportService(tracker issue_tracker.IssueTrackerService) ExportService {
	return &exportService{tracker: tracker}
}

func (s *exportService) Write(w io.Writer, format export.Format, cases []model.TestCase) error {
	return export.Write(w, format, cases)
}

func (s *exportService) ToIssueTracker(ctx context.Context, params issue_tracker.ExportParams) ([]issue_tracker.ExportResult, error) {
	if s.tracker == nil {
		return nil, issue_tracker.ErrNotConfigured
	}

	results, err := s.tracker.ExportTestCases(ctx, params)
	if err != nil {
		slog.ErrorContext(ctx, "issue tracker export failed", "error", err)
		return nil, err
	}
	return results, nil
}
