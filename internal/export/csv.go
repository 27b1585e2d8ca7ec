package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"basegraph.app/tracecase/internal/model"
)

var csvHeader = []string{
	"id",
	"title",
	"description",
	"category",
	"priority",
	"status",
	"preconditions",
	"steps",
	"expectedResults",
	"traceability",
}

// WriteCSV writes one row per test case. List fields are joined with newlines
// inside a single quoted cell.
func WriteCSV(w io.Writer, cases []model.TestCase) error {
	if len(cases) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, tc := range cases {
		row := []string{
			tc.ID,
			tc.Title,
			tc.Description,
			string(tc.Category),
			string(tc.Priority),
			string(tc.Status),
			joinCell(tc.Preconditions),
			joinCell(tc.Steps),
			joinCell(tc.ExpectedResults),
			joinCell(tc.Traceability),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %s: %w", tc.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func joinCell(items []string) string {
	return strings.Join(items, "\n")
}
