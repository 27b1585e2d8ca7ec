package export

import (
	"errors"
	"fmt"
	"io"

	"basegraph.app/tracecase/common"
	"basegraph.app/tracecase/internal/model"
)

var ErrNothingToExport = errors.New("no test cases to export")

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/json; charset=utf-8"
	}
}

// Write renders cases in the given format.
func Write(w io.Writer, format Format, cases []model.TestCase) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, cases)
	case FormatJSON:
		return WriteJSON(w, cases)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Filename builds a download name such as "checkout-flow.csv". A blank or
// unsluggable name falls back to "test-cases".
func Filename(name string, format Format) string {
	base, err := common.Slugify(name, "test-cases")
	if err != nil {
		base = "test-cases"
	}
	return base + "." + string(format)
}
