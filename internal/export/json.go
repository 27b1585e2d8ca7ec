package export

import (
	"encoding/json"
	"fmt"
	"io"

	"basegraph.app/tracecase/internal/model"
)

// WriteJSON writes the test cases as an indented JSON array.
func WriteJSON(w io.Writer, cases []model.TestCase) error {
	if len(cases) == 0 {
		return ErrNothingToExport
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cases); err != nil {
		return fmt.Errorf("encoding test cases: %w", err)
	}
	return nil
}
