package brain

import "basegraph.app/tracecase/internal/model"

// BackfillTraceability fills empty Traceability with the evidence identifiers,
// or ["N/A"] when there are none. Non-empty traceability is never overwritten.
// The input is not modified; every returned case owns its slices, so applying
// it twice yields the same result.
func BackfillTraceability(cases []model.TestCase, evidenceIDs []string) []model.TestCase {
	out := make([]model.TestCase, len(cases))
	for i, tc := range cases {
		c := tc.Clone()
		if len(c.Traceability) == 0 {
			if len(evidenceIDs) > 0 {
				c.Traceability = append([]string(nil), evidenceIDs...)
			} else {
				c.Traceability = []string{model.TraceabilityNotApplicable}
			}
		}
		out[i] = c
	}
	return out
}
