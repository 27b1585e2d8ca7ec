package model

type Category string

const (
	CategoryPositive Category = "Positive"
	CategoryNegative Category = "Negative"
	CategoryNeutral  Category = "Neutral"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPositive, CategoryNegative, CategoryNeutral:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status is always Draft for generated cases; review happens outside the pipeline.
type Status string

const StatusDraft Status = "Draft"

// TraceabilityNotApplicable fills Traceability when neither the generator nor
// retrieval produced any evidence identifier.
const TraceabilityNotApplicable = "N/A"

// TestCase is one generated, reviewable test case. JSON names follow the
// generation schema so exports and API responses round-trip unchanged.
type TestCase struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
	Priority        Priority `json:"priority"`
	Status          Status   `json:"status"`
	Preconditions   []string `json:"preconditions"`
	Steps           []string `json:"steps"`
	ExpectedResults []string `json:"expectedResults"`
	Traceability    []string `json:"traceability"`
}

// Clone returns a deep copy; slices are never shared with the receiver.
func (tc TestCase) Clone() TestCase {
	out := tc
	out.Preconditions = cloneStrings(tc.Preconditions)
	out.Steps = cloneStrings(tc.Steps)
	out.ExpectedResults = cloneStrings(tc.ExpectedResults)
	out.Traceability = cloneStrings(tc.Traceability)
	return out
}

// GenerationResult is the pipeline's final output.
type GenerationResult struct {
	TestCases   []TestCase `json:"testCases"`
	FeatureGaps []string   `json:"featureGaps"`
}

// EdgeCaseSummary counts generated cases per category.
type EdgeCaseSummary struct {
	Total    int `json:"total"`
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

func (r *GenerationResult) Summary() EdgeCaseSummary {
	s := EdgeCaseSummary{Total: len(r.TestCases)}
	for _, tc := range r.TestCases {
		switch tc.Category {
		case CategoryPositive:
			s.Positive++
		case CategoryNegative:
			s.Negative++
		case CategoryNeutral:
			s.Neutral++
		}
	}
	return s
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
