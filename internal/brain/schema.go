package brain

import "basegraph.app/tracecase/common/llm"

// ClarificationResponse is the detector's structured reply. Strict schema mode
// needs an object root, so the question list sits under "questions".
type ClarificationResponse struct {
	Questions []string `json:"questions" jsonschema_description:"3-5 concise clarification questions, or an empty list when the requirement is unambiguous"`
}

// TestCaseGenerationResponse is the generator's structured reply.
type TestCaseGenerationResponse struct {
	TestCases   []TestCaseItem `json:"testCases" jsonschema_description:"Generated test cases"`
	FeatureGaps []string       `json:"featureGaps" jsonschema_description:"Remaining ambiguities, missing details or unclear aspects of the requirement"`
}

type TestCaseItem struct {
	ID              string   `json:"id" jsonschema_description:"Unique identifier within this result, e.g. TC-LOGIN-01"`
	Title           string   `json:"title" jsonschema_description:"Short descriptive title"`
	Description     string   `json:"description" jsonschema_description:"What the test verifies"`
	Category        string   `json:"category" jsonschema:"enum=Positive,enum=Negative,enum=Neutral" jsonschema_description:"Test category"`
	Priority        string   `json:"priority" jsonschema:"enum=High,enum=Medium,enum=Low" jsonschema_description:"Test priority"`
	Status          string   `json:"status" jsonschema:"enum=Draft" jsonschema_description:"Initial status, always Draft"`
	Preconditions   []string `json:"preconditions" jsonschema_description:"States required before the test can run"`
	Steps           []string `json:"steps" jsonschema_description:"Sequential actions to perform"`
	ExpectedResults []string `json:"expectedResults" jsonschema_description:"Specific, verifiable outcomes"`
	Traceability    []string `json:"traceability" jsonschema_description:"Identifiers of the regulatory evidence this test case covers; empty when no evidence applies"`
}

// AssertionsResponse carries suggested automatable assertions for one test case.
type AssertionsResponse struct {
	Assertions []string `json:"assertions" jsonschema_description:"3-5 concise, specific assertions that could be automated"`
}

// QueryExpansionResponse lists extra search queries for the retrieval backend.
type QueryExpansionResponse struct {
	Queries []string `json:"queries" jsonschema_description:"Focused search queries for regulatory or compliance documents"`
}

var (
	clarificationSchema  = llm.GenerateSchema[ClarificationResponse]()
	generationSchema     = llm.GenerateSchema[TestCaseGenerationResponse]()
	assertionsSchema     = llm.GenerateSchema[AssertionsResponse]()
	queryExpansionSchema = llm.GenerateSchema[QueryExpansionResponse]()
)
