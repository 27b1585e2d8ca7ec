package dto

import "basegraph.app/tracecase/internal/model"

type AssistRequest struct {
	TestCase model.TestCase `json:"test_case"`
}

type AssertionsResponse struct {
	TestCaseID string   `json:"test_case_id"`
	Assertions []string `json:"assertions"`
}

type SnippetResponse struct {
	TestCaseID string `json:"test_case_id"`
	Snippet    string `json:"snippet"`
}
