package model

import "strings"

// RequirementInput is what the user submits. APIContract is opaque text and is
// passed to the generation service verbatim.
type RequirementInput struct {
	Text        string `json:"text"`
	APIContract string `json:"api_contract,omitempty"`
}

func (r RequirementInput) Blank() bool {
	return strings.TrimSpace(r.Text) == ""
}

func (r RequirementInput) HasContract() bool {
	return strings.TrimSpace(r.APIContract) != ""
}
