package model

import "strings"

// EvidenceSnippet is one retrieved passage with its provenance.
type EvidenceSnippet struct {
	RelevanceScore float64 `json:"relevance_score"`
	SourceID       string  `json:"source_id"`
	Text           string  `json:"text"`
}

// Evidence is the ordered retrieval result; provider order is preserved.
type Evidence []EvidenceSnippet

// ContextText joins snippet texts with a blank line, in provider order.
func (e Evidence) ContextText() string {
	if len(e) == 0 {
		return ""
	}
	texts := make([]string, 0, len(e))
	for _, s := range e {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, "\n\n")
}

// Identifiers returns source ids in provider order, first occurrence wins,
// empty ids skipped. Never nil.
func (e Evidence) Identifiers() []string {
	ids := make([]string, 0, len(e))
	seen := make(map[string]struct{}, len(e))
	for _, s := range e {
		if s.SourceID == "" {
			continue
		}
		if _, ok := seen[s.SourceID]; ok {
			continue
		}
		seen[s.SourceID] = struct{}{}
		ids = append(ids, s.SourceID)
	}
	return ids
}
