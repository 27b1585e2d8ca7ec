package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/internal/model"
)

var _ = Describe("Evidence", func() {
	evidence := model.Evidence{
		{RelevanceScore: 0.9, SourceID: "REG-1", Text: "first"},
		{RelevanceScore: 0.8, SourceID: "", Text: "anonymous"},
		{RelevanceScore: 0.7, SourceID: "REG-2", Text: "second"},
		{RelevanceScore: 0.6, SourceID: "REG-1", Text: "repeat"},
	}

	It("joins snippet texts with a blank line in provider order", func() {
		Expect(evidence.ContextText()).To(Equal("first\n\nanonymous\n\nsecond\n\nrepeat"))
	})

	It("lists identifiers in order, de-duplicated, skipping empties", func() {
		Expect(evidence.Identifiers()).To(Equal([]string{"REG-1", "REG-2"}))
	})

	It("handles empty evidence", func() {
		var empty model.Evidence
		Expect(empty.ContextText()).To(BeEmpty())
		Expect(empty.Identifiers()).NotTo(BeNil())
		Expect(empty.Identifiers()).To(BeEmpty())
	})
})

var _ = Describe("GenerationResult", func() {
	It("summarises cases per category", func() {
		r := &model.GenerationResult{TestCases: []model.TestCase{
			{Category: model.CategoryPositive},
			{Category: model.CategoryNegative},
			{Category: model.CategoryNegative},
			{Category: model.CategoryNeutral},
		}}
		Expect(r.Summary()).To(Equal(model.EdgeCaseSummary{Total: 4, Positive: 1, Negative: 2, Neutral: 1}))
	})
})

var _ = Describe("TestCase", func() {
	It("clones without sharing slices", func() {
		orig := model.TestCase{ID: "TC-1", Steps: []string{"a"}, Traceability: []string{"R1"}}
		c := orig.Clone()
		c.Steps[0] = "changed"
		c.Traceability = append(c.Traceability, "R2")
		Expect(orig.Steps).To(Equal([]string{"a"}))
		Expect(orig.Traceability).To(Equal([]string{"R1"}))
	})
})

var _ = DescribeTable("enum validity",
	func(valid bool, ok bool) {
		Expect(valid).To(Equal(ok))
	},
	Entry("Positive", model.Category("Positive").Valid(), true),
	Entry("lowercase category", model.Category("positive").Valid(), false),
	Entry("High", model.Priority("High").Valid(), true),
	Entry("Critical", model.Priority("Critical").Valid(), false),
)

var _ = Describe("RequirementInput", func() {
	It("treats whitespace-only text as blank", func() {
		Expect(model.RequirementInput{Text: " \n\t"}.Blank()).To(BeTrue())
		Expect(model.RequirementInput{Text: "x"}.Blank()).To(BeFalse())
	})
})
