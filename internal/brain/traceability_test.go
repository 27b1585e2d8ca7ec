package brain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/model"
)

var _ = Describe("BackfillTraceability", func() {
	cases := func() []model.TestCase {
		return []model.TestCase{
			{ID: "TC-1", Traceability: nil},
			{ID: "TC-2", Traceability: []string{}},
			{ID: "TC-3", Traceability: []string{"OWN-1"}},
		}
	}

	It("fills empty traceability with evidence identifiers", func() {
		out := brain.BackfillTraceability(cases(), []string{"GDPR-Art32"})
		Expect(out[0].Traceability).To(Equal([]string{"GDPR-Art32"}))
		Expect(out[1].Traceability).To(Equal([]string{"GDPR-Art32"}))
	})

	It("never overwrites generator-supplied traceability", func() {
		out := brain.BackfillTraceability(cases(), []string{"GDPR-Art32"})
		Expect(out[2].Traceability).To(Equal([]string{"OWN-1"}))
	})

	It("falls back to N/A without evidence", func() {
		for _, ids := range [][]string{nil, {}} {
			out := brain.BackfillTraceability(cases(), ids)
			Expect(out[0].Traceability).To(Equal([]string{"N/A"}))
			Expect(out[1].Traceability).To(Equal([]string{"N/A"}))
		}
	})

	It("never leaves traceability empty", func() {
		for _, ids := range [][]string{nil, {"A"}, {"A", "B"}} {
			for _, tc := range brain.BackfillTraceability(cases(), ids) {
				Expect(tc.Traceability).NotTo(BeEmpty())
			}
		}
	})

	It("is idempotent", func() {
		for _, ids := range [][]string{nil, {"A", "B"}} {
			once := brain.BackfillTraceability(cases(), ids)
			twice := brain.BackfillTraceability(once, ids)
			Expect(twice).To(Equal(once))
		}
	})

	It("does not modify its input or share slices with it", func() {
		in := cases()
		ids := []string{"A"}
		out := brain.BackfillTraceability(in, ids)

		Expect(in[0].Traceability).To(BeNil())
		out[0].Traceability[0] = "changed"
		out[2].Traceability[0] = "changed"
		Expect(ids).To(Equal([]string{"A"}))
		Expect(in[2].Traceability).To(Equal([]string{"OWN-1"}))
	})

	It("returns an empty slice for no cases", func() {
		Expect(brain.BackfillTraceability(nil, []string{"A"})).To(BeEmpty())
	})
})
