package otel_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/common/otel"
	"basegraph.app/tracecase/core/config"
)

var _ = Describe("Setup", func() {
	It("is a no-op without an endpoint", func() {
		t, err := otel.Setup(context.Background(), config.OTelConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(BeNil())
		Expect(t.Shutdown(context.Background())).To(Succeed())
	})
})

var _ = DescribeTable("ParseHeaders",
	func(in string, want map[string]string) {
		Expect(otel.ParseHeaders(in)).To(Equal(want))
	},
	Entry("empty", "", map[string]string{}),
	Entry("single pair", "Authorization=Bearer abc", map[string]string{"Authorization": "Bearer abc"}),
	Entry("trims whitespace", " a = 1 , b=2", map[string]string{"a": "1", "b": "2"}),
	Entry("keeps '=' inside values", "k=a=b", map[string]string{"k": "a=b"}),
	Entry("skips malformed pairs", "novalue,=x,ok=1", map[string]string{"ok": "1"}),
)
