package retriever_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/core/config"
	"basegraph.app/tracecase/internal/retriever"
)

var _ = Describe("Typesense retriever", func() {
	var (
		server  *httptest.Server
		handler http.HandlerFunc
	)

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		DeferCleanup(server.Close)
	})

	newRetriever := func() retriever.Retriever {
		r, err := retriever.New(config.RetrievalConfig{
			Backend:    config.RetrievalTypesense,
			URL:        server.URL,
			APIKey:     "ts-key",
			Collection: "regulations",
			QueryBy:    "text,title",
			IDField:    "source_uri",
			TextField:  "text",
			TopK:       3,
		})
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	It("maps hits to evidence with scores relative to the best hit", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(Equal("/collections/regulations/documents/search"))
			Expect(r.URL.Query().Get("q")).To(Equal("Delete user data"))
			Expect(r.URL.Query().Get("query_by")).To(Equal("text,title"))
			Expect(r.URL.Query().Get("per_page")).To(Equal("3"))
			Expect(r.Header.Get("X-Typesense-Api-Key")).To(Equal("ts-key"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"found": 2, "out_of": 10, "page": 1, "search_time_ms": 1,
				"hits": [
					{"document": {"id": "1", "source_uri": "GDPR-Art17", "text": "Right to erasure"}, "text_match": 200},
					{"document": {"id": "2", "source_uri": "GDPR-Art5", "text": "Storage limitation"}, "text_match": 100}
				]
			}`))
		}

		ev := newRetriever().Retrieve(context.Background(), "Delete user data")
		Expect(ev).To(HaveLen(2))
		Expect(ev[0].SourceID).To(Equal("GDPR-Art17"))
		Expect(ev[0].Text).To(Equal("Right to erasure"))
		Expect(ev[0].RelevanceScore).To(BeNumerically("~", 1.0))
		Expect(ev[1].SourceID).To(Equal("GDPR-Art5"))
		Expect(ev[1].RelevanceScore).To(BeNumerically("~", 0.5))
		Expect(ev.Identifiers()).To(Equal([]string{"GDPR-Art17", "GDPR-Art5"}))
	})

	It("degrades to empty evidence when the search fails", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not found."}`))
		}

		ev := newRetriever().Retrieve(context.Background(), "x")
		Expect(ev).NotTo(BeNil())
		Expect(ev).To(BeEmpty())
	})
})

var _ = Describe("New", func() {
	It("defaults to the none backend", func() {
		r, err := retriever.New(config.RetrievalConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(Equal(retriever.None{}))
	})

	It("rejects unknown backends", func() {
		_, err := retriever.New(config.RetrievalConfig{Backend: "elastic"})
		Expect(err).To(HaveOccurred())
	})
})
