package handler_test

import (
	"context"
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/internal/http/handler"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service/issue_tracker"
)

var _ = Describe("ExportHandler", func() {
	var (
		router *gin.Engine
		svc    *mockExportService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockExportService{}
		h := handler.NewExportHandler(svc)
		router.POST("/exports/csv", h.CSV)
		router.POST("/exports/json", h.JSON)
		router.POST("/exports/gitlab", h.GitLab)
	})

	It("downloads CSV with a slugged file name", func() {
		w := doJSON(router, http.MethodPost, "/exports/csv", map[string]any{
			"name":       "Discount Codes",
			"test_cases": []model.TestCase{sampleCase()},
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/csv"))
		Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring(`filename="discount-codes.csv"`))

		records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[1][0]).To(Equal("TC-001"))
	})

	It("downloads JSON", func() {
		w := doJSON(router, http.MethodPost, "/exports/json", map[string]any{
			"test_cases": []model.TestCase{sampleCase()},
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring(`filename="test-cases.json"`))
		Expect(w.Body.String()).To(ContainSubstring(`"id": "TC-001"`))
	})

	It("returns 400 for an empty export", func() {
		w := doJSON(router, http.MethodPost, "/exports/csv", map[string]any{"test_cases": []model.TestCase{}})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns per-case gitlab results", func() {
		svc.trackerFn = func(_ context.Context, params issue_tracker.ExportParams) ([]issue_tracker.ExportResult, error) {
			Expect(params.Project).To(Equal("group/app"))
			return []issue_tracker.ExportResult{
				{TestCaseID: "TC-001", Status: issue_tracker.ExportStatusSuccess, IssueIID: 4, WebURL: "https://gitlab/i/4"},
				{TestCaseID: "TC-002", Status: issue_tracker.ExportStatusFailure, Error: "403 Forbidden"},
			}, nil
		}

		w := doJSON(router, http.MethodPost, "/exports/gitlab", map[string]any{
			"project":    "group/app",
			"test_cases": []model.TestCase{sampleCase(), sampleCase()},
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		resp := decodeBody(w)
		Expect(resp["total"]).To(BeNumerically("==", 2))
		Expect(resp["failed"]).To(BeNumerically("==", 1))
		Expect(resp["results"]).To(HaveLen(2))
	})

	It("returns 503 when gitlab export is not configured", func() {
		w := doJSON(router, http.MethodPost, "/exports/gitlab", map[string]any{
			"test_cases": []model.TestCase{sampleCase()},
		})
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})
