package handler_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/internal/http/handler"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service"
	"basegraph.app/tracecase/internal/store"
)

var _ = Describe("EvalHandler", func() {
	var (
		router *gin.Engine
		svc    *mockEvalService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockEvalService{}
		h := handler.NewEvalHandler(svc)
		router.GET("/evals", h.List)
		router.GET("/evals/stats", h.Stats)
		router.GET("/evals/:id", h.Get)
	})

	Describe("List", func() {
		It("lists evals for a run", func() {
			var gotRun string
			svc.listByRunFn = func(_ context.Context, runID string) ([]model.LLMEval, error) {
				gotRun = runID
				return []model.LLMEval{{ID: 1, Stage: model.StageClarification}, {ID: 2, Stage: model.StageGeneration}}, nil
			}

			w := doJSON(router, http.MethodGet, "/evals?run_id=r-1", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotRun).To(Equal("r-1"))
			body := decodeBody(w)
			Expect(body["count"]).To(BeNumerically("==", 2))
			Expect(body["evals"]).To(HaveLen(2))
		})

		It("lists evals for a stage with a limit", func() {
			var gotStage model.Stage
			var gotLimit int32
			svc.listByStageFn = func(_ context.Context, stage model.Stage, limit int32) ([]model.LLMEval, error) {
				gotStage, gotLimit = stage, limit
				return nil, nil
			}

			w := doJSON(router, http.MethodGet, "/evals?stage=generation&limit=5", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotStage).To(Equal(model.StageGeneration))
			Expect(gotLimit).To(Equal(int32(5)))
			Expect(decodeBody(w)["evals"]).To(BeEmpty())
		})

		It("requires a run or a stage", func() {
			w := doJSON(router, http.MethodGet, "/evals", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects an out-of-range limit", func() {
			w := doJSON(router, http.MethodGet, "/evals?stage=generation&limit=1000", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 503 when eval logging is off", func() {
			svc.listByRunFn = func(context.Context, string) ([]model.LLMEval, error) {
				return nil, service.ErrEvalsDisabled
			}

			w := doJSON(router, http.MethodGet, "/evals?run_id=r-1", nil)
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("Get", func() {
		It("returns one eval", func() {
			w := doJSON(router, http.MethodGet, "/evals/42", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decodeBody(w)["id"]).To(BeNumerically("==", 42))
		})

		It("returns 404 for a missing eval", func() {
			svc.getFn = func(context.Context, int64) (*model.LLMEval, error) {
				return nil, store.ErrNotFound
			}

			w := doJSON(router, http.MethodGet, "/evals/42", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("rejects a non-numeric id", func() {
			w := doJSON(router, http.MethodGet, "/evals/abc", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Stats", func() {
		It("passes stage and since through", func() {
			var gotSince time.Time
			svc.statsFn = func(_ context.Context, stage model.Stage, since time.Time) (*model.LLMEvalStats, error) {
				gotSince = since
				return &model.LLMEvalStats{Stage: stage, Total: 4, ParseFailures: 1}, nil
			}

			w := doJSON(router, http.MethodGet, "/evals/stats?stage=generation&since=2026-01-02T03:04:05Z", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotSince.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))).To(BeTrue())
			body := decodeBody(w)
			Expect(body["total"]).To(BeNumerically("==", 4))
			Expect(body["parse_failures"]).To(BeNumerically("==", 1))
		})

		It("leaves since zero when omitted", func() {
			var gotSince time.Time
			svc.statsFn = func(_ context.Context, stage model.Stage, since time.Time) (*model.LLMEvalStats, error) {
				gotSince = since
				return &model.LLMEvalStats{Stage: stage}, nil
			}

			w := doJSON(router, http.MethodGet, "/evals/stats?stage=generation", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotSince.IsZero()).To(BeTrue())
		})

		It("requires a stage", func() {
			w := doJSON(router, http.MethodGet, "/evals/stats", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})

var _ = Describe("HealthHandler", func() {
	var (
		router *gin.Engine
		svc    *mockHealthService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockHealthService{}
		router.GET("/health", handler.NewHealthHandler(svc).Check)
	})

	It("reports ok when every dependency responds", func() {
		w := doJSON(router, http.MethodGet, "/health", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeBody(w)["status"]).To(Equal("ok"))
	})

	It("returns 503 with the failing dependency", func() {
		svc.checkFn = func(context.Context) error {
			return errors.New("postgres: connection refused")
		}

		w := doJSON(router, http.MethodGet, "/health", nil)

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		body := decodeBody(w)
		Expect(body["status"]).To(Equal("unavailable"))
		Expect(body["error"]).To(Equal("postgres: connection refused"))
	})
})
