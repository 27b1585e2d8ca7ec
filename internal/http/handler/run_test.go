package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/internal/brain"
	"basegraph.app/tracecase/internal/http/handler"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service"
)

var _ = Describe("RunHandler", func() {
	var (
		router *gin.Engine
		svc    *mockTestCaseService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockTestCaseService{}
		h := handler.NewRunHandler(svc)
		router.POST("/sessions/:session_id/runs", h.Invoke)
		router.POST("/sessions/:session_id/runs/:run_id/resume", h.Resume)
		router.GET("/sessions/:session_id/run", h.State)
	})

	Describe("Invoke", func() {
		It("returns 200 with the result and summary", func() {
			svc.generateFn = func(_ context.Context, sessionID string, input model.RequirementInput) (*brain.Outcome, error) {
				Expect(sessionID).To(Equal("s-1"))
				Expect(input.Text).To(Equal("Users can apply discount codes"))
				Expect(input.APIContract).To(Equal("POST /discounts"))
				return &brain.Outcome{RunID: "9", Result: &model.GenerationResult{
					TestCases: []model.TestCase{sampleCase()},
				}}, nil
			}

			w := doJSON(router, http.MethodPost, "/sessions/s-1/runs", map[string]string{
				"requirement":  "Users can apply discount codes",
				"api_contract": "POST /discounts",
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decodeBody(w)
			Expect(resp["status"]).To(Equal("completed"))
			Expect(resp["run_id"]).To(Equal("9"))
			result := resp["result"].(map[string]any)
			Expect(result["test_cases"]).To(HaveLen(1))
			Expect(result["feature_gaps"]).To(BeEmpty())
			Expect(result["summary"]).To(HaveKeyWithValue("positive", BeNumerically("==", 1)))
		})

		It("returns 202 with questions when clarification is needed", func() {
			svc.generateFn = func(context.Context, string, model.RequirementInput) (*brain.Outcome, error) {
				return &brain.Outcome{RunID: "9", Pending: &model.PendingRun{
					RunID: "9", SessionID: "s-1", Questions: []string{"Which roles?"},
				}}, nil
			}

			w := doJSON(router, http.MethodPost, "/sessions/s-1/runs", map[string]string{"requirement": "Users log in"})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			resp := decodeBody(w)
			Expect(resp["status"]).To(Equal("awaiting_clarification"))
			Expect(resp["questions"]).To(ConsistOf("Which roles?"))
			Expect(resp).NotTo(HaveKey("result"))
		})

		DescribeTable("maps errors to statuses",
			func(err error, status int) {
				svc.generateFn = func(context.Context, string, model.RequirementInput) (*brain.Outcome, error) {
					return nil, err
				}

				w := doJSON(router, http.MethodPost, "/sessions/s-1/runs", map[string]string{"requirement": "x"})
				Expect(w.Code).To(Equal(status))
			},
			Entry("blank requirement", brain.ErrBlankRequirement, http.StatusBadRequest),
			Entry("run in progress", brain.ErrRunInProgress, http.StatusConflict),
			Entry("generation failure", &brain.StageError{Stage: model.StageGeneration, Err: errors.New("timeout")}, http.StatusBadGateway),
			Entry("clarification failure", &brain.StageError{Stage: model.StageClarification, Err: errors.New("503")}, http.StatusBadGateway),
			Entry("unexpected failure", errors.New("redis down"), http.StatusInternalServerError),
		)

		It("reports the failing stage and its cause", func() {
			svc.generateFn = func(context.Context, string, model.RequirementInput) (*brain.Outcome, error) {
				return nil, fmt.Errorf("run: %w", &brain.StageError{Stage: model.StageGeneration, Err: errors.New("bad json")})
			}

			w := doJSON(router, http.MethodPost, "/sessions/s-1/runs", map[string]string{"requirement": "x"})

			Expect(w.Code).To(Equal(http.StatusBadGateway))
			body := decodeBody(w)
			Expect(body["stage"]).To(Equal("generation"))
			Expect(body["detail"]).To(Equal("run: generation stage: bad json"))
		})

		It("returns 400 on malformed JSON", func() {
			w := doJSON(router, http.MethodPost, "/sessions/s-1/runs", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Resume", func() {
		It("passes answers through and returns the result", func() {
			svc.resumeFn = func(_ context.Context, sessionID, runID string, reply model.ClarificationReply) (*model.GenerationResult, error) {
				Expect(sessionID).To(Equal("s-1"))
				Expect(runID).To(Equal("9"))
				Expect(reply.Answers).To(Equal([]string{"admins", ""}))
				Expect(reply.Skip).To(BeFalse())
				return &model.GenerationResult{TestCases: []model.TestCase{sampleCase()}}, nil
			}

			w := doJSON(router, http.MethodPost, "/sessions/s-1/runs/9/resume", map[string]any{
				"answers": []string{"admins", ""},
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decodeBody(w)
			Expect(resp["run_id"]).To(Equal("9"))
			Expect(resp["status"]).To(Equal("completed"))
		})

		It("returns 404 for an unknown run", func() {
			svc.resumeFn = func(context.Context, string, string, model.ClarificationReply) (*model.GenerationResult, error) {
				return nil, brain.ErrRunNotFound
			}

			w := doJSON(router, http.MethodPost, "/sessions/s-1/runs/9/resume", map[string]any{"skip": true})
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("State", func() {
		It("returns idle when nothing is running", func() {
			w := doJSON(router, http.MethodGet, "/sessions/s-1/run", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decodeBody(w)
			Expect(resp["state"]).To(Equal("idle"))
			Expect(resp).NotTo(HaveKey("run_id"))
		})

		It("returns the pending questions", func() {
			svc.statusFn = func(context.Context, string) (*service.RunStatus, error) {
				return &service.RunStatus{
					State:   model.RunStateAwaitingClarification,
					Pending: &model.PendingRun{RunID: "9", SessionID: "s-1", Questions: []string{"Which roles?"}},
				}, nil
			}

			w := doJSON(router, http.MethodGet, "/sessions/s-1/run", nil)

			resp := decodeBody(w)
			Expect(resp["state"]).To(Equal("awaiting_clarification"))
			Expect(resp["run_id"]).To(Equal("9"))
			Expect(resp["questions"]).To(ConsistOf("Which roles?"))
		})
	})
})
