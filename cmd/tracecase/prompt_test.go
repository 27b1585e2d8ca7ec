package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service/issue_tracker"
)

var _ = Describe("promptAnswers", func() {
	questions := []string{"Which roles?", "Is MFA required?", "What is the lockout limit?"}

	It("reads one answer per question, keeping blank lines as no answer", func() {
		var out bytes.Buffer
		reply, err := promptAnswers(strings.NewReader("admins\n\n5 attempts\n"), &out, questions)

		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Skip).To(BeFalse())
		Expect(reply.Answers).To(Equal([]string{"admins", "", "5 attempts"}))
		Expect(out.String()).To(ContainSubstring("[2/3] Is MFA required?"))
	})

	It("skips clarification on :skip", func() {
		var out bytes.Buffer
		reply, err := promptAnswers(strings.NewReader("admins\n:skip\nignored\n"), &out, questions)

		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal(model.ClarificationReply{Skip: true}))
		Expect(out.String()).NotTo(ContainSubstring("[3/3]"))
	})

	It("stops at EOF with the answers so far", func() {
		var out bytes.Buffer
		reply, err := promptAnswers(strings.NewReader("admins\n"), &out, questions)

		Expect(err).NotTo(HaveOccurred())
		Expect(reply.Answers).To(Equal([]string{"admins"}))
	})
})

var _ = Describe("readInput", func() {
	It("reads the requirement and optional contract", func() {
		dir := GinkgoT().TempDir()
		req := filepath.Join(dir, "req.md")
		contract := filepath.Join(dir, "api.yaml")
		Expect(os.WriteFile(req, []byte("Users can reset passwords"), 0o600)).To(Succeed())
		Expect(os.WriteFile(contract, []byte("POST /reset"), 0o600)).To(Succeed())

		input, err := readInput(req, contract)
		Expect(err).NotTo(HaveOccurred())
		Expect(input.Text).To(Equal("Users can reset passwords"))
		Expect(input.APIContract).To(Equal("POST /reset"))
	})

	It("fails on a missing requirement file", func() {
		_, err := readInput(filepath.Join(GinkgoT().TempDir(), "missing.md"), "")
		Expect(err).To(MatchError(ContainSubstring("reading requirement")))
	})
})

var _ = Describe("output helpers", func() {
	It("prints the edge case summary and feature gaps", func() {
		var out bytes.Buffer
		printSummary(&out, &model.GenerationResult{
			TestCases: []model.TestCase{
				{Category: model.CategoryPositive},
				{Category: model.CategoryNegative},
				{Category: model.CategoryNegative},
			},
			FeatureGaps: []string{"No rate limit defined"},
		})

		Expect(out.String()).To(ContainSubstring("Generated 3 test cases (1 positive, 2 negative, 0 neutral)"))
		Expect(out.String()).To(ContainSubstring("  - No rate limit defined"))
	})

	It("prints one line per export result", func() {
		var out bytes.Buffer
		printExportResults(&out, []issue_tracker.ExportResult{
			{TestCaseID: "TC-001", Status: issue_tracker.ExportStatusSuccess, IssueIID: 3, WebURL: "https://gitlab/i/3"},
			{TestCaseID: "TC-002", Status: issue_tracker.ExportStatusFailure, Error: "403 Forbidden"},
		})

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(ContainSubstring("#3 https://gitlab/i/3"))
		Expect(lines[1]).To(ContainSubstring("403 Forbidden"))
	})
})
