package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"basegraph.app/tracecase/core/config"
	"basegraph.app/tracecase/core/db"
	"basegraph.app/tracecase/internal/export"
	"basegraph.app/tracecase/internal/model"
	"basegraph.app/tracecase/internal/service"
)

var (
	generateRequirementFlag string
	generateContractFlag    string
	generateFormatFlag      string
	generateOutputFlag      string
	generateSessionFlag     string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate test cases for a requirement",
	Long: `Generate test cases for a requirement file.

If the requirement is ambiguous you are asked clarification questions on
stdin. Results go to stdout (or --output) as JSON or CSV; progress and logs go
to stderr.

Examples:
  tracecase generate -r login.md
  tracecase generate -r checkout.md -c openapi.yaml -f csv -o checkout.csv`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateRequirementFlag, "requirement", "r", "", "Requirement text file (required)")
	generateCmd.Flags().StringVarP(&generateContractFlag, "contract", "c", "", "Optional API contract file")
	generateCmd.Flags().StringVarP(&generateFormatFlag, "format", "f", string(export.FormatJSON), "Output format (json, csv)")
	generateCmd.Flags().StringVarP(&generateOutputFlag, "output", "o", "", "Output file (default stdout)")
	generateCmd.Flags().StringVar(&generateSessionFlag, "session", "cli", "Session id for logs and eval records")
	_ = generateCmd.MarkFlagRequired("requirement")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	format := export.Format(strings.ToLower(generateFormatFlag))
	if format != export.FormatJSON && format != export.FormatCSV {
		return fmt.Errorf("unsupported format %q", generateFormatFlag)
	}

	input, err := readInput(generateRequirementFlag, generateContractFlag)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A CLI process owns its single session.
	cliCfg := cfg
	cliCfg.Runs.Store = config.RunStoreMemory

	var infra service.Infra
	if cliCfg.DB.Enabled() {
		database, err := db.New(ctx, cliCfg.DB)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		infra.DB = database
	}

	services, err := service.Build(ctx, cliCfg, infra)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr, "Checking requirement for ambiguities...")

	outcome, err := services.TestCases().Generate(ctx, generateSessionFlag, input)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	result := outcome.Result
	if outcome.Pending != nil {
		reply, err := promptAnswers(cmd.InOrStdin(), stderr, outcome.Pending.Questions)
		if err != nil {
			return err
		}

		fmt.Fprintln(stderr, "Generating test cases...")
		result, err = services.TestCases().Resume(ctx, outcome.Pending.SessionID, outcome.Pending.RunID, reply)
		if err != nil {
			return fmt.Errorf("generation failed: %w", err)
		}
	}

	printSummary(stderr, result)

	out := cmd.OutOrStdout()
	if generateOutputFlag != "" {
		f, err := os.Create(generateOutputFlag)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := services.Exports().Write(out, format, result.TestCases); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	if generateOutputFlag != "" {
		fmt.Fprintf(stderr, "Wrote %s\n", generateOutputFlag)
	}
	return nil
}

func readInput(requirementPath, contractPath string) (model.RequirementInput, error) {
	text, err := os.ReadFile(requirementPath)
	if err != nil {
		return model.RequirementInput{}, fmt.Errorf("reading requirement: %w", err)
	}

	input := model.RequirementInput{Text: string(text)}
	if contractPath != "" {
		contract, err := os.ReadFile(contractPath)
		if err != nil {
			return model.RequirementInput{}, fmt.Errorf("reading api contract: %w", err)
		}
		input.APIContract = string(contract)
	}
	return input, nil
}

func printSummary(w io.Writer, result *model.GenerationResult) {
	s := result.Summary()
	fmt.Fprintf(w, "\nGenerated %d test cases (%d positive, %d negative, %d neutral)\n",
		s.Total, s.Positive, s.Negative, s.Neutral)

	if len(result.FeatureGaps) > 0 {
		fmt.Fprintln(w, "Feature gaps:")
		for _, gap := range result.FeatureGaps {
			fmt.Fprintf(w, "  - %s\n", gap)
		}
	}
	fmt.Fprintln(w)
}
