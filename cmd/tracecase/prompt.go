package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"basegraph.app/tracecase/internal/model"
)

const skipCommand = ":skip"

// promptAnswers asks each question on out and reads one line per answer from
// in. An empty line leaves the question unanswered; ":skip" abandons
// clarification and generates without a transcript. EOF stops asking and keeps
// what was answered so far.
func promptAnswers(in io.Reader, out io.Writer, questions []string) (model.ClarificationReply, error) {
	fmt.Fprintf(out, "\nThe requirement needs clarification (%d questions).\n", len(questions))
	fmt.Fprintf(out, "Press enter to leave a question unanswered, or type %s to skip all.\n\n", skipCommand)

	scanner := bufio.NewScanner(in)
	answers := make([]string, 0, len(questions))

	for i, q := range questions {
		fmt.Fprintf(out, "[%d/%d] %s\n> ", i+1, len(questions), q)
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == skipCommand {
			fmt.Fprintln(out)
			return model.ClarificationReply{Skip: true}, nil
		}
		answers = append(answers, line)
	}
	fmt.Fprintln(out)

	if err := scanner.Err(); err != nil {
		return model.ClarificationReply{}, fmt.Errorf("reading answers: %w", err)
	}
	return model.ClarificationReply{Answers: answers}, nil
}
