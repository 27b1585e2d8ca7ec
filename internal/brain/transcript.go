package brain

import "strings"

const noAnswer = "No answer provided."

// QAPair is one rendered clarification exchange.
type QAPair struct {
	Question string
	Answer   string
}

// BuildTranscript pairs each question with its positional answer. The result
// always has one pair per question; missing or blank answers become
// "No answer provided." and surplus answers are ignored.
func BuildTranscript(questions, answers []string) []QAPair {
	pairs := make([]QAPair, len(questions))
	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = strings.TrimSpace(answers[i])
		}
		if answer == "" {
			answer = noAnswer
		}
		pairs[i] = QAPair{Question: q, Answer: answer}
	}
	return pairs
}

// RenderTranscript formats pairs as "Q: ...\nA: ..." blocks separated by a blank line.
func RenderTranscript(pairs []QAPair) string {
	blocks := make([]string, len(pairs))
	for i, p := range pairs {
		blocks[i] = "Q: " + p.Question + "\nA: " + p.Answer
	}
	return strings.Join(blocks, "\n\n")
}
