package service

import (
	"fmt"
	"strings"

	"ai_diary/internal/llm"
	"ai_diary/internal/models"
)

// enumMarkers are the leading/trailing characters stripped from each line
// of a question response: list numbers, periods and spaces.
const enumMarkers = "0123456789. "

// parseQuestions splits a raw model response into an ordered question
// list: one question per non-blank line, enumeration markers removed.
// Purely cosmetic normalization; a line is not validated to actually be a
// question. Idempotent.
func parseQuestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		q := strings.Trim(line, enumMarkers)
		if q == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}

// buildTranscript renders question/answer pairs one per line, question
// first, in the order they were asked.
func buildTranscript(rounds ...[]models.QA) string {
	var lines []string
	for _, round := range rounds {
		for _, qa := range round {
			lines = append(lines, qa.Question+" "+qa.Answer)
		}
	}
	return strings.Join(lines, "\n")
}

func buildQuestionPrompt(summary string) llm.Prompt {
	user := fmt.Sprintf(
		"以下の出来事を日記に書くために、質問を3つ作ってください。\n"+
			"出来事: %s\n"+
			"質問は答えやすく、感情や背景を引き出すようにしてください。",
		summary,
	)
	return llm.Prompt{User: user}
}

func buildDeeperPrompt(summary, transcript string) llm.Prompt {
	user := fmt.Sprintf(
		"以下の出来事と最初の質問回答をふまえて、さらに深掘りする質問を3つ作ってください。\n"+
			"出来事: %s\n"+
			"最初の質問と回答:\n%s\n"+
			"質問は答えやすく、気持ちや理由を引き出すようにしてください。",
		summary, transcript,
	)
	return llm.Prompt{User: user}
}

func buildDiaryPrompt(summary, transcript string) llm.Prompt {
	var sb strings.Builder
	sb.WriteString("以下の出来事")
	if transcript != "" {
		sb.WriteString("と質問回答")
	}
	sb.WriteString("をもとに、自然で感情のこもった日記を書いてください。\n")
	sb.WriteString("出来事: " + summary + "\n")
	if transcript != "" {
		sb.WriteString("質問と回答:\n" + transcript + "\n")
	}
	sb.WriteString("\n日記は『です・ます調』でお願いします。")
	return llm.Prompt{User: sb.String()}
}
