package llm

import (
	"context"
	"strings"
)

// Mock is an offline placeholder used when llm.provider is "mock". It
// answers question prompts with a fixed numbered list and everything else
// with a canned diary paragraph, so the full flow can be exercised without
// an API key.
type Mock struct{}

func (Mock) Complete(_ context.Context, prompt Prompt) (string, error) {
	if strings.Contains(prompt.User, "質問") {
		return "1. 今日一番印象に残ったことは何ですか？\n2. そのときどんな気持ちでしたか？\n3. 明日はどう過ごしたいですか？", nil
	}
	var sb strings.Builder
	sb.WriteString("今日は穏やかな一日でした。")
	sb.WriteString("書き留めた出来事を振り返ると、小さな発見がいくつもあったと感じます。")
	sb.WriteString("明日も良い一日になりますように。")
	return sb.String(), nil
}
