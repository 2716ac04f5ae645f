package playground

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, req Request) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Mock response\n\n")
	sb.WriteString(fmt.Sprintf("- model: `%s`\n", req.Model))
	sb.WriteString(fmt.Sprintf("- temperature: %g, max_tokens: %d\n", req.Temperature, req.MaxTokens))
	sb.WriteString(fmt.Sprintf("- presence: %g, frequency: %g\n\n", req.PresencePenalty, req.FrequencyPenalty))
	sb.WriteString("> ")
	sb.WriteString(req.User)
	sb.WriteString("\n")
	return sb.String(), nil
}
