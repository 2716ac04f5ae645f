package playground

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is one chat completion call: a system/user exchange plus sampling parameters.
type Request struct {
	Model            string
	System           string
	User             string
	Temperature      float64
	MaxTokens        int
	PresencePenalty  float64
	FrequencyPenalty float64
}

// RequestFrom copies the request fields out of a settings snapshot.
func RequestFrom(s Settings) Request {
	return Request{
		Model:            s.Model,
		System:           s.SystemPrompt,
		User:             s.UserPrompt,
		Temperature:      s.Temperature,
		MaxTokens:        s.MaxTokens,
		PresencePenalty:  s.PresencePenalty,
		FrequencyPenalty: s.FrequencyPenalty,
	}
}

// LLMSettings 提供给具体实现的基础配置。模型由每次请求的参数决定。
type LLMSettings struct {
	APIKey  string
	BaseURL string
}
