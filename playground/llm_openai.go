package playground

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// It also serves OpenAI compatible gateways through BaseURL.
type OpenAILLM struct {
	APIKey string
	Opts   []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	// 单次尝试，不做 SDK 内置重试。
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{APIKey: cfg.APIKey, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return "", &ConfigurationError{Message: "API key missing; set llm.api_key or the OPENAI_API_KEY environment variable"}
	}
	opts := make([]option.RequestOption, 0, len(o.Opts)+1)
	opts = append(opts, o.Opts...)
	opts = append(opts, option.WithAPIKey(o.APIKey))
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(req.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature:      openai.Float(req.Temperature),
		MaxTokens:        openai.Int(int64(req.MaxTokens)),
		PresencePenalty:  openai.Float(req.PresencePenalty),
		FrequencyPenalty: openai.Float(req.FrequencyPenalty),
	})
	if err != nil {
		return "", classifyOpenAIError(ctx, err)
	}

	raw := resp.RawJSON()
	if msg := gjson.Get(raw, "error.message"); msg.Exists() {
		return "", &ProviderError{Message: msg.String()}
	}
	if len(resp.Choices) == 0 {
		return "", &DecodingError{Message: "response has no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(ctx context.Context, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{StatusCode: apiErr.StatusCode, Message: providerMessage(apiErr)}
	}
	var (
		urlErr *url.Error
		netErr net.Error
	)
	switch {
	case ctx.Err() != nil:
		return &TransportError{Cause: ctx.Err()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Cause: err}
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return &TransportError{Cause: err}
	}
	return &DecodingError{Message: "unexpected response body", Cause: err}
}

// providerMessage 取 error.message；SDK 字段为空时回退到原始 JSON。
func providerMessage(apiErr *openai.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	raw := apiErr.RawJSON()
	for _, path := range []string{"error.message", "message"} {
		if msg := gjson.Get(raw, path); msg.Exists() && msg.String() != "" {
			return msg.String()
		}
	}
	if text := http.StatusText(apiErr.StatusCode); text != "" {
		return text
	}
	return "provider request failed"
}
