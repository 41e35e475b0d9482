package llm

import (
	"context"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1"

type anthropicImpl struct {
	client      *anthropic.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func newAnthropic(endpoint, apiKey, model string, temperature float64, timeout time.Duration) *anthropicImpl {
	opts := make([]anthropic.ClientOption, 0, 1)
	// 默认 endpoint 指向 openai，此时使用 SDK 内置地址
	if endpoint != "" && endpoint != defaultOpenAIEndpoint {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimSuffix(endpoint, "/")))
	}
	return &anthropicImpl{
		client:      anthropic.NewClient(apiKey, opts...),
		model:       model,
		temperature: float32(temperature),
		timeout:     timeout,
	}
}

func (a *anthropicImpl) Enabled() bool { return true }

func (a *anthropicImpl) Complete(ctx context.Context, system string, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := a.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:       anthropic.Model(a.model),
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: &a.temperature,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		logger.Errorf(ctx, "anthropic completion model: %s elapsed: %s err: %+v", a.model, time.Since(start), err)
		return "", code.LLMRequestErr.WithErr(err)
	}

	text := extractText(resp)
	if text == "" {
		return "", code.LLMParseErr.WithMsg("no text block in response")
	}
	logger.Infof(ctx, "anthropic completion model: %s elapsed: %s", a.model, time.Since(start))
	return text, nil
}

func extractText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return strings.TrimSpace(*block.Text)
		}
	}
	return ""
}
