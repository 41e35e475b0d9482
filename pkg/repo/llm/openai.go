package llm

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/middleware/logger"
)

type openaiImpl struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

func newOpenAI(endpoint, apiKey, model string, temperature float64, timeout time.Duration) *openaiImpl {
	conf := openai.DefaultConfig(apiKey)
	if endpoint != "" {
		conf.BaseURL = strings.TrimSuffix(endpoint, "/")
	}
	return &openaiImpl{
		client:      openai.NewClientWithConfig(conf),
		model:       model,
		temperature: float32(temperature),
		timeout:     timeout,
	}
}

func (o *openaiImpl) Enabled() bool { return true }

func (o *openaiImpl) Complete(ctx context.Context, system string, prompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   maxTokens,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		logger.Errorf(ctx, "openai completion model: %s elapsed: %s err: %+v", o.model, time.Since(start), err)
		return "", code.LLMRequestErr.WithErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", code.LLMParseErr.WithMsg("no choices in response")
	}

	logger.Infof(ctx, "openai completion model: %s prompt_tokens: %d completion_tokens: %d elapsed: %s",
		o.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, time.Since(start))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
