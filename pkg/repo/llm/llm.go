package llm

import (
	"context"
	"time"

	"github.com/scienceol/labmate/internal/config"
	"github.com/scienceol/labmate/pkg/common/code"
	"github.com/scienceol/labmate/pkg/repo"
)

const maxTokens = 1024

// NewLLMRepo 根据 LLM_PROVIDER 选择实现，未配置 key 时返回禁用实现
func NewLLMRepo() repo.LLMRepo {
	conf := config.Global().LLM
	if conf.APIKey == "" {
		return &disabled{}
	}

	timeout := time.Duration(conf.TimeoutSeconds) * time.Second
	switch conf.Provider {
	case config.LLMOpenAI:
		return newOpenAI(conf.Endpoint, conf.APIKey, conf.Model, conf.Temperature, timeout)
	case config.LLMAnthropic:
		return newAnthropic(conf.Endpoint, conf.APIKey, conf.Model, conf.Temperature, timeout)
	default:
		return &disabled{}
	}
}

type disabled struct{}

func (*disabled) Enabled() bool { return false }

func (*disabled) Complete(_ context.Context, _ string, _ string) (string, error) {
	return "", code.LLMUnavailable
}
