// Package openai 实现 OpenAI（及 OpenAI 格式第三方中转）的 LLM Provider。
package openai

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/llm/providers"
	"github.com/BaSui01/agentrun/llm/providers/openaicompat"
)

// New 创建 OpenAI Provider。
// cfg.BaseURL 非空时指向第三方中转服务，认证方式不变。
func New(cfg providers.OpenAIConfig, logger *zap.Logger) *openaicompat.Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	compat := openaicompat.Config{
		ProviderName: "openai",
		APIKey:       cfg.APIKey,
		BaseURL:      baseURL,
		DefaultModel: cfg.Model,
		Sampling:     cfg.Sampling,
		Timeout:      cfg.Timeout,
	}
	if cfg.Organization != "" {
		org := cfg.Organization
		compat.BuildHeaders = func(req *http.Request, apiKey string) {
			req.Header.Set("Authorization", "Bearer "+apiKey)
			req.Header.Set("OpenAI-Organization", org)
		}
	}
	return openaicompat.New(compat, logger)
}
