// Package groq 实现 Groq 的 LLM Provider，API 与 OpenAI 兼容。
package groq

import (
	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/llm/providers"
	"github.com/BaSui01/agentrun/llm/providers/openaicompat"
)

// New 创建 Groq Provider。
func New(cfg providers.GroqConfig, logger *zap.Logger) *openaicompat.Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai"
	}
	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}
	return openaicompat.New(openaicompat.Config{
		ProviderName: "groq",
		APIKey:       cfg.APIKey,
		BaseURL:      baseURL,
		DefaultModel: model,
		Sampling:     cfg.Sampling,
		Timeout:      cfg.Timeout,
	}, logger)
}
