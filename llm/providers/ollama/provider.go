// Package ollama 实现本地 Ollama 的 LLM Provider。
// Ollama 的 /v1 端点与 OpenAI 兼容，且不需要凭证。
package ollama

import (
	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/llm/providers"
	"github.com/BaSui01/agentrun/llm/providers/openaicompat"
)

// New 创建 Ollama Provider。
func New(cfg providers.OllamaConfig, logger *zap.Logger) *openaicompat.Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "llama2"
	}
	return openaicompat.New(openaicompat.Config{
		ProviderName: "ollama",
		BaseURL:      baseURL,
		DefaultModel: model,
		Sampling:     cfg.Sampling,
		Timeout:      cfg.Timeout,
	}, logger)
}
