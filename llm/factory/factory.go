// Package factory 根据 provider 名称构造对应的 LLM Provider。
//
// 凭证缺失属于启动期致命错误：工厂在构造阶段立即返回
// types.ErrConfiguration，而不是等到首个请求才暴露 401。
package factory

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/providers"
	claude "github.com/BaSui01/agentrun/llm/providers/anthropic"
	"github.com/BaSui01/agentrun/llm/providers/azure"
	"github.com/BaSui01/agentrun/llm/providers/gemini"
	"github.com/BaSui01/agentrun/llm/providers/groq"
	"github.com/BaSui01/agentrun/llm/providers/ollama"
	"github.com/BaSui01/agentrun/llm/providers/openai"
	"github.com/BaSui01/agentrun/types"
)

// Config 汇总所有已支持 Provider 的配置，按名称选用其中一份。
type Config struct {
	OpenAI    providers.OpenAIConfig `yaml:"openai"`
	Anthropic providers.ClaudeConfig `yaml:"anthropic"`
	Google    providers.GeminiConfig `yaml:"google"`
	Groq      providers.GroqConfig   `yaml:"groq"`
	Ollama    providers.OllamaConfig `yaml:"ollama"`
	Azure     providers.AzureConfig  `yaml:"azure"`
}

// SupportedProviders 返回工厂可识别的 provider 名称（已排序）。
func SupportedProviders() []string {
	names := []string{"openai", "anthropic", "google", "groq", "ollama", "azure"}
	sort.Strings(names)
	return names
}

// New 按名称构造 Provider。名称不区分大小写。
//
// 凭证要求：
//   - openai / anthropic / google / groq：APIKey 必填
//   - azure：APIKey 与 Endpoint(BaseURL) 均必填
//   - ollama：本地服务，无需凭证
func New(name string, cfg Config, logger *zap.Logger) (llm.Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, missingCredential("openai", "OPENAI_API_KEY")
		}
		return openai.New(cfg.OpenAI, logger), nil

	case "anthropic", "claude":
		if cfg.Anthropic.APIKey == "" {
			return nil, missingCredential("anthropic", "ANTHROPIC_API_KEY")
		}
		return claude.New(cfg.Anthropic, logger), nil

	case "google", "gemini":
		if cfg.Google.APIKey == "" {
			return nil, missingCredential("google", "GOOGLE_API_KEY")
		}
		return gemini.New(cfg.Google, logger), nil

	case "groq":
		if cfg.Groq.APIKey == "" {
			return nil, missingCredential("groq", "GROQ_API_KEY")
		}
		return groq.New(cfg.Groq, logger), nil

	case "ollama":
		return ollama.New(cfg.Ollama, logger), nil

	case "azure":
		if cfg.Azure.APIKey == "" {
			return nil, missingCredential("azure", "AZURE_OPENAI_KEY")
		}
		if cfg.Azure.BaseURL == "" {
			return nil, types.NewError(types.ErrConfiguration,
				"azure: endpoint is required (set AZURE_OPENAI_ENDPOINT)").
				WithProvider("azure")
		}
		return azure.New(cfg.Azure, logger), nil

	default:
		return nil, types.NewError(types.ErrConfiguration,
			fmt.Sprintf("unknown provider %q, supported: %s",
				name, strings.Join(SupportedProviders(), ", ")))
	}
}

func missingCredential(provider, envVar string) *types.Error {
	return types.NewError(types.ErrConfiguration,
		fmt.Sprintf("%s: API key is required (set %s)", provider, envVar)).
		WithProvider(provider)
}
