package providers

import (
	"time"

	"github.com/BaSui01/agentrun/llm"
)

// BaseProviderConfig 所有 Provider 共享的基础配置字段。
// 通过嵌入此结构体，各 Provider 的 Config 自动获得凭证、端点、
// 模型与采样参数，避免重复定义。
type BaseProviderConfig struct {
	APIKey   string             `json:"api_key" yaml:"api_key"`
	BaseURL  string             `json:"base_url" yaml:"base_url"`
	Model    string             `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout  time.Duration      `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Sampling llm.SamplingParams `json:"sampling,omitempty" yaml:"sampling,omitempty"`
}

// OpenAIConfig OpenAI Provider 配置。
// BaseURL 可指向第三方中转服务（OPENAI_ENDPOINT）。
type OpenAIConfig struct {
	BaseProviderConfig `yaml:",inline"`
	Organization       string `json:"organization,omitempty" yaml:"organization,omitempty"`
}

// ClaudeConfig Anthropic Claude Provider 配置
type ClaudeConfig struct {
	BaseProviderConfig `yaml:",inline"`
}

// GeminiConfig Google Gemini Provider 配置
type GeminiConfig struct {
	BaseProviderConfig `yaml:",inline"`
}

// GroqConfig Groq Provider 配置
type GroqConfig struct {
	BaseProviderConfig `yaml:",inline"`
}

// OllamaConfig 本地 Ollama 配置，无需凭证
type OllamaConfig struct {
	BaseProviderConfig `yaml:",inline"`
}

// AzureConfig Azure OpenAI 配置，Endpoint 必填
type AzureConfig struct {
	BaseProviderConfig `yaml:",inline"`
	APIVersion         string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
}
