// =============================================================================
// 📦 AgentRun 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("config.yaml").
//	    WithEnvPrefix("AGENTRUN").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → AGENTRUN_ 环境变量 → 约定凭证变量
// =============================================================================
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BaSui01/agentrun/agent"
	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/factory"
)

// =============================================================================
// 🎯 核心配置结构
// =============================================================================

// Config 是 AgentRun 的完整配置结构
type Config struct {
	// Provider 使用的 LLM 厂商: openai, anthropic, google, groq, ollama, azure
	Provider string `yaml:"provider" env:"PROVIDER"`

	// Task 任务配置
	Task TaskConfig `yaml:"task" env:"TASK"`

	// Browser 浏览器会话配置
	Browser BrowserConfig `yaml:"browser" env:"BROWSER"`

	// LLM 模型与凭证配置
	LLM LLMConfig `yaml:"llm" env:"LLM"`

	// Log 运行日志配置
	Log LogConfig `yaml:"log" env:"LOG"`
}

// TaskConfig 任务配置（与 agent.TaskConfig 兼容）
type TaskConfig struct {
	// 任务描述
	Text string `yaml:"text" env:"TEXT"`
	// 启动后自动访问的地址
	InitialURL string `yaml:"initial_url" env:"INITIAL_URL"`
	// 是否发送页面截图给模型
	UseVision bool `yaml:"use_vision" env:"USE_VISION"`
	// 最大执行步数
	MaxSteps int `yaml:"max_steps" env:"MAX_STEPS"`
	// 单步超时
	StepTimeout time.Duration `yaml:"step_timeout" env:"STEP_TIMEOUT"`
	// 快速模式
	FlashMode bool `yaml:"flash_mode" env:"FLASH_MODE"`
	// 追加系统提示词
	ExtendSystemPrompt string `yaml:"extend_system_prompt" env:"EXTEND_SYSTEM_PROMPT"`
	// 覆盖系统提示词
	OverrideSystemPrompt string `yaml:"override_system_prompt" env:"OVERRIDE_SYSTEM_PROMPT"`
	// 允许访问的域名，逗号分隔
	AllowedDomains []string `yaml:"allowed_domains" env:"ALLOWED_DOMAINS"`
	// 代理工作目录
	FileSystemPath string `yaml:"file_system_path" env:"FILE_SYSTEM_PATH"`
	// 下载目录
	DownloadsPath string `yaml:"downloads_path" env:"DOWNLOADS_PATH"`
	// 占位符到真实值的映射，真实值不进入模型上下文与日志。
	// 环境变量形如 AGENTRUN_TASK_SECRET_<占位符名>。
	SensitiveData map[string]string `yaml:"sensitive_data" env:"-"`
}

// BrowserConfig 浏览器配置（与 agent.BrowserConfig 兼容）
type BrowserConfig struct {
	// 云端托管会话
	UseCloud bool `yaml:"use_cloud" env:"USE_CLOUD"`
	// CDP 附着地址，留空则本地启动
	CDPURL string `yaml:"cdp_url" env:"CDP_URL"`
	// 无头模式
	Headless bool `yaml:"headless" env:"HEADLESS"`
	// 浏览器可执行文件路径
	ExecutablePath string `yaml:"executable_path" env:"EXECUTABLE_PATH"`
	// 用户数据目录（cookies、缓存）
	UserDataDir string `yaml:"user_data_dir" env:"USER_DATA_DIR"`
	// 配置文件目录
	ProfileDir string `yaml:"profile_dir" env:"PROFILE_DIR"`
	// 代理地址
	ProxyURL string `yaml:"proxy_url" env:"PROXY_URL"`
}

// CredentialConfig 单个厂商的凭证与模型
type CredentialConfig struct {
	// API Key
	APIKey string `yaml:"api_key" env:"API_KEY"`
	// 接入端点（第三方中转或 Azure 资源地址）
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`
	// 模型名称
	Model string `yaml:"model" env:"MODEL"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	// 采样温度 0.0-2.0，越低越确定
	Temperature float32 `yaml:"temperature" env:"TEMPERATURE"`
	// 最大生成 token 数，0 表示交给厂商默认
	MaxTokens int `yaml:"max_tokens" env:"MAX_TOKENS"`
	// 请求超时
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	OpenAI    CredentialConfig `yaml:"openai" env:"OPENAI"`
	Anthropic CredentialConfig `yaml:"anthropic" env:"ANTHROPIC"`
	Google    CredentialConfig `yaml:"google" env:"GOOGLE"`
	Groq      CredentialConfig `yaml:"groq" env:"GROQ"`
	Ollama    CredentialConfig `yaml:"ollama" env:"OLLAMA"`
	Azure     CredentialConfig `yaml:"azure" env:"AZURE"`
	// Azure API 版本
	AzureAPIVersion string `yaml:"azure_api_version" env:"AZURE_API_VERSION"`
}

// LogConfig 运行日志配置
type LogConfig struct {
	// 日志目录
	Dir string `yaml:"dir" env:"DIR"`
	// 是否导出 JSON 汇总
	JSONExport bool `yaml:"json_export" env:"JSON_EXPORT"`
	// 是否回显到控制台
	ConsoleEcho bool `yaml:"console_echo" env:"CONSOLE_ECHO"`
}

// =============================================================================
// 🔍 转换与验证
// =============================================================================

// AgentTask 转换为 agent 包的任务配置。
func (c *Config) AgentTask() agent.TaskConfig {
	return agent.TaskConfig{
		Task:                 c.Task.Text,
		InitialURL:           c.Task.InitialURL,
		UseVision:            c.Task.UseVision,
		MaxSteps:             c.Task.MaxSteps,
		StepTimeout:          c.Task.StepTimeout,
		FlashMode:            c.Task.FlashMode,
		ExtendSystemPrompt:   c.Task.ExtendSystemPrompt,
		OverrideSystemPrompt: c.Task.OverrideSystemPrompt,
		SensitiveData:        c.Task.SensitiveData,
		AllowedDomains:       c.Task.AllowedDomains,
		FileSystemPath:       c.Task.FileSystemPath,
		DownloadsPath:        c.Task.DownloadsPath,
	}
}

// AgentBrowser 转换为 agent 包的浏览器配置。
func (c *Config) AgentBrowser() agent.BrowserConfig {
	return agent.BrowserConfig{
		UseCloud:       c.Browser.UseCloud,
		CDPURL:         c.Browser.CDPURL,
		Headless:       c.Browser.Headless,
		ExecutablePath: c.Browser.ExecutablePath,
		UserDataDir:    c.Browser.UserDataDir,
		ProfileDir:     c.Browser.ProfileDir,
		ProxyURL:       c.Browser.ProxyURL,
	}
}

// FactoryConfig 转换为 llm/factory 的构造配置。
func (c *Config) FactoryConfig() factory.Config {
	sampling := llm.SamplingParams{Temperature: c.LLM.Temperature, MaxTokens: c.LLM.MaxTokens}
	var out factory.Config

	out.OpenAI.APIKey = c.LLM.OpenAI.APIKey
	out.OpenAI.BaseURL = c.LLM.OpenAI.Endpoint
	out.OpenAI.Model = c.LLM.OpenAI.Model
	out.OpenAI.Timeout = c.LLM.Timeout
	out.OpenAI.Sampling = sampling

	out.Anthropic.APIKey = c.LLM.Anthropic.APIKey
	out.Anthropic.BaseURL = c.LLM.Anthropic.Endpoint
	out.Anthropic.Model = c.LLM.Anthropic.Model
	out.Anthropic.Timeout = c.LLM.Timeout
	out.Anthropic.Sampling = sampling

	out.Google.APIKey = c.LLM.Google.APIKey
	out.Google.BaseURL = c.LLM.Google.Endpoint
	out.Google.Model = c.LLM.Google.Model
	out.Google.Timeout = c.LLM.Timeout
	out.Google.Sampling = sampling

	out.Groq.APIKey = c.LLM.Groq.APIKey
	out.Groq.BaseURL = c.LLM.Groq.Endpoint
	out.Groq.Model = c.LLM.Groq.Model
	out.Groq.Timeout = c.LLM.Timeout
	out.Groq.Sampling = sampling

	out.Ollama.BaseURL = c.LLM.Ollama.Endpoint
	out.Ollama.Model = c.LLM.Ollama.Model
	out.Ollama.Timeout = c.LLM.Timeout
	out.Ollama.Sampling = sampling

	out.Azure.APIKey = c.LLM.Azure.APIKey
	out.Azure.BaseURL = c.LLM.Azure.Endpoint
	out.Azure.Model = c.LLM.Azure.Model
	out.Azure.Timeout = c.LLM.Timeout
	out.Azure.Sampling = sampling
	out.Azure.APIVersion = c.LLM.AzureAPIVersion

	return out
}

// Model 返回当前 Provider 生效的模型名称。
func (c *Config) Model() string {
	switch strings.ToLower(c.Provider) {
	case "openai":
		return c.LLM.OpenAI.Model
	case "anthropic", "claude":
		return c.LLM.Anthropic.Model
	case "google", "gemini":
		return c.LLM.Google.Model
	case "groq":
		return c.LLM.Groq.Model
	case "ollama":
		return c.LLM.Ollama.Model
	case "azure":
		return c.LLM.Azure.Model
	default:
		return ""
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Task.Text) == "" {
		errs = append(errs, "task text is required")
	}
	if !isSupportedProvider(c.Provider) {
		errs = append(errs, fmt.Sprintf("unknown provider %q", c.Provider))
	}
	if c.Task.MaxSteps <= 0 {
		errs = append(errs, "max_steps must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, "temperature must be between 0 and 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

func isSupportedProvider(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai", "anthropic", "claude", "google", "gemini", "groq", "ollama", "azure":
		return true
	}
	return false
}
