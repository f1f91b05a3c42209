package agent

import "time"

// TaskConfig 描述一次自动化任务及其能力开关。
type TaskConfig struct {
	// Task 自然语言任务描述
	Task string `json:"task" yaml:"task"`

	// InitialURL 启动后自动访问的地址
	InitialURL string `json:"initial_url,omitempty" yaml:"initial_url,omitempty"`

	// UseVision 是否向模型发送页面截图
	UseVision bool `json:"use_vision" yaml:"use_vision"`

	// MaxSteps 最大执行步数，超出后任务判定失败
	MaxSteps int `json:"max_steps" yaml:"max_steps"`

	// StepTimeout 单步超时
	StepTimeout time.Duration `json:"step_timeout" yaml:"step_timeout"`

	// FlashMode 精简提示词模式，牺牲细节换取速度
	FlashMode bool `json:"flash_mode" yaml:"flash_mode"`

	// ExtendSystemPrompt 追加到默认系统提示词之后
	ExtendSystemPrompt string `json:"extend_system_prompt,omitempty" yaml:"extend_system_prompt,omitempty"`

	// OverrideSystemPrompt 完全替换默认系统提示词
	OverrideSystemPrompt string `json:"override_system_prompt,omitempty" yaml:"override_system_prompt,omitempty"`

	// SensitiveData 占位符到真实值的映射，真实值不进入模型上下文与日志
	SensitiveData map[string]string `json:"-" yaml:"-"`

	// AllowedDomains 为空表示不限制
	AllowedDomains []string `json:"allowed_domains,omitempty" yaml:"allowed_domains,omitempty"`

	// FileSystemPath 代理可读写的工作目录
	FileSystemPath string `json:"file_system_path,omitempty" yaml:"file_system_path,omitempty"`

	// DownloadsPath 下载文件落盘目录
	DownloadsPath string `json:"downloads_path,omitempty" yaml:"downloads_path,omitempty"`
}

// BrowserMode 浏览器会话的三种接入方式。
type BrowserMode string

const (
	// BrowserLocal 本地启动浏览器进程
	BrowserLocal BrowserMode = "local"
	// BrowserCDP 通过 CDP 地址附着到已运行的浏览器
	BrowserCDP BrowserMode = "cdp"
	// BrowserCloud 使用云端托管会话
	BrowserCloud BrowserMode = "cloud"
)

// BrowserConfig 描述浏览器会话。三种方式互斥，按
// 云端 > CDP > 本地 的优先级判定。
type BrowserConfig struct {
	// UseCloud 使用云端托管浏览器（需要云端 API key）
	UseCloud bool `json:"use_cloud" yaml:"use_cloud"`

	// CDPURL 形如 http://127.0.0.1:9222，非空时附着而不是新启进程
	CDPURL string `json:"cdp_url,omitempty" yaml:"cdp_url,omitempty"`

	// 以下字段仅本地启动时生效
	Headless       bool   `json:"headless" yaml:"headless"`
	ExecutablePath string `json:"executable_path,omitempty" yaml:"executable_path,omitempty"`
	UserDataDir    string `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty"`
	ProfileDir     string `json:"profile_dir,omitempty" yaml:"profile_dir,omitempty"`
	ProxyURL       string `json:"proxy_url,omitempty" yaml:"proxy_url,omitempty"`
}

// Mode 返回配置实际生效的接入方式。
func (c BrowserConfig) Mode() BrowserMode {
	switch {
	case c.UseCloud:
		return BrowserCloud
	case c.CDPURL != "":
		return BrowserCDP
	default:
		return BrowserLocal
	}
}
