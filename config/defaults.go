package config

import "time"

// 默认任务：OA 系统待办采集。登录凭证不写入任务文本，
// 通过 SensitiveData 占位符在执行期注入。
const defaultTask = `
# OA系统待办采集任务

## 任务目标
登录OA系统，筛选并采集"待办事宜"标签页中属于需求类型的待办项，生成需求汇总报告。
核心要求：只采集需求类待办项，非需求类跳过！

### 需求判断标准（满足任一条件即为需求）
1. 标题关键词：包含"需求"、"功能"、"开发"、"系统"、"平台"、"项目"、"应用"等
2. 发起人特征：由业务部门/用户/客户提交（非IT内部流程）
3. 内容特征：详情页包含"需求描述"、"功能说明"、"业务场景"、"用户故事"等
4. 排除项：不包含"周报"、"工时"、"考勤"、"报销"、"请假"、"培训"、"通知"等非需求关键词

### 关键要求
- 必须点击每条待办项进入详情页，通过标题+详情内容双重判断是否为需求
- 每判断一条记录到Memory："已检查: [标题] - 是否需求: [是/否]"
- 只有确认为需求的才采集详细信息并记录："已采集需求: [标题]"
- 文本驱动点击：先提取待办标题和索引，按文本匹配选择索引再点击
- 等待与重试：点击后等待3-5秒验证页面切换；每步最多重试3次

## 执行流程

### 步骤1：登录系统
1.1 如果看到二维码，点击切换到"账号密码登录"
1.2 登录名填 x_username，密码填 x_password，点击"登录"按钮，等待3秒
验证：页面显示"欢迎回来"或"门户导航"

### 步骤2：进入待办列表
- 点击页面右侧的"待办"入口（旁边有"您有X条消息"字样）
- 等待2秒，确保跳转到"待办事宜"标签页，记录待办总数到Memory

### 步骤3：逐条筛选与采集（对每条待办项循环执行）
A. 提取下一条未检查的待办项标题并点击，等待3秒进入详情页
B. 提取页面完整标题，记录到Memory后继续判断
C. 根据标题、发起人、内容关键词与流程类型判断是否为需求，
   输出需求=是/否并给出判断依据，结果与进度记录到Memory
D. 判定为需求时采集：标题、发起人、发起时间、需求描述（100-200字）、
   附件有无、流程状态，采集结果记录到Memory；否则直接跳过
E. 返回"待办事宜"标签页，等待3秒验证回到待办列表
F. 继续下一条，直到已检查数量等于待办总数

### 步骤4：生成需求报告（必须执行，即使采集失败也要生成）
1. 从Memory整理所有"已采集需求"数据，统计已检查总数与需求数量
2. 按需求列表表格 + 统计分析 + 筛选日志的结构生成 Markdown 内容
3. 调用 write_file 保存为 oa_requirements_report.md 并验证保存成功
`

// 各厂商默认模型
const (
	defaultOpenAIModel    = "o3"
	defaultAnthropicModel = "claude-sonnet-4-0"
	defaultGoogleModel    = "gemini-flash-latest"
	defaultGroqModel      = "llama-3.3-70b-versatile"
	defaultOllamaModel    = "llama2"
	defaultAzureModel     = "gpt-4.1-mini"
)

// DefaultConfig 返回内置默认配置。
func DefaultConfig() *Config {
	return &Config{
		Provider: "openai",
		Task: TaskConfig{
			Text:                 defaultTask,
			InitialURL:           "http://10.141.42.231:8080/",
			UseVision:            false,
			MaxSteps:             70,
			StepTimeout:          130 * time.Second,
			FlashMode:            false,
			OverrideSystemPrompt: "用简体中文回答我的问题和任务，最后保存的文件里面也用简体中文",
		},
		Browser: BrowserConfig{
			// 默认附着到已开启远程调试的本地 Chrome:
			// chrome --remote-debugging-port=9222
			CDPURL:   "http://127.0.0.1:9222",
			Headless: false,
		},
		LLM: LLMConfig{
			Temperature: 0.1,
			Timeout:     60 * time.Second,
			OpenAI:      CredentialConfig{Model: defaultOpenAIModel},
			Anthropic:   CredentialConfig{Model: defaultAnthropicModel},
			Google:      CredentialConfig{Model: defaultGoogleModel},
			Groq:        CredentialConfig{Model: defaultGroqModel},
			Ollama:      CredentialConfig{Endpoint: "http://localhost:11434", Model: defaultOllamaModel},
			Azure:       CredentialConfig{Model: defaultAzureModel},
		},
		Log: LogConfig{
			Dir:         "logs",
			JSONExport:  true,
			ConsoleEcho: true,
		},
	}
}
