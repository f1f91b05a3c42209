package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/llm"
)

const defaultSystemPrompt = "你是一个自动化任务代理。逐步完成用户给出的任务，" +
	"每一步说明你做了什么。任务完成后，最后一行输出 DONE: 加最终结果摘要。"

// 模型用该前缀声明任务结束
const doneMarker = "DONE:"

// ChatAgent 是内置的纯文本代理：通过多轮对话驱动 LLM 执行任务，
// 不接管浏览器。浏览器驱动作为外部协作方实现 Agent 接口后可替换它。
type ChatAgent struct {
	provider llm.Provider
	task     TaskConfig
	logger   *zap.Logger
}

// NewChatAgent 创建内置文本代理。
func NewChatAgent(provider llm.Provider, task TaskConfig, logger *zap.Logger) *ChatAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatAgent{provider: provider, task: task, logger: logger}
}

// systemPrompt 按覆盖 > 默认+追加 的顺序组装系统提示词。
func (a *ChatAgent) systemPrompt() string {
	if a.task.OverrideSystemPrompt != "" {
		return a.task.OverrideSystemPrompt
	}
	prompt := defaultSystemPrompt
	if a.task.ExtendSystemPrompt != "" {
		prompt += "\n" + a.task.ExtendSystemPrompt
	}
	return prompt
}

// Run 执行有界步数的对话循环。敏感数据只以占位符形式出现在任务文本里，
// 真实值从不进入模型上下文。
func (a *ChatAgent) Run(ctx context.Context) (*Result, error) {
	maxSteps := a.task.MaxSteps
	if maxSteps <= 0 {
		maxSteps = 10
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.systemPrompt()},
		{Role: llm.RoleUser, Content: a.task.Task},
	}

	var lastReply string
	for step := 1; step <= maxSteps; step++ {
		resp, err := a.provider.Completion(ctx, &llm.ChatRequest{
			Messages: messages,
			Timeout:  a.task.StepTimeout,
		})
		if err != nil {
			a.logger.Named("agent").Error("step failed", zap.Int("step", step), zap.Error(err))
			return nil, err
		}

		lastReply = resp.FirstText()
		a.logger.Named("agent").Info("step completed",
			zap.Int("step", step),
			zap.Int("reply_chars", len(lastReply)))

		if idx := strings.LastIndex(lastReply, doneMarker); idx >= 0 {
			return &Result{
				Success: true,
				Output:  strings.TrimSpace(lastReply[idx+len(doneMarker):]),
				Steps:   step,
			}, nil
		}

		messages = append(messages,
			llm.Message{Role: llm.RoleAssistant, Content: lastReply},
			llm.Message{Role: llm.RoleUser, Content: "继续。完成后最后一行输出 DONE: 加结果摘要。"},
		)
	}

	// 步数耗尽仍未声明完成
	return &Result{Success: false, Output: lastReply, Steps: maxSteps}, nil
}
