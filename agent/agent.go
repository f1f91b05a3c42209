package agent

import (
	"context"
	"time"
)

// Result 是一次任务执行的最终结果。
type Result struct {
	// Success 任务是否在步数预算内完成
	Success bool `json:"success"`

	// Output 代理产出的最终文本（任务答案或摘要）
	Output string `json:"output,omitempty"`

	// Steps 实际执行的步数
	Steps int `json:"steps"`

	// Duration 从启动到结束的耗时
	Duration time.Duration `json:"duration"`
}

// Agent 是自动化代理的统一执行接口。
// 实现方负责浏览器驱动与规划循环，Run 阻塞直到任务结束或 ctx 取消。
type Agent interface {
	Run(ctx context.Context) (*Result, error)
}

// Func 把函数适配为 Agent，测试与轻量实现使用。
type Func func(ctx context.Context) (*Result, error)

func (f Func) Run(ctx context.Context) (*Result, error) { return f(ctx) }
