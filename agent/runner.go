package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/runlog"
	"github.com/BaSui01/agentrun/types"
)

// 事件里结果预览的最大长度（按 rune 截断）
const previewLimit = 200

// Runner 为一次任务执行加上生命周期括号。
// 运行日志通过构造参数注入，Runner 不触碰任何全局状态。
type Runner struct {
	agent   Agent
	task    TaskConfig
	browser BrowserConfig
	rlog    *runlog.Logger
	logger  *zap.Logger
}

// NewRunner 创建 Runner。rlog 为 nil 时生命周期事件被丢弃，
// 仅保留 zap 结构化日志。
func NewRunner(a Agent, task TaskConfig, browser BrowserConfig, rlog *runlog.Logger, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{agent: a, task: task, browser: browser, rlog: rlog, logger: logger}
}

// Run 执行任务并写入生命周期事件：
// task_started → task_completed（成功）或 task_failed（失败后原样返回错误）。
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	r.event("task_started", map[string]any{
		"task_preview": truncate(r.task.Task, previewLimit),
		"use_vision":   r.task.UseVision,
		"max_steps":    r.task.MaxSteps,
		"browser_mode": string(r.browser.Mode()),
	})
	r.logger.Info("task started",
		zap.String("browser_mode", string(r.browser.Mode())),
		zap.Int("max_steps", r.task.MaxSteps))

	start := time.Now()
	result, err := r.agent.Run(ctx)
	elapsed := time.Since(start)

	if err != nil {
		r.event("task_failed", map[string]any{
			"error_type":    errorType(err),
			"error_message": err.Error(),
		})
		r.logger.Error("task failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, err
	}

	if result == nil {
		result = &Result{}
	}
	if result.Duration == 0 {
		result.Duration = elapsed
	}
	r.event("task_completed", map[string]any{
		"success":          result.Success,
		"result_preview":   truncate(result.Output, previewLimit),
		"steps":            result.Steps,
		"duration_seconds": result.Duration.Seconds(),
	})
	r.logger.Info("task completed",
		zap.Bool("success", result.Success),
		zap.Int("steps", result.Steps),
		zap.Duration("elapsed", elapsed))
	return result, nil
}

func (r *Runner) event(eventType string, data map[string]any) {
	if r.rlog == nil {
		return
	}
	r.rlog.LogEvent(eventType, data)
}

// errorType 优先报告统一错误码，未知错误退化为 Go 类型名。
func errorType(err error) string {
	var te *types.Error
	if errors.As(err, &te) {
		return string(te.Code)
	}
	return fmt.Sprintf("%T", err)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
