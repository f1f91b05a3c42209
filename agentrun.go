// Package agentrun provides a top-level convenience entry point for running
// a browser automation task with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/agentrun"
//
//	result, err := agentrun.Run(ctx, agentrun.WithTask("collect pending to-dos"))
//	result, err := agentrun.Run(ctx, agentrun.WithConfigPath("config.yaml"))
//
// Run wires the full lifecycle: config loading, run-scoped logging with
// transcript and JSON export, provider construction, and the task bracket
// events. Use cmd/agentrun for the CLI flavor of the same wiring.
package agentrun

import (
	"context"

	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/agent"
	"github.com/BaSui01/agentrun/config"
	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/factory"
	"github.com/BaSui01/agentrun/runlog"
)

type options struct {
	configPath string
	task       string
	provider   string
	logDir     string
	agent      agent.Agent
}

// Option configures the run created by [Run].
type Option func(*options)

// WithConfigPath loads configuration from a YAML file.
func WithConfigPath(path string) Option {
	return func(o *options) { o.configPath = path }
}

// WithTask overrides the task text.
func WithTask(task string) Option {
	return func(o *options) { o.task = task }
}

// WithProvider overrides the provider name (openai, anthropic, google, ...).
func WithProvider(name string) Option {
	return func(o *options) { o.provider = name }
}

// WithLogDir overrides the run log directory.
func WithLogDir(dir string) Option {
	return func(o *options) { o.logDir = dir }
}

// WithAgent supplies a custom agent implementation, e.g. an external
// browser driver. The built-in chat agent is used otherwise.
func WithAgent(a agent.Agent) Option {
	return func(o *options) { o.agent = a }
}

// Run executes one task end to end and returns the agent result.
// The run log is exported before Run returns, and also on Ctrl+C.
func Run(ctx context.Context, opts ...Option) (*agent.Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	loader := config.NewLoader()
	if o.configPath != "" {
		loader = loader.WithConfigPath(o.configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if o.task != "" {
		cfg.Task.Text = o.task
	}
	if o.provider != "" {
		cfg.Provider = o.provider
	}
	if o.logDir != "" {
		cfg.Log.Dir = o.logDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rlog, err := runlog.Open(cfg.Log.Dir,
		runlog.WithJSONExport(cfg.Log.JSONExport),
		runlog.WithConsoleEcho(cfg.Log.ConsoleEcho))
	if err != nil {
		return nil, err
	}

	logger, restore := rlog.Install()
	defer restore()
	stop := rlog.HandleSignals()
	defer stop()
	defer rlog.Export()

	model := cfg.Model()
	rlog.LogEvent("config", map[string]any{
		"llm_provider": cfg.Provider,
		"model":        model,
		"use_vision":   cfg.Task.UseVision,
		"max_steps":    cfg.Task.MaxSteps,
		"task_tokens":  llm.EstimateTokens(model, cfg.Task.Text),
	})

	provider, err := factory.New(cfg.Provider, cfg.FactoryConfig(), logger)
	if err != nil {
		logger.Error("provider construction failed", zap.Error(err))
		return nil, err
	}

	task := cfg.AgentTask()
	a := o.agent
	if a == nil {
		a = agent.NewChatAgent(provider, task, logger)
	}

	return agent.NewRunner(a, task, cfg.AgentBrowser(), rlog, logger).Run(ctx)
}
