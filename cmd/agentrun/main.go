// =============================================================================
// AgentRun 主入口
// =============================================================================
// 浏览器自动化任务运行器，带运行日志双落盘（文本转录 + JSON 汇总）
//
// 使用方法:
//
//	agentrun run                          # 按默认配置执行任务
//	agentrun run --config config.yaml     # 指定配置文件
//	agentrun run --task "自定义任务"        # 覆盖任务文本
//	agentrun probe                        # 探测已配置的 LLM 端点
//	agentrun doctor                       # 检查本地运行环境
//	agentrun version                      # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/BaSui01/agentrun/agent"
	"github.com/BaSui01/agentrun/config"
	"github.com/BaSui01/agentrun/internal/diag"
	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/factory"
	"github.com/BaSui01/agentrun/runlog"
	"github.com/BaSui01/agentrun/types"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		// 先让 runTask 的 defer（日志导出、信号恢复）跑完，再决定退出码
		if code := runTask(os.Args[2:]); code != 0 {
			os.Exit(code)
		}
	case "probe":
		runProbe(os.Args[2:])
	case "doctor":
		runDoctor(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadConfig(configPath string) *config.Config {
	loader := config.NewLoader()
	if configPath != "" {
		loader = loader.WithConfigPath(configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// =============================================================================
// ▶️ run 命令
// =============================================================================

func runTask(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	taskText := fs.String("task", "", "Override task text")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9091)")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	if *taskText != "" {
		cfg.Task.Text = *taskText
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		return 2
	}

	// 运行日志：目录创建失败属于启动期致命错误
	rlog, err := runlog.Open(cfg.Log.Dir,
		runlog.WithJSONExport(cfg.Log.JSONExport),
		runlog.WithConsoleEcho(cfg.Log.ConsoleEcho))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open run log: %v\n", err)
		return 2
	}

	// 全局 zap 输出重定向进运行日志，退出与 Ctrl+C 都会触发导出
	logger, restore := rlog.Install()
	defer restore()
	stop := rlog.HandleSignals()
	defer stop()
	defer rlog.Export()

	logger.Info("starting agentrun",
		zap.String("version", Version),
		zap.String("run_id", rlog.RunID()))

	model := cfg.Model()
	rlog.LogEvent("config", map[string]any{
		"llm_provider": cfg.Provider,
		"model":        model,
		"use_vision":   cfg.Task.UseVision,
		"max_steps":    cfg.Task.MaxSteps,
		"step_timeout": cfg.Task.StepTimeout.String(),
		"browser_mode": string(cfg.AgentBrowser().Mode()),
		"task_preview": previewText(cfg.Task.Text, 200),
		"task_tokens":  llm.EstimateTokens(model, cfg.Task.Text),
	})

	if *metricsAddr != "" {
		serveMetrics(*metricsAddr, rlog, logger)
	}

	fmt.Printf("🤖 初始化 LLM Provider: %s\n", cfg.Provider)
	provider, err := factory.New(cfg.Provider, cfg.FactoryConfig(), logger)
	if err != nil {
		logger.Error("provider construction failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return exitCodeFor(err)
	}

	task := cfg.AgentTask()
	browser := cfg.AgentBrowser()

	fmt.Printf("🌐 浏览器接入方式: %s\n", browser.Mode())
	fmt.Printf("📝 任务: %s\n", previewText(task.Task, 100))
	fmt.Printf("👁️  Vision: %s\n", onOff(task.UseVision))
	fmt.Printf("⚡ Flash Mode: %s\n", onOff(task.FlashMode))
	fmt.Println("------------------------------------------------------------")

	a := agent.NewChatAgent(provider, task, logger)
	runner := agent.NewRunner(a, task, browser, rlog, logger)

	fmt.Println("▶️  开始执行任务...")
	result, err := runner.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ 任务执行失败: %v\n", err)
		return exitCodeFor(err)
	}

	fmt.Println("\n============================================================")
	if result.Success {
		fmt.Println("✅ 任务执行完成！")
	} else {
		fmt.Println("⚠️  步数耗尽，任务未确认完成")
	}
	fmt.Println("============================================================")
	if result.Output != "" {
		fmt.Printf("📨 结果: %s\n", previewText(result.Output, 500))
	}
	return 0
}

// exitCodeFor 统一退出码：配置/文件系统错误 2，其余失败 1。
func exitCodeFor(err error) int {
	if types.IsFatalStartup(err) {
		return 2
	}
	return 1
}

func serveMetrics(addr string, rlog *runlog.Logger, logger *zap.Logger) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(runlog.NewMetrics(rlog))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
}

// =============================================================================
// 📡 probe 命令
// =============================================================================

func runProbe(args []string) {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	timeout := fs.Duration("timeout", 60*time.Second, "Overall probe timeout")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	fc := cfg.FactoryConfig()

	// 只探测有凭证的厂商，ollama 有端点即算已配置
	var providers []llm.Provider
	var models []string
	add := func(name, model string) {
		p, err := factory.New(name, fc, zap.NewNop())
		if err != nil {
			return
		}
		providers = append(providers, p)
		models = append(models, model)
	}
	if fc.OpenAI.APIKey != "" {
		add("openai", cfg.LLM.OpenAI.Model)
	}
	if fc.Anthropic.APIKey != "" {
		add("anthropic", cfg.LLM.Anthropic.Model)
	}
	if fc.Google.APIKey != "" {
		add("google", cfg.LLM.Google.Model)
	}
	if fc.Groq.APIKey != "" {
		add("groq", cfg.LLM.Groq.Model)
	}
	if fc.Azure.APIKey != "" && fc.Azure.BaseURL != "" {
		add("azure", cfg.LLM.Azure.Model)
	}

	if len(providers) == 0 {
		fmt.Fprintln(os.Stderr, "❌ 未发现任何已配置凭证的 Provider")
		fmt.Fprintln(os.Stderr, "   设置 OPENAI_API_KEY / ANTHROPIC_API_KEY / GOOGLE_API_KEY 等环境变量后重试")
		os.Exit(1)
	}

	fmt.Println("============================================================")
	fmt.Println("LLM 端点连通性探测")
	fmt.Println("============================================================")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := diag.ProbeAll(ctx, providers, models, rate.NewLimiter(rate.Every(200*time.Millisecond), 1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 探测中断: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Healthy {
			fmt.Printf("\n✅ %s (%s) 延迟 %s\n", r.Provider, r.Model, r.Latency.Round(time.Millisecond))
			if r.ReplyPreview != "" {
				fmt.Printf("   📨 %s\n", r.ReplyPreview)
			}
			if r.Usage.TotalTokens > 0 {
				fmt.Printf("   📊 tokens: 输入 %d / 输出 %d / 总计 %d\n",
					r.Usage.PromptTokens, r.Usage.CompletionTokens, r.Usage.TotalTokens)
			}
		} else {
			failed++
			fmt.Printf("\n❌ %s (HTTP %d): %s\n", r.Provider, r.HTTPStatus, r.Error)
			fmt.Printf("   可能的原因: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if failed > 0 {
		os.Exit(1)
	}
	fmt.Println("🎉 所有已配置端点验证通过！")
}

// =============================================================================
// 🏥 doctor 命令
// =============================================================================

func runDoctor(args []string) {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	jsonOut := fs.Bool("json", false, "Emit machine-readable JSON")
	fs.Parse(args)

	cfg := loadConfig(*configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	checks := diag.CheckEnvironment(ctx, cfg.Log.Dir, cfg.AgentBrowser())

	if *jsonOut {
		json.NewEncoder(os.Stdout).Encode(checks)
	} else {
		for _, c := range checks {
			mark := "✅"
			if !c.OK {
				mark = "❌"
			}
			fmt.Printf("%s %s: %s\n", mark, c.Name, c.Detail)
		}
	}

	if !diag.AllOK(checks) {
		os.Exit(1)
	}
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion() {
	fmt.Printf("AgentRun %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`AgentRun - 浏览器自动化任务运行器

用法:
  agentrun <command> [options]

命令:
  run       执行配置的自动化任务
  probe     探测已配置的 LLM 端点连通性
  doctor    检查本地运行环境（日志目录、浏览器入口）
  version   显示版本信息
  help      显示本帮助

run 选项:
  --config <path>        配置文件路径 (YAML)
  --task <text>          覆盖任务文本
  --metrics-addr <addr>  开启 Prometheus 指标端口，如 :9091`)
}

func previewText(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func onOff(b bool) string {
	if b {
		return "启用"
	}
	return "禁用"
}
