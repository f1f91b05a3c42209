package diag

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/types"
)

// 探针消息：验证端点连通性的同时顺带确认模型身份
const probeMessage = "你是什么模型，什么型号，你可以识别图片么"

const probeTimeout = 30 * time.Second

// ProbeResult 是一次端点探测的结论。
type ProbeResult struct {
	Provider     string        `json:"provider"`
	Model        string        `json:"model,omitempty"`
	Healthy      bool          `json:"healthy"`
	Latency      time.Duration `json:"latency"`
	ReplyPreview string        `json:"reply_preview,omitempty"`
	Usage        llm.ChatUsage `json:"usage,omitempty"`
	HTTPStatus   int           `json:"http_status,omitempty"`
	Error        string        `json:"error,omitempty"`
	Hint         string        `json:"hint,omitempty"`
}

// ProbeAPI 对单个 Provider 发送一次真实 chat 请求。
// 网络或上游失败不作为 error 返回，失败细节收敛进 ProbeResult。
func ProbeAPI(ctx context.Context, p llm.Provider, model string) ProbeResult {
	result := ProbeResult{Provider: p.Name(), Model: model}

	start := time.Now()
	resp, err := p.Completion(ctx, &llm.ChatRequest{
		Model:    model,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: probeMessage}},
		Timeout:  probeTimeout,
	})
	result.Latency = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		var te *types.Error
		if errors.As(err, &te) {
			result.HTTPStatus = te.HTTPStatus
		}
		result.Hint = hintFor(result.HTTPStatus)
		return result
	}

	result.Healthy = true
	result.ReplyPreview = preview(resp.FirstText(), 120)
	result.Usage = resp.Usage
	if resp.Model != "" {
		result.Model = resp.Model
	}
	return result
}

// ProbeAll 并发探测多个 Provider，探测速率由 limiter 限制，
// 结果顺序与传入顺序一致。ctx 取消时返回已取消的错误。
func ProbeAll(ctx context.Context, providers []llm.Provider, models []string, limiter *rate.Limiter) ([]ProbeResult, error) {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}

	results := make([]ProbeResult, len(providers))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		i, p := i, p
		g.Go(func() error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			model := ""
			if i < len(models) {
				model = models[i]
			}
			results[i] = ProbeAPI(ctx, p, model)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// hintFor 按状态码分类给出排障提示。
func hintFor(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "API key 无效或已过期"
	case status == http.StatusForbidden:
		return "API key 无访问权限"
	case status == http.StatusNotFound:
		return "API endpoint 地址不正确，或模型名称不存在"
	case status == http.StatusTooManyRequests:
		return "请求过于频繁，触发限流"
	case status >= 500:
		return "上游服务异常，稍后重试"
	case status == 0:
		return "网络不可达，检查 endpoint 地址与代理设置"
	default:
		return "检查请求参数与模型名称"
	}
}

func preview(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
