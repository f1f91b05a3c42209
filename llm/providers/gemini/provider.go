// Package gemini 实现 Google Gemini 的 LLM Provider。
// Gemini 使用 key 查询参数认证，请求体为 contents/parts 结构，
// system 提示通过 systemInstruction 单独传递。
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/providers"
	"github.com/BaSui01/agentrun/types"
)

type GeminiProvider struct {
	cfg    providers.GeminiConfig
	client *http.Client
	logger *zap.Logger
}

// New 创建 Gemini Provider。
func New(cfg providers.GeminiConfig, logger *zap.Logger) *GeminiProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &GeminiProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (p *GeminiProvider) Name() string { return "google" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  struct {
		Temperature     float32 `json:"temperature,omitempty"`
		TopP            float32 `json:"topP,omitempty"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// convertContents 将统一消息转换为 Gemini contents：
// assistant 角色映射为 model，system 消息提出到 systemInstruction。
func convertContents(msgs []llm.Message) ([]geminiContent, *geminiContent) {
	var contents []geminiContent
	var system *geminiContent
	for _, m := range msgs {
		switch m.Role {
		case llm.RoleSystem:
			system = &geminiContent{Parts: []geminiPart{{Text: m.Content}}}
		case llm.RoleAssistant:
			contents = append(contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	return contents, system
}

func (p *GeminiProvider) model(req *llm.ChatRequest) string {
	if req != nil && req.Model != "" {
		return req.Model
	}
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return "gemini-flash-latest"
}

func (p *GeminiProvider) Completion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	var body geminiRequest
	body.Contents, body.SystemInstruction = convertContents(req.Messages)
	body.GenerationConfig.Temperature = req.Temperature
	if body.GenerationConfig.Temperature == 0 {
		body.GenerationConfig.Temperature = p.cfg.Sampling.Temperature
	}
	body.GenerationConfig.TopP = req.TopP
	body.GenerationConfig.MaxOutputTokens = req.MaxTokens
	if body.GenerationConfig.MaxOutputTokens == 0 {
		body.GenerationConfig.MaxOutputTokens = p.cfg.Sampling.MaxTokens
	}

	model := p.model(req)
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(p.cfg.BaseURL, "/"), model, p.cfg.APIKey)

	payload, _ := json.Marshal(body)

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRequest, err.Error()).WithProvider(p.Name())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, types.NewError(types.ErrUpstreamError, err.Error()).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(p.Name())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, mapGeminiError(resp.StatusCode, readGeminiErrMsg(resp.Body), p.Name())
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, types.NewError(types.ErrUpstreamError, err.Error()).
			WithHTTPStatus(http.StatusBadGateway).
			WithRetryable(true).
			WithProvider(p.Name())
	}
	return toChatResponse(gr, p.Name(), model), nil
}

func (p *GeminiProvider) HealthCheck(ctx context.Context) (*llm.HealthStatus, error) {
	start := time.Now()
	endpoint := fmt.Sprintf("%s/v1beta/models?key=%s",
		strings.TrimRight(p.cfg.BaseURL, "/"), p.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &llm.HealthStatus{Healthy: false}, err
	}

	resp, err := p.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return &llm.HealthStatus{Healthy: false, Latency: latency}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &llm.HealthStatus{Healthy: false, Latency: latency},
			mapGeminiError(resp.StatusCode, readGeminiErrMsg(resp.Body), p.Name())
	}
	return &llm.HealthStatus{Healthy: true, Latency: latency}, nil
}

func toChatResponse(gr geminiResponse, provider, model string) *llm.ChatResponse {
	resp := &llm.ChatResponse{Provider: provider, Model: model}
	for i, cand := range gr.Candidates {
		var text string
		for _, part := range cand.Content.Parts {
			text += part.Text
		}
		resp.Choices = append(resp.Choices, llm.ChatChoice{
			Index:        i,
			FinishReason: strings.ToLower(cand.FinishReason),
			Message:      llm.Message{Role: llm.RoleAssistant, Content: text},
		})
	}
	if gr.UsageMetadata != nil {
		resp.Usage = llm.ChatUsage{
			PromptTokens:     gr.UsageMetadata.PromptTokenCount,
			CompletionTokens: gr.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      gr.UsageMetadata.TotalTokenCount,
		}
	}
	return resp
}

func readGeminiErrMsg(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 4096))
	var ge geminiError
	if err := json.Unmarshal(data, &ge); err == nil && ge.Error.Message != "" {
		return fmt.Sprintf("%s (status: %s)", ge.Error.Message, ge.Error.Status)
	}
	return string(data)
}

func mapGeminiError(status int, msg, provider string) *types.Error {
	var code types.ErrorCode
	retryable := false
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		// Gemini 的无效 key 通常返回 403
		code = types.ErrUnauthorized
	case http.StatusNotFound:
		code = types.ErrModelNotFound
	case http.StatusTooManyRequests:
		code = types.ErrRateLimited
		retryable = true
	case http.StatusBadRequest:
		code = types.ErrInvalidRequest
	default:
		code = types.ErrUpstreamError
		retryable = status >= 500
	}
	return types.NewError(code, msg).
		WithHTTPStatus(status).
		WithRetryable(retryable).
		WithProvider(provider)
}
