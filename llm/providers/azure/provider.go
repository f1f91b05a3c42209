// Package azure 实现 Azure OpenAI 的 LLM Provider。
// 与标准 OpenAI 的差异：认证使用 api-key 请求头，端点按部署名组织，
// 且必须携带 api-version 查询参数。
package azure

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/llm/providers"
	"github.com/BaSui01/agentrun/llm/providers/openaicompat"
)

const defaultAPIVersion = "2024-02-01"

// New 创建 Azure OpenAI Provider。cfg.BaseURL 是资源端点，必填；
// cfg.Model 对应部署名。
func New(cfg providers.AzureConfig, logger *zap.Logger) *openaicompat.Provider {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	return openaicompat.New(openaicompat.Config{
		ProviderName: "azure",
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		DefaultModel: cfg.Model,
		Sampling:     cfg.Sampling,
		Timeout:      cfg.Timeout,
		EndpointPath: fmt.Sprintf("/openai/deployments/%s/chat/completions?api-version=%s",
			cfg.Model, apiVersion),
		ModelsEndpoint: fmt.Sprintf("/openai/models?api-version=%s", apiVersion),
		BuildHeaders: func(req *http.Request, apiKey string) {
			req.Header.Set("api-key", apiKey)
		},
	}, logger)
}
