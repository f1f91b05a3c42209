package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/providers"
	"github.com/BaSui01/agentrun/types"
)

func testConfig(baseURL string) providers.GeminiConfig {
	var cfg providers.GeminiConfig
	cfg.APIKey = "AIza-test"
	cfg.BaseURL = baseURL
	cfg.Model = "gemini-flash-latest"
	return cfg
}

const okGenerate = `{
	"candidates": [{
		"content": {"role": "model", "parts": [{"text": "四十二"}]},
		"finishReason": "STOP"
	}],
	"usageMetadata": {"promptTokenCount": 8, "candidatesTokenCount": 2, "totalTokenCount": 10}
}`

func TestCompletion_GeminiWireFormat(t *testing.T) {
	var gotBody geminiRequest
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(okGenerate))
	}))
	defer srv.Close()

	p := New(testConfig(srv.URL), nil)
	resp, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "answer in Chinese"},
			{Role: llm.RoleUser, Content: "6 times 7?"},
			{Role: llm.RoleAssistant, Content: "let me think"},
			{Role: llm.RoleUser, Content: "well?"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-flash-latest:generateContent", gotPath)
	assert.Equal(t, "AIza-test", gotKey)

	// system 提取到 systemInstruction，assistant 映射为 model 角色
	require.NotNil(t, gotBody.SystemInstruction)
	assert.Equal(t, "answer in Chinese", gotBody.SystemInstruction.Parts[0].Text)
	require.Len(t, gotBody.Contents, 3)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	assert.Equal(t, "model", gotBody.Contents[1].Role)

	assert.Equal(t, "四十二", resp.FirstText())
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, 10, resp.Usage.TotalTokens)
}

func TestCompletion_GeminiForbiddenMeansBadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	p := New(testConfig(srv.URL), nil)
	_, err := p.Completion(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Equal(t, types.ErrUnauthorized, types.GetErrorCode(err))
	assert.Contains(t, err.Error(), "PERMISSION_DENIED")
}

func TestHealthCheck_Gemini(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models", r.URL.Path)
		assert.Equal(t, "AIza-test", r.URL.Query().Get("key"))
		w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	p := New(testConfig(srv.URL), nil)
	status, err := p.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}
