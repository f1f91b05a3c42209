package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/providers/openaicompat"
)

// scriptedProvider 依次返回预设回复
func scriptedProvider(t *testing.T, replies []string, requests *[][]llm.Message) llm.Provider {
	t.Helper()
	call := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if requests != nil {
			var msgs []llm.Message
			for _, m := range req.Messages {
				msgs = append(msgs, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
			}
			*requests = append(*requests, msgs)
		}

		reply := replies[call]
		if call < len(replies)-1 {
			call++
		}
		payload, _ := json.Marshal(reply)
		fmt.Fprintf(w, `{"id": "c", "model": "m",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": %s}}]}`, payload)
	}))
	t.Cleanup(srv.Close)
	return openaicompat.New(openaicompat.Config{
		ProviderName: "openai", APIKey: "sk", BaseURL: srv.URL, DefaultModel: "m",
	}, nil)
}

func TestChatAgent_FinishesOnDoneMarker(t *testing.T) {
	p := scriptedProvider(t, []string{
		"第一步：打开待办列表",
		"已采集 3 条需求\nDONE: 共采集3条需求，报告已生成",
	}, nil)

	a := NewChatAgent(p, TaskConfig{Task: "collect to-dos", MaxSteps: 10}, nil)
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Steps)
	assert.Equal(t, "共采集3条需求，报告已生成", result.Output)
}

func TestChatAgent_StepBudgetExhausted(t *testing.T) {
	p := scriptedProvider(t, []string{"还在处理中"}, nil)

	a := NewChatAgent(p, TaskConfig{Task: "t", MaxSteps: 3}, nil)
	result, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Steps)
	assert.Equal(t, "还在处理中", result.Output)
}

func TestChatAgent_SystemPromptPrecedence(t *testing.T) {
	var requests [][]llm.Message
	p := scriptedProvider(t, []string{"DONE: ok"}, &requests)

	task := TaskConfig{
		Task:                 "t",
		MaxSteps:             5,
		OverrideSystemPrompt: "只说中文",
		ExtendSystemPrompt:   "ignored when override set",
	}
	_, err := NewChatAgent(p, task, nil).Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, requests)
	assert.Equal(t, llm.RoleSystem, requests[0][0].Role)
	assert.Equal(t, "只说中文", requests[0][0].Content)
}

func TestChatAgent_ExtendAppendsToDefault(t *testing.T) {
	var requests [][]llm.Message
	p := scriptedProvider(t, []string{"DONE: ok"}, &requests)

	task := TaskConfig{Task: "t", MaxSteps: 5, ExtendSystemPrompt: "务必礼貌"}
	_, err := NewChatAgent(p, task, nil).Run(context.Background())
	require.NoError(t, err)

	system := requests[0][0].Content
	assert.Contains(t, system, "自动化任务代理")
	assert.Contains(t, system, "务必礼貌")
}

func TestChatAgent_ProviderErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "slow down"}}`))
	}))
	defer srv.Close()
	p := openaicompat.New(openaicompat.Config{
		ProviderName: "openai", APIKey: "sk", BaseURL: srv.URL, DefaultModel: "m",
	}, nil)

	_, err := NewChatAgent(p, TaskConfig{Task: "t", MaxSteps: 2}, nil).Run(context.Background())
	require.Error(t, err)
}
