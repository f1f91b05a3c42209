package diag

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/BaSui01/agentrun/llm"
	"github.com/BaSui01/agentrun/llm/providers/openaicompat"
)

func newProbeTarget(t *testing.T, handler http.HandlerFunc) llm.Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return openaicompat.New(openaicompat.Config{
		ProviderName: "openai",
		APIKey:       "sk-test",
		BaseURL:      srv.URL,
		DefaultModel: "o3",
	}, nil)
}

func TestProbeAPI_HealthyEndpoint(t *testing.T) {
	p := newProbeTarget(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "chatcmpl-1", "model": "o3",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "我是 o3，不能识别图片"}}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 10, "total_tokens": 30}
		}`))
	})

	result := ProbeAPI(context.Background(), p, "o3")
	assert.True(t, result.Healthy)
	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, "o3", result.Model)
	assert.Contains(t, result.ReplyPreview, "o3")
	assert.Equal(t, 30, result.Usage.TotalTokens)
	assert.Greater(t, result.Latency, time.Duration(0))
	assert.Empty(t, result.Hint)
}

func TestProbeAPI_BadKeyHint(t *testing.T) {
	p := newProbeTarget(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key"}}`))
	})

	result := ProbeAPI(context.Background(), p, "o3")
	assert.False(t, result.Healthy)
	assert.Equal(t, http.StatusUnauthorized, result.HTTPStatus)
	assert.Contains(t, result.Hint, "API key")
}

func TestProbeAPI_WrongEndpointHint(t *testing.T) {
	p := newProbeTarget(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`not found`))
	})

	result := ProbeAPI(context.Background(), p, "o3")
	assert.False(t, result.Healthy)
	assert.Contains(t, result.Hint, "endpoint")
}

func TestProbeAll_ConcurrentRateLimited(t *testing.T) {
	var calls atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{
			"id": "c", "model": "m",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "ok"}}]
		}`))
	}

	providers := []llm.Provider{
		newProbeTarget(t, handler),
		newProbeTarget(t, handler),
		newProbeTarget(t, handler),
	}

	results, err := ProbeAll(context.Background(), providers, []string{"a", "b", "c"},
		rate.NewLimiter(rate.Inf, 1))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int32(3), calls.Load())

	// 结果顺序与传入顺序一致
	for i, r := range results {
		assert.True(t, r.Healthy, "probe %d", i)
	}
}

func TestProbeAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newProbeTarget(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := ProbeAll(ctx, []llm.Provider{p}, nil, rate.NewLimiter(rate.Every(time.Hour), 1))
	require.Error(t, err)
}
