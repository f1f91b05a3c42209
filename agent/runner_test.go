package agent

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/agentrun/runlog"
	"github.com/BaSui01/agentrun/types"
)

func newRunLogger(t *testing.T) *runlog.Logger {
	t.Helper()
	l, err := runlog.Open(t.TempDir(),
		runlog.WithConsoleEcho(false),
		runlog.WithConsoleWriter(&bytes.Buffer{}))
	require.NoError(t, err)
	return l
}

func TestRunner_SuccessEmitsBracketEvents(t *testing.T) {
	rlog := newRunLogger(t)
	a := Func(func(ctx context.Context) (*Result, error) {
		return &Result{Success: true, Output: "done: 3 items", Steps: 7}, nil
	})

	task := TaskConfig{Task: "collect pending to-dos", UseVision: false, MaxSteps: 70}
	browser := BrowserConfig{CDPURL: "http://127.0.0.1:9222"}
	result, err := NewRunner(a, task, browser, rlog, nil).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Greater(t, result.Duration, time.Duration(0))

	entries := rlog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "task_started", entries[0].EventType)
	assert.Equal(t, "collect pending to-dos", entries[0].Data["task_preview"])
	assert.Equal(t, "cdp", entries[0].Data["browser_mode"])
	assert.Equal(t, "task_completed", entries[1].EventType)
	assert.Equal(t, true, entries[1].Data["success"])
	assert.Equal(t, "done: 3 items", entries[1].Data["result_preview"])
}

func TestRunner_FailureEmitsTaskFailedAndReturnsError(t *testing.T) {
	rlog := newRunLogger(t)
	cause := types.NewError(types.ErrUpstreamTimeout, "step 12 timed out")
	a := Func(func(ctx context.Context) (*Result, error) {
		return nil, cause
	})

	_, err := NewRunner(a, TaskConfig{Task: "x"}, BrowserConfig{}, rlog, nil).Run(context.Background())
	require.ErrorIs(t, err, cause)

	entries := rlog.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "task_failed", entries[1].EventType)
	assert.Equal(t, string(types.ErrUpstreamTimeout), entries[1].Data["error_type"])
	assert.Contains(t, entries[1].Data["error_message"], "step 12 timed out")
}

func TestRunner_UnknownErrorTypeFallsBackToGoType(t *testing.T) {
	rlog := newRunLogger(t)
	a := Func(func(ctx context.Context) (*Result, error) {
		return nil, errors.New("browser crashed")
	})

	_, err := NewRunner(a, TaskConfig{}, BrowserConfig{}, rlog, nil).Run(context.Background())
	require.Error(t, err)

	entries := rlog.Entries()
	assert.Equal(t, "*errors.errorString", entries[1].Data["error_type"])
}

func TestRunner_LongOutputTruncatedInPreview(t *testing.T) {
	rlog := newRunLogger(t)
	long := make([]rune, 0, 500)
	for i := 0; i < 500; i++ {
		long = append(long, '数')
	}
	a := Func(func(ctx context.Context) (*Result, error) {
		return &Result{Success: true, Output: string(long)}, nil
	})

	_, err := NewRunner(a, TaskConfig{}, BrowserConfig{}, rlog, nil).Run(context.Background())
	require.NoError(t, err)

	preview := rlog.Entries()[1].Data["result_preview"].(string)
	assert.Len(t, []rune(preview), previewLimit+3) // 截断加省略号
}

func TestRunner_NilRunLoggerIsSafe(t *testing.T) {
	a := Func(func(ctx context.Context) (*Result, error) {
		return &Result{Success: true}, nil
	})
	result, err := NewRunner(a, TaskConfig{}, BrowserConfig{}, nil, nil).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestBrowserConfig_ModePriority(t *testing.T) {
	assert.Equal(t, BrowserLocal, BrowserConfig{}.Mode())
	assert.Equal(t, BrowserCDP, BrowserConfig{CDPURL: "http://127.0.0.1:9222"}.Mode())
	assert.Equal(t, BrowserCloud, BrowserConfig{UseCloud: true, CDPURL: "http://127.0.0.1:9222"}.Mode())
}
