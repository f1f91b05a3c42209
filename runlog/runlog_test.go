package runlog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/agentrun/types"
)

// =============================================================================
// 🧪 Logger 测试
// =============================================================================

func newTestLogger(t *testing.T, opts ...Option) (*Logger, *bytes.Buffer) {
	t.Helper()
	var console bytes.Buffer
	opts = append([]Option{WithConsoleWriter(&console), WithConsoleEcho(false)}, opts...)
	l, err := Open(t.TempDir(), opts...)
	require.NoError(t, err)
	return l, &console
}

func TestOpen_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	var console bytes.Buffer

	l, err := Open(dir, WithConsoleWriter(&console))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// 转录文件在构造时即以截断模式创建
	_, err = os.Stat(l.LogFile())
	assert.NoError(t, err)
}

func TestOpen_UnwritablePath(t *testing.T) {
	// 父路径是普通文件，目录创建必然失败
	parent := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(parent, []byte("x"), 0o644))

	_, err := Open(filepath.Join(parent, "logs"))
	require.Error(t, err)
	assert.Equal(t, types.ErrFilesystem, types.GetErrorCode(err))
}

func TestOpen_SameSecondSessionsDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	a, err := Open(dir, WithConsoleWriter(&console))
	require.NoError(t, err)
	b, err := Open(dir, WithConsoleWriter(&console))
	require.NoError(t, err)

	assert.NotEqual(t, a.LogFile(), b.LogFile())
	assert.NotEqual(t, a.JSONLogFile(), b.JSONLogFile())
}

func TestLogEvent_RecordsAndEchoes(t *testing.T) {
	l, console := newTestLogger(t)

	l.LogEvent("config", map[string]any{"llm_provider": "openai"})

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, LevelEvent, entries[0].Level)
	assert.Equal(t, EventLogger, entries[0].Logger)
	assert.Equal(t, "config", entries[0].EventType)
	assert.Equal(t, "Event: config", entries[0].Message)
	assert.Equal(t, "openai", entries[0].Data["llm_provider"])

	// 事件摘要行不受控制台回显开关影响
	assert.Contains(t, console.String(), "Event: config")
}

func TestLogEvent_NonSerializablePayload(t *testing.T) {
	l, _ := newTestLogger(t)

	assert.NotPanics(t, func() {
		l.LogEvent("bad", map[string]any{"ch": make(chan int), "ok": 1})
	})
	l.LogEvent("good", map[string]any{"n": 2})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].Data["ch"], "unserializable")
	assert.Equal(t, 1, entries[0].Data["ok"])

	// 坏负载不能让导出失败
	l.Export()
	data, err := os.ReadFile(l.JSONLogFile())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
}

func TestExport_EndToEndScenario(t *testing.T) {
	l, _ := newTestLogger(t)

	l.LogEvent("task_started", map[string]any{})

	zl := zap.New(l.Core())
	zl.Named("A").Info("step one")
	zl.Named("A").Info("step two")
	zl.Named("B").Info("side note")

	l.LogEvent("task_completed", map[string]any{"success": true})

	s := l.Summary()
	assert.Equal(t, 5, s.TotalEntries)
	assert.Equal(t, map[string]int{LevelEvent: 2, LevelInfo: 3}, s.ByLevel)
	assert.Equal(t, map[string]int{"task_started": 1, "task_completed": 1}, s.ByEventType)
	assert.Equal(t, map[string]int{"A": 2, "B": 1, EventLogger: 2}, s.ByLogger)

	l.Export()

	data, err := os.ReadFile(l.JSONLogFile())
	require.NoError(t, err)

	var doc struct {
		Metadata struct {
			TotalEntries int    `json:"total_entries"`
			LogFile      string `json:"log_file"`
			JSONLogFile  string `json:"json_log_file"`
		} `json:"metadata"`
		Statistics struct {
			ByLevel     map[string]int `json:"by_level"`
			ByEventType map[string]int `json:"by_event_type"`
			ByLogger    map[string]int `json:"by_logger"`
		} `json:"statistics"`
		Logs []Entry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 5, doc.Metadata.TotalEntries)
	assert.Equal(t, l.LogFile(), doc.Metadata.LogFile)
	assert.Equal(t, l.JSONLogFile(), doc.Metadata.JSONLogFile)
	assert.Equal(t, map[string]int{LevelEvent: 2, LevelInfo: 3}, doc.Statistics.ByLevel)
	assert.Equal(t, map[string]int{"task_started": 1, "task_completed": 1}, doc.Statistics.ByEventType)
	assert.Equal(t, map[string]int{"A": 2, "B": 1, EventLogger: 2}, doc.Statistics.ByLogger)

	// 导出的 logs 数组保持插入顺序
	require.Len(t, doc.Logs, 5)
	assert.Equal(t, "task_started", doc.Logs[0].EventType)
	assert.Equal(t, "A", doc.Logs[1].Logger)
	assert.Equal(t, "A", doc.Logs[2].Logger)
	assert.Equal(t, "B", doc.Logs[3].Logger)
	assert.Equal(t, "task_completed", doc.Logs[4].EventType)
}

func TestExport_Idempotent(t *testing.T) {
	l, _ := newTestLogger(t)
	l.LogEvent("task_started", map[string]any{})

	l.Export()
	first, err := os.ReadFile(l.JSONLogFile())
	require.NoError(t, err)

	// 第二次导出是空操作：文件内容不变，新增条目也不会被补写
	l.LogEvent("late", map[string]any{})
	l.Export()

	second, err := os.ReadFile(l.JSONLogFile())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExport_DisabledJSON(t *testing.T) {
	l, console := newTestLogger(t, WithJSONExport(false))
	l.LogEvent("task_started", map[string]any{})
	l.Export()

	_, err := os.Stat(l.JSONLogFile())
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, console.String(), "运行摘要")
}

func TestExport_ConcurrentWithRecord(t *testing.T) {
	l, err := Open(t.TempDir(), WithConsoleEcho(false), WithConsoleWriter(nopSyncWriter{}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.LogEvent("tick", map[string]any{"n": j})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.Export()
	}()
	wg.Wait()

	// 导出看到的是一致快照：文件可解析，统计自洽
	data, err := os.ReadFile(l.JSONLogFile())
	require.NoError(t, err)
	var doc struct {
		Metadata struct {
			TotalEntries int `json:"total_entries"`
		} `json:"metadata"`
		Logs []Entry `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, doc.Metadata.TotalEntries, len(doc.Logs))
}

func TestTranscript_Format(t *testing.T) {
	l, _ := newTestLogger(t)
	zl := zap.New(l.Core())
	zl.Named("agent").Info("hello world")
	l.Export()

	data, err := os.ReadFile(l.LogFile())
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} - agent - INFO - hello world\n`, string(data))
}

// nopSyncWriter 是并发测试用的丢弃 writer。
type nopSyncWriter struct{}

func (nopSyncWriter) Write(p []byte) (int, error) { return len(p), nil }
