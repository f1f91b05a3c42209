package runlog

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"

	"github.com/BaSui01/agentrun/types"
)

// transcriptTimeLayout 是文本转录中时间戳的格式。
const transcriptTimeLayout = "2006-01-02 15:04:05.000"

// Option 配置 Open 创建的 Logger。
type Option func(*options)

type options struct {
	jsonExport  bool
	consoleEcho bool
	console     io.Writer
	noisyPrefix string
	noisyLevel  zapcore.Level
}

// WithJSONExport 控制是否生成 JSON 导出文件，默认开启。
func WithJSONExport(enabled bool) Option {
	return func(o *options) { o.jsonExport = enabled }
}

// WithConsoleEcho 控制标准日志记录是否回显到控制台，默认开启。
// 手工事件的摘要行不受此开关影响，始终回显。
func WithConsoleEcho(enabled bool) Option {
	return func(o *options) { o.consoleEcho = enabled }
}

// WithConsoleWriter 覆盖控制台 sink，默认 os.Stdout。主要用于测试。
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithNoisyChannel 设置需要限流的高噪声日志通道。
// 名称以 prefix 开头的 logger 低于 level 的记录会被整体丢弃，
// 默认把 browser 驱动通道压到 Info，避免 DEBUG 刷屏。
func WithNoisyChannel(prefix string, level zapcore.Level) Option {
	return func(o *options) {
		o.noisyPrefix = prefix
		o.noisyLevel = level
	}
}

// Logger 是运行级事件记录器。一次 Agent 运行创建一个实例，
// 由进程入口持有并注入到需要发事件的组件，不做包级全局单例。
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	flushed bool

	runID     string
	startTime time.Time

	logFile     string
	jsonLogFile string
	transcript  *os.File

	opts options
}

// Open 创建运行级记录器。日志目录不存在时逐级创建；
// 目录或转录文件不可写时返回 types.ErrFilesystem。
// 产物文件名带秒级时间戳与运行短 ID，同一秒内的两次运行互不覆盖。
func Open(dir string, opts ...Option) (*Logger, error) {
	o := options{
		jsonExport:  true,
		consoleEcho: true,
		console:     os.Stdout,
		noisyPrefix: "browser",
		noisyLevel:  zapcore.InfoLevel,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, types.NewError(types.ErrFilesystem,
			fmt.Sprintf("create log directory %s", dir)).WithCause(err)
	}

	now := time.Now()
	runID := uuid.NewString()[:8]
	stem := fmt.Sprintf("agent_run_%s_%s", now.Format("20060102_150405"), runID)

	l := &Logger{
		runID:       runID,
		startTime:   now,
		logFile:     filepath.Join(dir, stem+".log"),
		jsonLogFile: filepath.Join(dir, stem+".json"),
		opts:        o,
	}

	// 转录文件以截断模式打开，同时兼作目录可写性检查。
	f, err := os.OpenFile(l.logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, types.NewError(types.ErrFilesystem,
			fmt.Sprintf("open transcript %s", l.logFile)).WithCause(err)
	}
	l.transcript = f

	fmt.Fprintf(o.console, "📝 日志记录已启用\n")
	fmt.Fprintf(o.console, "   - 文本日志: %s\n", l.logFile)
	if o.jsonExport {
		fmt.Fprintf(o.console, "   - JSON日志: %s\n", l.jsonLogFile)
	}

	return l, nil
}

// RunID 返回本次运行的短 ID。
func (l *Logger) RunID() string { return l.runID }

// StartTime 返回记录器构造时刻。
func (l *Logger) StartTime() time.Time { return l.startTime }

// LogFile 返回文本转录路径。
func (l *Logger) LogFile() string { return l.logFile }

// JSONLogFile 返回 JSON 导出路径。
func (l *Logger) JSONLogFile() string { return l.jsonLogFile }

// Entries 返回当前条目序列的副本，供检视与测试使用。
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// record 追加一条目并镜像到各 sink。绝不向调用方抛错：
// 每个副作用各自兜底，一条坏记录不能中断运行。
func (l *Logger) record(e Entry, echoConsole bool) {
	defer func() { _ = recover() }()

	line := fmt.Sprintf("%s - %s - %s - %s",
		e.Timestamp.Format(transcriptTimeLayout), e.Logger, e.Level, e.Message)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)

	// sink 写入留在锁内，转录行顺序与内存序列一致。
	if l.transcript != nil {
		_, _ = fmt.Fprintln(l.transcript, line)
	}
	if echoConsole {
		_, _ = fmt.Fprintln(l.opts.console, line)
	}
}

// LogEvent 记录一条应用级里程碑事件（配置解析完成、任务开始/结束等）。
// 事件的时间戳取观测时刻，负载逐键做序列化兜底。
// 无论控制台回显是否开启，事件都会在控制台留一行短摘要。
func (l *Logger) LogEvent(eventType string, data map[string]any) {
	l.record(Entry{
		Timestamp: time.Now(),
		Level:     LevelEvent,
		Logger:    EventLogger,
		Message:   fmt.Sprintf("Event: %s", eventType),
		EventType: eventType,
		Data:      sanitizeData(data),
	}, false)
	_, _ = fmt.Fprintf(l.opts.console, "📌 Event: %s\n", eventType)
}

// Summary 汇总当前条目的聚合统计，无副作用，运行中途也可调用。
type Summary struct {
	TotalEntries    int            `json:"total_entries"`
	DurationSeconds float64        `json:"duration_seconds"`
	ByLevel         map[string]int `json:"by_level"`
	ByEventType     map[string]int `json:"by_event_type"`
	ByLogger        map[string]int `json:"by_logger"`
}

// Summary 返回与 Export 相同口径的聚合统计。
func (l *Logger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.summaryLocked(time.Now())
}

func (l *Logger) summaryLocked(now time.Time) Summary {
	s := Summary{
		TotalEntries:    len(l.entries),
		DurationSeconds: roundSeconds(now.Sub(l.startTime)),
		ByLevel:         make(map[string]int),
		ByEventType:     make(map[string]int),
		ByLogger:        make(map[string]int),
	}
	for _, e := range l.entries {
		s.ByLevel[e.Level]++
		if e.EventType != "" {
			s.ByEventType[e.EventType]++
		}
		s.ByLogger[e.Logger]++
	}
	return s
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// exportDocument 是 JSON 导出的顶层结构，字段名与嵌套固定。
type exportDocument struct {
	Metadata   exportMetadata `json:"metadata"`
	Statistics statistics     `json:"statistics"`
	Logs       []Entry        `json:"logs"`
}

type exportMetadata struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	TotalEntries    int       `json:"total_entries"`
	LogFile         string    `json:"log_file"`
	JSONLogFile     string    `json:"json_log_file"`
}

type statistics struct {
	ByLevel     map[string]int `json:"by_level"`
	ByEventType map[string]int `json:"by_event_type"`
	ByLogger    map[string]int `json:"by_logger"`
}

// Export 把完整运行导出为单个 JSON 文档并打印摘要。幂等：
// 首次成功执行后置位 flushed，之后的调用（无论来自显式调用还是
// 信号处理器）都是空操作。导出期间持有与 record 相同的互斥锁，
// 终止触发的导出看到的是一致的条目快照。
// 导出 I/O 失败只向控制台报告，不向外抛出。
func (l *Logger) Export() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.flushed {
		return
	}

	now := time.Now()
	s := l.summaryLocked(now)

	if l.opts.jsonExport {
		doc := exportDocument{
			Metadata: exportMetadata{
				StartTime:       l.startTime,
				EndTime:         now,
				DurationSeconds: s.DurationSeconds,
				TotalEntries:    s.TotalEntries,
				LogFile:         l.logFile,
				JSONLogFile:     l.jsonLogFile,
			},
			Statistics: statistics{
				ByLevel:     s.ByLevel,
				ByEventType: s.ByEventType,
				ByLogger:    s.ByLogger,
			},
			Logs: l.entries,
		}

		if err := writeJSON(l.jsonLogFile, doc); err != nil {
			fmt.Fprintf(l.opts.console, "❌ 保存 JSON 日志失败: %v\n", err)
		} else {
			fmt.Fprintf(l.opts.console, "\n✅ JSON 日志已保存: %s\n", l.jsonLogFile)
		}
	}

	if l.transcript != nil {
		_ = l.transcript.Close()
		l.transcript = nil
	}

	l.printSummaryLocked(s)
	l.flushed = true
}

func (l *Logger) printSummaryLocked(s Summary) {
	w := l.opts.console
	fmt.Fprintln(w, "============================================================")
	fmt.Fprintln(w, "📊 运行摘要:")
	fmt.Fprintf(w, "   ⏱️  运行时长: %.1f 秒\n", s.DurationSeconds)
	fmt.Fprintf(w, "   📝 日志条目: %d 条\n", s.TotalEntries)
	fmt.Fprintf(w, "   📊 日志级别: %v\n", s.ByLevel)
	if len(s.ByEventType) > 0 {
		fmt.Fprintf(w, "   🎯 事件类型: %v\n", s.ByEventType)
	}
	fmt.Fprintf(w, "   📄 文本日志: %s\n", l.logFile)
	if l.opts.jsonExport {
		fmt.Fprintf(w, "   📋 JSON日志: %s\n", l.jsonLogFile)
	}
	fmt.Fprintln(w, "============================================================")
}

func writeJSON(path string, doc exportDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
