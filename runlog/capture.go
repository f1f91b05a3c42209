package runlog

import (
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// captureCore 实现 zapcore.Core，把经过 zap 的每条记录镜像进 Logger。
// 标准记录的时间戳取 zap Entry 的创建时刻而非捕获时刻。
type captureCore struct {
	logger *Logger
	with   []zapcore.Field
}

// Core 返回可挂接到任意 zap Logger 的捕获核心。
func (l *Logger) Core() zapcore.Core {
	return &captureCore{logger: l}
}

func (c *captureCore) Enabled(lvl zapcore.Level) bool {
	// 捕获自身不做级别过滤，全量观测交给 noisy 通道压制处理。
	return true
}

func (c *captureCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &captureCore{logger: c.logger}
	clone.with = append(clone.with, c.with...)
	clone.with = append(clone.with, fields...)
	return clone
}

func (c *captureCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	// 高噪声通道（默认 browser 驱动）低于阈值的记录整体丢弃。
	o := c.logger.opts
	if o.noisyPrefix != "" && strings.HasPrefix(ent.LoggerName, o.noisyPrefix) && ent.Level < o.noisyLevel {
		return ce
	}
	return ce.AddCore(ent, c)
}

func (c *captureCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	e := Entry{
		Timestamp: ent.Time,
		Level:     levelName(ent.Level),
		Logger:    loggerName(ent.LoggerName),
		Message:   ent.Message,
	}
	if ent.Time.IsZero() {
		e.Timestamp = time.Now()
	}
	if ent.Caller.Defined {
		e.Module, e.Function = splitFuncName(ent.Caller.Function)
		e.Line = ent.Caller.Line
	}
	if len(c.with)+len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range c.with {
			f.AddTo(enc)
		}
		for _, f := range fields {
			f.AddTo(enc)
		}
		e.Fields = sanitizeData(enc.Fields)
	}

	c.logger.record(e, c.logger.opts.consoleEcho)
	// 捕获永不向 zap 上抛错误，坏记录在 record 内部兜底。
	return nil
}

func (c *captureCore) Sync() error { return nil }

func loggerName(name string) string {
	if name == "" {
		return "root"
	}
	return name
}

// splitFuncName 把 zap caller 的完整函数名拆成 module 与 function 两段，
// 例如 github.com/BaSui01/agentrun/agent.(*Runner).Run
// 拆为 module=agent、function=(*Runner).Run。
func splitFuncName(full string) (module, function string) {
	if full == "" {
		return "", ""
	}
	short := full
	if i := strings.LastIndex(full, "/"); i >= 0 {
		short = full[i+1:]
	}
	if i := strings.Index(short, "."); i >= 0 {
		return short[:i], short[i+1:]
	}
	return "", short
}

// Install 把记录器装为进程全局日志出口：构建一个以捕获核心为 sink 的
// zap Logger（最宽松级别 + caller 信息），替换 zap 全局实例，并把标准库
// log 重定向过来，保证进程内任何日志语句都不会漏记。
// 返回构建出的 Logger 与恢复函数。
func (l *Logger) Install() (*zap.Logger, func()) {
	zl := zap.New(l.Core(), zap.AddCaller())
	restoreGlobals := zap.ReplaceGlobals(zl)
	restoreStd := zap.RedirectStdLog(zl)
	return zl, func() {
		restoreStd()
		restoreGlobals()
	}
}
