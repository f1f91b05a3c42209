package runlog

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// 级别标签与导出文档中的 level 字段一一对应。
// zap 的 DPanic 及以上统一归入 CRITICAL。
const (
	LevelDebug    = "DEBUG"
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
	LevelEvent    = "EVENT"
)

// EventLogger 是手工事件在导出文档中的来源 logger 名称。
const EventLogger = "AgentLogger"

// Entry 表示一条观测到的日志事件。
// 标准记录填充 Module/Function/Line，手工事件填充 EventType/Data。
type Entry struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Logger    string         `json:"logger"`
	Message   string         `json:"message"`
	Module    string         `json:"module,omitempty"`
	Function  string         `json:"function,omitempty"`
	Line      int            `json:"line,omitempty"`
	EventType string         `json:"event_type,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// levelName 将 zap 级别映射为导出文档中的级别标签。
func levelName(lvl zapcore.Level) string {
	switch lvl {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.InfoLevel:
		return LevelInfo
	case zapcore.WarnLevel:
		return LevelWarning
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelCritical
	}
}

// sanitizeValue 保证单个值可被 JSON 序列化。
// 无法编码的值（循环结构、通道、函数等）被替换为描述性占位串，
// 一条坏记录不能让整个导出失败。
func sanitizeValue(v any) any {
	if v == nil {
		return nil
	}
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("<unserializable %T: %v>", v, err)
	}
	return v
}

// sanitizeData 对事件负载逐键兜底，返回可安全序列化的副本。
func sanitizeData(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = sanitizeValue(v)
	}
	return out
}
