package runlog

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logOp 表示一次记录操作：标准日志或手工事件。
type logOp struct {
	Manual    bool
	Origin    string
	Level     zapcore.Level
	EventType string
}

func genLogOp() gopter.Gen {
	origins := gen.OneConstOf("agent", "browser", "llm", "root")
	levels := gen.OneConstOf(zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel)
	events := gen.OneConstOf("task_started", "task_completed", "task_failed", "config")

	return gopter.CombineGens(gen.Bool(), origins, levels, events).
		Map(func(vals []interface{}) logOp {
			return logOp{
				Manual:    vals[0].(bool),
				Origin:    vals[1].(string),
				Level:     vals[2].(zapcore.Level),
				EventType: vals[3].(string),
			}
		})
}

// 任意操作序列下，导出序列保持调用顺序，聚合统计与条目集合自洽。
func TestProperty_OrderingAndAggregates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("entries preserve call order and aggregates match", prop.ForAll(
		func(ops []logOp) bool {
			// 关闭高噪声通道压制，全量观测
			l, err := Open(t.TempDir(),
				WithConsoleEcho(false),
				WithConsoleWriter(nopSyncWriter{}),
				WithNoisyChannel("", zapcore.InfoLevel))
			if err != nil {
				t.Logf("Open failed: %v", err)
				return false
			}
			zl := zap.New(l.Core())

			for i, op := range ops {
				msg := fmt.Sprintf("op-%d", i)
				if op.Manual {
					l.LogEvent(op.EventType, map[string]any{"seq": i})
				} else {
					zl.Named(op.Origin).Log(op.Level, msg)
				}
			}

			entries := l.Entries()
			if len(entries) != len(ops) {
				t.Logf("entry count mismatch: %d != %d", len(entries), len(ops))
				return false
			}

			// 顺序：第 i 条对应第 i 次调用
			for i, op := range ops {
				e := entries[i]
				if op.Manual {
					if e.EventType != op.EventType || e.Logger != EventLogger {
						t.Logf("entry %d: event mismatch", i)
						return false
					}
				} else {
					if e.Logger != op.Origin || e.Message != fmt.Sprintf("op-%d", i) {
						t.Logf("entry %d: record mismatch", i)
						return false
					}
				}
			}

			// 聚合：级别计数总和等于条目总数，事件计数不超过总数，
			// 每个来源的计数与序列一致
			s := l.Summary()
			levelSum, eventSum := 0, 0
			for _, n := range s.ByLevel {
				levelSum += n
			}
			for _, n := range s.ByEventType {
				eventSum += n
			}
			if levelSum != s.TotalEntries || eventSum > s.TotalEntries {
				t.Logf("aggregate sums inconsistent")
				return false
			}

			wantByLogger := map[string]int{}
			for _, e := range entries {
				wantByLogger[e.Logger]++
			}
			for origin, n := range wantByLogger {
				if s.ByLogger[origin] != n {
					t.Logf("by_logger[%s] = %d, want %d", origin, s.ByLogger[origin], n)
					return false
				}
			}
			return true
		},
		gen.SliceOf(genLogOp()),
	))

	properties.TestingRun(t)
}
