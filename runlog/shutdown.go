package runlog

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// exit 可在测试中替换，拦截信号路径的进程退出。
var exit = os.Exit

// HandleSignals 安装 SIGINT/SIGTERM 处理器：收到中断后触发幂等的
// Export 再以 0 退出。与进程入口 defer 的 Export 收敛到同一次写入，
// 先到者执行导出，后到者空操作。返回的 stop 用于解除安装。
func (l *Logger) HandleSignals() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-ch:
			fmt.Fprintf(l.opts.console, "\n⚠️  收到中断信号 (%s)，正在保存日志...\n", sig)
			l.Export()
			exit(0)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
