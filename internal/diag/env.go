package diag

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BaSui01/agentrun/agent"
)

// Check 是一项环境检查的结论。
type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// CheckEnvironment 验证本地运行前提：日志目录可写、浏览器入口可用。
// 返回所有检查项，调用方据此决定是否继续。
func CheckEnvironment(ctx context.Context, logDir string, browser agent.BrowserConfig) []Check {
	checks := []Check{checkLogDir(logDir)}

	switch browser.Mode() {
	case agent.BrowserCDP:
		checks = append(checks, checkCDP(ctx, browser.CDPURL))
	case agent.BrowserLocal:
		checks = append(checks, checkExecutable(browser.ExecutablePath))
	case agent.BrowserCloud:
		checks = append(checks, Check{
			Name:   "browser",
			OK:     true,
			Detail: "cloud session, nothing to check locally",
		})
	}

	return checks
}

// AllOK 当且仅当所有检查项通过。
func AllOK(checks []Check) bool {
	for _, c := range checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// checkLogDir 创建目录并落一个临时文件验证可写。
func checkLogDir(dir string) Check {
	c := Check{Name: "log_dir", Detail: dir}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.Detail = fmt.Sprintf("cannot create %s: %v", dir, err)
		return c
	}
	probe := filepath.Join(dir, ".diag_write_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		c.Detail = fmt.Sprintf("%s is not writable: %v", dir, err)
		return c
	}
	os.Remove(probe)
	c.OK = true
	return c
}

// checkCDP 访问 DevTools 的版本接口确认浏览器已开启远程调试。
func checkCDP(ctx context.Context, cdpURL string) Check {
	c := Check{Name: "browser_cdp", Detail: cdpURL}

	endpoint := strings.TrimRight(cdpURL, "/") + "/json/version"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.Detail = fmt.Sprintf("invalid CDP URL %s: %v", cdpURL, err)
		return c
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		c.Detail = fmt.Sprintf("CDP endpoint %s unreachable: %v (start chrome with --remote-debugging-port)", cdpURL, err)
		return c
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Detail = fmt.Sprintf("CDP endpoint %s returned HTTP %d", cdpURL, resp.StatusCode)
		return c
	}
	c.OK = true
	return c
}

// checkExecutable 本地启动模式下验证浏览器可执行文件。
// 路径为空表示交给驱动自动发现，视为通过。
func checkExecutable(path string) Check {
	c := Check{Name: "browser_executable"}
	if path == "" {
		c.OK = true
		c.Detail = "auto-detect"
		return c
	}
	info, err := os.Stat(path)
	if err != nil {
		c.Detail = fmt.Sprintf("executable %s not found: %v", path, err)
		return c
	}
	if info.IsDir() {
		c.Detail = fmt.Sprintf("%s is a directory", path)
		return c
	}
	c.OK = true
	c.Detail = path
	return c
}
