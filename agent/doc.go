// Package agent 定义浏览器自动化代理的运行契约。
//
// # 概述
//
// 代理本体是外部协作方（浏览器驱动、规划循环），本包不关心其内部
// 实现，只约定三件事：
//
//  1. 任务与浏览器配置（TaskConfig / BrowserConfig）
//  2. 统一的执行接口（Agent）
//  3. 运行括号（Runner）：task_started → task_completed / task_failed
//     的生命周期事件由 Runner 统一写入运行日志，代理实现无需感知。
//
// # 核心类型
//
//   - Agent: 单方法执行接口，Run 返回最终结果或错误
//   - Runner: 持有一个 Agent 与一个 runlog.Logger，依赖注入、无全局状态
//   - Result: 执行结果（输出、步数、耗时）
package agent
