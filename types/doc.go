/*
包 types 定义 agentrun 全局共享的结构化错误类型。

# 错误分类

  - 启动错误（ErrConfiguration / ErrFilesystem）：缺少凭证、日志目录不可写等，
    在任务开始前立即中止进程，原样传播到入口。
  - 运行错误（ErrAgentRun）：外部自动化 Agent 执行失败，先记录 task_failed
    事件再向调用方抛出。
  - 上游错误（ErrUnauthorized / ErrRateLimited 等）：LLM API 探针与 Provider
    健康检查共用的状态码映射。

Error 携带错误码、HTTP 状态、可重试标记与底层 Cause，支持 errors.As 链式匹配。
*/
package types
