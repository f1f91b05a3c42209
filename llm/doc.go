/*
包 llm 定义任务运行器所需的统一 LLM 适配层。

# 概述

外部自动化 Agent 驱动 LLM 的全部编排细节在驱动内部，本包只承担两件事：
为各家 API 提供统一的 Provider 构造与健康检查接口（探针诊断也复用它），
以及任务文本的 token 估算（在 config 事件中记录提示词规模）。

# 核心类型

  - Provider：统一适配接口，Completion 发起同步聊天请求，
    HealthCheck 做轻量探活，Name 返回唯一标识。
  - ChatRequest / ChatResponse / Message：统一的请求与响应结构，
    采样参数（temperature、max_tokens）随请求传递。
  - SamplingParams：构造期的默认采样参数。

错误统一使用 types.Error，状态码到错误码的映射在各 Provider 内完成。
*/
package llm
