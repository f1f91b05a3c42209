/*
包 runlog 提供以"一次运行"为作用域的结构化事件日志记录器。

# 概述

一次 Agent 运行对应一个 Logger 实例：构造时在日志目录下派生本次运行的
文本转录与 JSON 导出两个产物路径，运行期间按到达顺序在内存中累积全部
日志条目，进程结束时把元数据、统计信息与完整条目序列一次性导出为单个
JSON 文档。导出操作幂等，显式调用与信号处理器触发收敛到同一次写入。

# 核心类型

  - Entry：一条观测到的日志事件。标准记录携带来源 logger、调用位置
    （module/function/line）；手工事件携带 event_type 与任意键值负载。
    条目只追加、不修改，插入顺序即观测顺序。
  - Logger：运行级记录器。Open 创建日志目录与转录文件，Core 返回可挂接
    到 zap 的捕获核心，Install 将自身装为进程全局日志出口。
  - Summary：按级别、事件类型、来源 logger 的频次统计，Export 与
    Summary 基于同一套聚合逻辑。

# 失败策略

日志侧的任何失败都不允许影响运行本身：单条记录序列化失败时负载被就地
替换；控制台与文件两个 sink 各自独立兜底；导出失败只向控制台报告。
只有构造期的目录创建失败（types.ErrFilesystem）会向调用方传播。
*/
package runlog
