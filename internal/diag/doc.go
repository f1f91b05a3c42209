// Package diag 提供启动前的自检能力：对已配置的 LLM 端点发送一次
// 真实请求验证连通性，并检查本地运行环境（日志目录、浏览器入口）。
// 结论面向人类排障，失败时附带按状态码分类的原因提示。
package diag
