// 包 providers 汇集各 LLM 厂商的配置结构。
// 具体实现在各自子包中，OpenAI 兼容类厂商共享 openaicompat 基座。
package providers
