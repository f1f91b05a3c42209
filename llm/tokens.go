package llm

import (
	"github.com/pkoukk/tiktoken-go"
)

// EstimateTokens 估算文本在指定模型下的 token 数。
// 已知 OpenAI 系模型走 tiktoken 精确编码；其余模型按字符估算：
// 中文约 1.5 字符一个 token，其他约 4 字符一个 token。
func EstimateTokens(model, text string) int {
	if text == "" {
		return 0
	}
	if enc, err := tiktoken.EncodingForModel(model); err == nil {
		return len(enc.Encode(text, nil, nil))
	}
	return estimateByChars(text)
}

func estimateByChars(text string) int {
	var chinese, other int
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FA5 {
			chinese++
		} else {
			other++
		}
	}
	tokens := float64(chinese)/1.5 + float64(other)/4.0
	if tokens < 1 {
		return 1
	}
	return int(tokens)
}
