package knowledge

import (
	"strings"
)

// Chunk 表示分块后的文本结构
type Chunk struct {
	Index int
	Text  string
}

// Chunker 滑动窗口文本分块器
type Chunker struct {
	maxChars int
	overlap  int
}

// NewChunker 创建分块器
// overlap >= maxChars 属于配置错误，会被收缩以保证窗口始终前进
func NewChunker(maxChars, overlap int) *Chunker {
	if maxChars <= 0 {
		maxChars = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars / 4
	}
	return &Chunker{
		maxChars: maxChars,
		overlap:  overlap,
	}
}

// Split 将文本切分为带重叠的连续窗口
// 窗口 k+1 从 end(窗口k) - overlap 处开始；去除空白后为空的窗口被丢弃
func (c *Chunker) Split(text string) []Chunk {
	normalized := normalizeLineEndings(text)
	runes := []rune(normalized)
	length := len(runes)

	var chunks []Chunk
	start := 0
	for start < length {
		end := start + c.maxChars
		if end > length {
			end = length
		}

		chunkText := strings.TrimSpace(string(runes[start:end]))
		if chunkText != "" {
			chunks = append(chunks, Chunk{
				Index: len(chunks),
				Text:  chunkText,
			})
		}

		if end == length {
			break
		}
		start = end - c.overlap
		if start < 0 {
			start = 0
		}
	}

	return chunks
}

// normalizeLineEndings 统一换行符为 \n
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
