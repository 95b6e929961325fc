package knowledge

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextParser(t *testing.T) {
	parser := &TextParser{}

	assert.True(t, parser.Supports("notes.txt"))
	assert.True(t, parser.Supports("README.md"))
	assert.True(t, parser.Supports("doc.MARKDOWN"))
	assert.False(t, parser.Supports("report.pdf"))

	text, err := parser.Parse(strings.NewReader("hello 世界"), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello 世界", text)
}

func TestImageParser_WithoutOCREngine(t *testing.T) {
	parser := &ImageParser{}

	assert.True(t, parser.Supports("scan.png"))
	assert.True(t, parser.Supports("photo.JPEG"))
	assert.False(t, parser.Supports("doc.docx"))

	_, err := parser.Parse(strings.NewReader("fake image bytes"), "scan.png")
	assert.Error(t, err)
}

// stubOCR 测试用OCR引擎
type stubOCR struct {
	text string
	err  error
}

func (s *stubOCR) Recognize(image []byte) (string, error) {
	return s.text, s.err
}

func TestImageParser_WithOCREngine(t *testing.T) {
	parser := &ImageParser{ocr: &stubOCR{text: "recognized text"}}

	text, err := parser.Parse(strings.NewReader("fake image bytes"), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, "recognized text", text)
}

func TestFileParserManager_DispatchAndFallback(t *testing.T) {
	manager := NewFileParserManager(nil)

	// 已注册扩展名
	text, err := manager.ParseFile(strings.NewReader("plain"), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "plain", text)

	// 未知扩展名按纯文本处理
	text, err = manager.ParseFile(strings.NewReader("log line"), "server.log")
	require.NoError(t, err)
	assert.Equal(t, "log line", text)
}

func TestFileParserManager_ExtractTextDegradesToEmpty(t *testing.T) {
	manager := NewFileParserManager(nil)

	// OCR未配置，图片提取失败但不向上传播
	text := manager.ExtractText(strings.NewReader("binary"), "scan.png")
	assert.Equal(t, "", text)

	// OCR返回错误同样降级
	manager = NewFileParserManager(&stubOCR{err: errors.New("ocr unavailable")})
	text = manager.ExtractText(strings.NewReader("binary"), "scan.png")
	assert.Equal(t, "", text)
}
