package knowledge

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/granitehub/backend-go/internal/logger"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"
)

// FileParser 文件解析器接口
type FileParser interface {
	Parse(reader io.Reader, filename string) (string, error)
	Supports(filename string) bool
}

// OCREngine 图片文字识别能力，由外部注入
type OCREngine interface {
	Recognize(image []byte) (string, error)
}

// TextParser 文本文件解析器
type TextParser struct{}

func (p *TextParser) Supports(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".txt" || ext == ".md" || ext == ".markdown"
}

func (p *TextParser) Parse(reader io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	return string(content), nil
}

// PDFParser PDF文件解析器
type PDFParser struct{}

func (p *PDFParser) Supports(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".pdf"
}

func (p *PDFParser) Parse(reader io.Reader, filename string) (string, error) {
	pdfBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取PDF文件失败: %w", err)
	}

	pdfReader, err := model.NewPdfReader(bytes.NewReader(pdfBytes))
	if err != nil {
		return "", fmt.Errorf("解析PDF失败: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("获取PDF页数失败: %w", err)
	}

	// 逐页提取，单页失败跳过
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n\n"), nil
}

// WordParser Word文档解析器
type WordParser struct{}

func (p *WordParser) Supports(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".docx" || ext == ".doc"
}

func (p *WordParser) Parse(reader io.Reader, filename string) (string, error) {
	docBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取Word文件失败: %w", err)
	}

	// 仅支持.docx格式
	if strings.ToLower(filepath.Ext(filename)) == ".doc" {
		return "", fmt.Errorf("暂不支持.doc格式，请使用.docx格式")
	}

	doc, err := document.Read(bytes.NewReader(docBytes), int64(len(docBytes)))
	if err != nil {
		return "", fmt.Errorf("解析Word文档失败: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			textBuilder.WriteString(run.Text())
		}
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// ImageParser 图片解析器，通过注入的OCR引擎提取文字
type ImageParser struct {
	ocr OCREngine
}

func (p *ImageParser) Supports(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tiff":
		return true
	}
	return false
}

func (p *ImageParser) Parse(reader io.Reader, filename string) (string, error) {
	if p.ocr == nil {
		return "", fmt.Errorf("OCR引擎未配置，无法识别图片 %s", filename)
	}

	imageBytes, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取图片失败: %w", err)
	}
	return p.ocr.Recognize(imageBytes)
}

// FileParserManager 文件解析器管理器，按扩展名分发
type FileParserManager struct {
	parsers  []FileParser
	fallback FileParser
	logger   *zap.Logger
}

// NewFileParserManager 创建文件解析器管理器
// ocr 为 nil 时图片解析降级为空文本
func NewFileParserManager(ocr OCREngine) *FileParserManager {
	return &FileParserManager{
		parsers: []FileParser{
			&PDFParser{},
			&WordParser{},
			&ImageParser{ocr: ocr},
			&TextParser{},
		},
		// 未知扩展名按纯文本处理
		fallback: &TextParser{},
		logger:   logger.GetLogger(),
	}
}

// ParseFile 解析文件，返回提取的文本
func (m *FileParserManager) ParseFile(reader io.Reader, filename string) (string, error) {
	for _, parser := range m.parsers {
		if parser.Supports(filename) {
			return parser.Parse(reader, filename)
		}
	}
	return m.fallback.Parse(reader, filename)
}

// ExtractText 提取文本，任何解析失败都降级为空文本而不向上传播
func (m *FileParserManager) ExtractText(reader io.Reader, filename string) string {
	text, err := m.ParseFile(reader, filename)
	if err != nil {
		m.logger.Warn("文件解析失败，降级为空文本",
			zap.String("filename", filename),
			zap.Error(err))
		return ""
	}
	return text
}
