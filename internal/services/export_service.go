package services

import (
	"bytes"
	"fmt"
	"strings"

	apperrors "github.com/granitehub/backend-go/internal/errors"
	"github.com/granitehub/backend-go/internal/logger"
	"github.com/unidoc/unioffice/document"
	"github.com/unidoc/unioffice/measurement"
	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"
)

// 导出格式
const (
	ExportFormatTxt  = "txt"
	ExportFormatDocx = "docx"
	ExportFormatPDF  = "pdf"
)

// ExportResult 导出产物
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService 会话导出服务
type ExportService struct {
	sessions *SessionService
	logger   *zap.Logger
}

// NewExportService 创建导出服务
func NewExportService(sessions *SessionService) *ExportService {
	return &ExportService{
		sessions: sessions,
		logger:   logger.GetLogger(),
	}
}

// Export 将会话历史导出为指定格式
func (s *ExportService) Export(sessionID, format string) (*ExportResult, error) {
	history := s.sessions.History(sessionID)
	if len(history) == 0 {
		return nil, apperrors.NewNotFound("该会话没有消息")
	}

	baseName := fmt.Sprintf("granite_chat_%s", normalizeSessionID(sessionID))

	switch strings.ToLower(format) {
	case ExportFormatTxt:
		return s.exportTxt(baseName, history)
	case ExportFormatDocx:
		return s.exportDocx(baseName, sessionID, history)
	case ExportFormatPDF:
		return s.exportPDF(baseName, sessionID, history)
	default:
		return nil, apperrors.NewBadRequest(fmt.Sprintf("不支持的导出格式: %s", format))
	}
}

func (s *ExportService) exportTxt(baseName string, history []ChatMessage) (*ExportResult, error) {
	var lines []string
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", capitalizeRole(msg.Role), msg.Content))
		lines = append(lines, "")
	}

	return &ExportResult{
		Filename:    baseName + ".txt",
		ContentType: "text/plain",
		Data:        []byte(strings.Join(lines, "\n")),
	}, nil
}

func (s *ExportService) exportDocx(baseName, sessionID string, history []ChatMessage) (*ExportResult, error) {
	doc := document.New()
	defer doc.Close()

	title := doc.AddParagraph()
	titleRun := title.AddRun()
	titleRun.Properties().SetBold(true)
	titleRun.Properties().SetSize(14 * measurement.Point)
	titleRun.AddText("Granite Chat Export")

	meta := doc.AddParagraph()
	meta.AddRun().AddText(fmt.Sprintf("Session ID: %s", sessionID))
	doc.AddParagraph()

	for _, msg := range history {
		para := doc.AddParagraph()
		roleRun := para.AddRun()
		roleRun.Properties().SetBold(true)
		roleRun.AddText(capitalizeRole(msg.Role) + ": ")
		para.AddRun().AddText(msg.Content)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		s.logger.Error("导出docx失败", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "生成docx失败", 500, err)
	}

	return &ExportResult{
		Filename:    baseName + ".docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        buf.Bytes(),
	}, nil
}

func (s *ExportService) exportPDF(baseName, sessionID string, history []ChatMessage) (*ExportResult, error) {
	font, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "加载PDF字体失败", 500, err)
	}
	fontBold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "加载PDF字体失败", 500, err)
	}

	c := creator.New()
	c.NewPage()

	title := c.NewParagraph("Granite Chat Export")
	title.SetFont(fontBold)
	title.SetFontSize(14)
	if err := c.Draw(title); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "生成PDF失败", 500, err)
	}

	meta := c.NewParagraph(fmt.Sprintf("Session ID: %s", sessionID))
	meta.SetFont(font)
	meta.SetFontSize(10)
	meta.SetMargins(0, 0, 6, 12)
	if err := c.Draw(meta); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "生成PDF失败", 500, err)
	}

	for _, msg := range history {
		role := c.NewParagraph(capitalizeRole(msg.Role) + ":")
		role.SetFont(fontBold)
		role.SetFontSize(10)
		role.SetMargins(0, 0, 6, 2)
		if err := c.Draw(role); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "生成PDF失败", 500, err)
		}

		content := c.NewParagraph(strings.ReplaceAll(msg.Content, "\r", ""))
		content.SetFont(font)
		content.SetFontSize(10)
		content.SetMargins(20, 0, 0, 6)
		if err := c.Draw(content); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "生成PDF失败", 500, err)
		}
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		s.logger.Error("导出pdf失败", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCodeInternalServer, "生成PDF失败", 500, err)
	}

	return &ExportResult{
		Filename:    baseName + ".pdf",
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func capitalizeRole(role string) string {
	if role == "" {
		return "User"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}
