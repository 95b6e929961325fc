package services

import (
	"fmt"
	"strings"

	"github.com/granitehub/backend-go/internal/knowledge"
)

// 对话模式
const (
	ModeGeneral    = "general"
	ModeCoding     = "coding"
	ModeTeacher    = "teacher"
	ModeSummarizer = "summarizer"
)

// PromptBuilder 提示词组装器
type PromptBuilder struct {
	contextMaxChars int
}

// NewPromptBuilder 创建提示词组装器
// contextMaxChars 限制检索上下文块的总长度
func NewPromptBuilder(contextMaxChars int) *PromptBuilder {
	if contextMaxChars <= 0 {
		contextMaxChars = 2000
	}
	return &PromptBuilder{contextMaxChars: contextMaxChars}
}

// ModeInstructions 返回指定模式的指令块
func ModeInstructions(mode string) string {
	switch strings.ToLower(mode) {
	case ModeCoding:
		return "You are GRANITE-CODE, a senior software engineer.\n" +
			"- Focus on code, debugging, architecture and best practices.\n" +
			"- Prefer concrete examples over theory.\n" +
			"- When you show code, use clear fenced code blocks with the right language.\n" +
			"- Explain in short bullet points after the code what it does.\n" +
			"- If the user does not specify a language, pick a reasonable default (often Python or JavaScript).\n"
	case ModeTeacher:
		return "You are GRANITE-TEACHER, a patient teacher and mentor.\n" +
			"- Explain concepts step by step, starting from basics.\n" +
			"- Use simple language, short sentences and concrete examples.\n" +
			"- When helpful, use numbered lists and analogies.\n" +
			"- Regularly check understanding and invite questions.\n"
	case ModeSummarizer:
		return "You are GRANITE-SUMMARIZER, an expert summarization assistant.\n" +
			"- Your main job is to produce concise, accurate summaries.\n" +
			"- Prefer bullet lists and short paragraphs.\n" +
			"- Highlight key points, decisions, and action items.\n" +
			"- If the user asks for a specific summary style (e.g., 3 bullets, TL;DR), follow it.\n"
	default:
		return "You are GRANITE-ASSISTANT, a helpful, concise AI assistant.\n" +
			"- Answer clearly and directly.\n" +
			"- Use friendly, professional tone.\n" +
			"- When the user asks for code, provide code with minimal explanation.\n" +
			"- When the user asks for reasoning or learning, explain your steps.\n"
	}
}

// FormatRAGContext 将检索结果组装为带编号和来源的上下文块
// 超出长度上限的结果被截断丢弃
func (b *PromptBuilder) FormatRAGContext(hits []knowledge.QueryResult) string {
	if len(hits) == 0 {
		return ""
	}

	var blocks []string
	total := 0

	for i, hit := range hits {
		text := strings.TrimSpace(hit.Text)
		if text == "" {
			continue
		}

		header := fmt.Sprintf("[%d]", i+1)
		if hit.Source != "" {
			header += fmt.Sprintf(" (source: %s)", hit.Source)
		}

		block := header + "\n" + text + "\n"
		if total+len(block) > b.contextMaxChars {
			break
		}
		blocks = append(blocks, block)
		total += len(block)
	}

	return strings.TrimSpace(strings.Join(blocks, "\n"))
}

// Build 组装发送给模型的完整提示词
func (b *PromptBuilder) Build(historyPrompt, userMessage string, hits []knowledge.QueryResult, mode string) string {
	ragBlock := b.FormatRAGContext(hits)

	var parts []string

	parts = append(parts,
		"You are Granite, an advanced large language model developed to run locally.\n"+
			"Always stay within your mode instructions and be safe and honest.\n")

	parts = append(parts, "### Mode instructions\n")
	parts = append(parts, strings.TrimSpace(ModeInstructions(mode))+"\n")

	if ragBlock != "" {
		parts = append(parts, "### Retrieved context from user documents\n")
		parts = append(parts,
			"The following snippets come from documents the user uploaded. "+
				"Use them as authoritative reference when answering, but do NOT "+
				"quote them blindly if they contradict obvious facts.\n")
		parts = append(parts, ragBlock+"\n")
	}

	if strings.TrimSpace(historyPrompt) != "" {
		parts = append(parts, "### Conversation so far\n")
		parts = append(parts, strings.TrimSpace(historyPrompt)+"\n")
	}

	parts = append(parts, "### Current user message\n")
	parts = append(parts, "User: "+strings.TrimSpace(userMessage)+"\n")
	parts = append(parts, "Assistant:")

	return strings.Join(parts, "\n")
}

// SanitizeStreamText 清理流式输出的文本片段
func SanitizeStreamText(text string) string {
	return strings.ReplaceAll(text, "\r", "")
}
