package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSessionID = "default"

// ChatMessage 会话中的一条消息
type ChatMessage struct {
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionService 会话记忆服务
// 历史只存在于进程内存，重启即丢弃
type SessionService struct {
	mu       sync.Mutex
	sessions map[string][]ChatMessage
}

// NewSessionService 创建会话服务
func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[string][]ChatMessage),
	}
}

// NewSessionID 生成新的会话ID
func (s *SessionService) NewSessionID() string {
	return uuid.NewString()
}

// Append 追加一条消息到会话
func (s *SessionService) Append(sessionID, role, content string) {
	sessionID = normalizeSessionID(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], ChatMessage{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// History 返回会话消息副本
func (s *SessionService) History(sessionID string) []ChatMessage {
	sessionID = normalizeSessionID(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.sessions[sessionID]
	out := make([]ChatMessage, len(history))
	copy(out, history)
	return out
}

// FormatForPrompt 将会话历史格式化为提示词文本
func (s *SessionService) FormatForPrompt(sessionID string) string {
	history := s.History(sessionID)

	lines := make([]string, 0, len(history))
	for _, msg := range history {
		prefix := "User"
		if msg.Role == "assistant" {
			prefix = "Assistant"
		}
		lines = append(lines, prefix+": "+msg.Content)
	}
	return strings.Join(lines, "\n")
}

// Clear 清空指定会话
func (s *SessionService) Clear(sessionID string) {
	sessionID = normalizeSessionID(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func normalizeSessionID(sessionID string) string {
	if sessionID == "" {
		return defaultSessionID
	}
	return sessionID
}
