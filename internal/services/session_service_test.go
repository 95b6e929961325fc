package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_AppendAndHistory(t *testing.T) {
	service := NewSessionService()

	service.Append("s1", "user", "你好")
	service.Append("s1", "assistant", "你好，有什么可以帮你？")
	service.Append("s2", "user", "another session")

	history := service.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "你好", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)

	assert.Len(t, service.History("s2"), 1)
	assert.Empty(t, service.History("missing"))
}

func TestSessionService_HistoryReturnsCopy(t *testing.T) {
	service := NewSessionService()
	service.Append("s1", "user", "original")

	history := service.History("s1")
	history[0].Content = "mutated"

	assert.Equal(t, "original", service.History("s1")[0].Content)
}

func TestSessionService_EmptySessionIDDefaults(t *testing.T) {
	service := NewSessionService()

	service.Append("", "user", "hello")
	assert.Len(t, service.History(""), 1)
	assert.Len(t, service.History("default"), 1)
}

func TestSessionService_FormatForPrompt(t *testing.T) {
	service := NewSessionService()
	service.Append("s1", "user", "What is Go?")
	service.Append("s1", "assistant", "A programming language.")

	formatted := service.FormatForPrompt("s1")
	assert.Equal(t, "User: What is Go?\nAssistant: A programming language.", formatted)

	assert.Equal(t, "", service.FormatForPrompt("empty"))
}

func TestSessionService_Clear(t *testing.T) {
	service := NewSessionService()
	service.Append("s1", "user", "message")
	service.Append("s2", "user", "keep me")

	service.Clear("s1")
	assert.Empty(t, service.History("s1"))
	assert.Len(t, service.History("s2"), 1)

	// 清除不存在的会话不报错
	service.Clear("missing")
}

func TestSessionService_NewSessionID(t *testing.T) {
	service := NewSessionService()

	first := service.NewSessionID()
	second := service.NewSessionID()
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
