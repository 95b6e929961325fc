package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 空文本入库是零效果的成功操作，参数校验层不得拦截
func TestUploadTextRequest_EmptyTextPassesValidation(t *testing.T) {
	assert.NoError(t, validate.Struct(&uploadTextRequest{}))
	assert.NoError(t, validate.Struct(&uploadTextRequest{SourceName: "notes.txt"}))
	assert.NoError(t, validate.Struct(&uploadTextRequest{Text: "正文", SourceName: "notes.txt"}))
}
